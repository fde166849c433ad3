package contract

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindInvalidAddress	ErrorKind	= "invalid_address"
	KindTransportFailure	ErrorKind	= "transport_failure"
	KindDecodeFailure	ErrorKind	= "decode_failure"
)

var (
	ErrInvalidAddress	= errors.New("invalid address")
	ErrTransportFailure	= errors.New("transport failure")
	ErrDecodeFailure	= errors.New("decode failure")
)

// Error is returned by the decoder and the fetcher. errors.Is matches it
// against the sentinel of its kind, errors.As exposes Op and the cause.
type Error struct {
	Kind	ErrorKind
	Op	string
	Err	error
}

func (e *Error) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidAddress:
		return ErrInvalidAddress
	case KindTransportFailure:
		return ErrTransportFailure
	case KindDecodeFailure:
		return ErrDecodeFailure
	}
	return fmt.Errorf("unknown error kind %q", string(k))
}

func InvalidAddress(input string, err error) error {
	return &Error{Kind: KindInvalidAddress, Op: fmt.Sprintf("parse %q", input), Err: err}
}

func TransportFailure(op string, err error) error {
	return &Error{Kind: KindTransportFailure, Op: op, Err: err}
}

func DecodeFailure(op string, err error) error {
	return &Error{Kind: KindDecodeFailure, Op: op, Err: err}
}

// KindOf reports the kind of err, or "" when err is not a *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
