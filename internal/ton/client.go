package ton

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/xssnick/tonutils-go/address"

	"ton-sc-viewer/internal/tvm"
)

var ErrExitCode = errors.New("get method exited with error code")

// MethodResult is the reply of a read-only get-method call.
type MethodResult struct {
	GasUsed		int64
	ExitCode	int32
	Stack		[]tvm.Value
}

type Client interface {
	RunGetMethod(ctx context.Context, addr *address.Address, method string) (*MethodResult, error)
}

// ParseAddress accepts the user-friendly form (EQ.../UQ...) and the raw wc:hex form.
func ParseAddress(s string) (*address.Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty address")
	}

	addr, err := address.ParseAddr(s)
	if err == nil {
		return addr, nil
	}

	if wc, h, ok := strings.Cut(s, ":"); ok && len(h) == 64 {
		if _, hexErr := hex.DecodeString(h); hexErr == nil && (wc == "0" || wc == "-1") {
			raw, rawErr := address.ParseRawAddr(s)
			if rawErr == nil {
				return raw, nil
			}
			err = rawErr
		}
	}

	return nil, fmt.Errorf("invalid address: %w", err)
}

func exitCodeError(method string, code int32) error {
	return fmt.Errorf("%s: %w %d", method, ErrExitCode, code)
}
