package contract

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"ton-sc-viewer/internal/ton"
	"ton-sc-viewer/internal/tvm"
)

const (
	MethodStorageInfo	= "get_storage_info"
	MethodProviders		= "get_providers"
)

// Fields are popped in contract ABI order. A value of an unexpected kind leaves
// its field at the default; a missing position fails the whole decode.

func DecodeStorageInfo(res *ton.MethodResult) (*ContractInfo, error) {
	if res == nil {
		return nil, TransportFailure(MethodStorageInfo, errors.New("empty reply"))
	}

	info := &ContractInfo{
		FileSize: "0",
	}
	c := tvm.NewCursor(res.Stack)
	fail := func(field string, err error) error {
		return DecodeFailure(MethodStorageInfo, fmt.Errorf("%s: %w", field, err))
	}

	v, err := popInt(c)
	if err != nil {
		return nil, fail("bagID", err)
	}
	if v != nil {
		if info.BagID, err = hexUpper64(v); err != nil {
			return nil, fail("bagID", err)
		}
	}

	if v, err = popInt(c); err != nil {
		return nil, fail("fileSize", err)
	}
	if v != nil {
		info.FileSize = v.String()
	}

	if v, err = popInt(c); err != nil {
		return nil, fail("chunkSize", err)
	}
	if v != nil {
		if info.ChunkSize, err = toUint64(v); err != nil {
			return nil, fail("chunkSize", err)
		}
	}

	owner, err := c.Pop()
	if err != nil {
		return nil, fail("owner", err)
	}
	if oc, ok := owner.(tvm.Cell); ok && oc.C != nil {
		sl := oc.C.BeginParse()
		if sl.BitsLeft() >= 256 {
			if addr, err := sl.LoadAddr(); err == nil && addr != nil {
				info.Owner = addr.String()
			}
		}
	}

	if v, err = popInt(c); err != nil {
		return nil, fail("merkleHash", err)
	}
	if v != nil {
		if info.MerkleHash, err = hexLower64(v); err != nil {
			return nil, fail("merkleHash", err)
		}
	}

	return info, nil
}

func DecodeProviders(res *ton.MethodResult) (*ContractProviders, error) {
	if res == nil {
		return nil, TransportFailure(MethodProviders, errors.New("empty reply"))
	}

	out := &ContractProviders{
		Providers:	[]ProviderInfo{},
		Balance:	"0",
	}
	c := tvm.NewCursor(res.Stack)

	list, err := c.Pop()
	if err != nil {
		return nil, DecodeFailure(MethodProviders, fmt.Errorf("providers: %w", err))
	}

	if tup, ok := list.(tvm.Tuple); ok {
		items := tvm.NewReverseCursor(tup.Items)
		for items.Remaining() > 0 {
			item, _ := items.Pop()
			entry, ok := item.(tvm.Tuple)
			if !ok {
				continue
			}

			p, err := decodeProvider(entry)
			if err != nil {
				return nil, DecodeFailure(MethodProviders, fmt.Errorf("provider #%d: %w", len(out.Providers), err))
			}
			out.Providers = append(out.Providers, *p)
		}
	}

	balance, err := popInt(c)
	if err != nil {
		return nil, DecodeFailure(MethodProviders, fmt.Errorf("balance: %w", err))
	}
	if balance != nil {
		out.Balance = balance.String()
	}

	return out, nil
}

// decodeProvider reads one provider entry from its end, so fields come out
// in reverse declaration order.
func decodeProvider(entry tvm.Tuple) (*ProviderInfo, error) {
	p := &ProviderInfo{
		NextProofByte:	"0",
		Nonce:		"0",
	}
	c := tvm.NewReverseCursor(entry.Items)

	v, err := popInt(c)
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	if v != nil {
		p.Nonce = v.String()
	}

	if v, err = popInt(c); err != nil {
		return nil, fmt.Errorf("nextProofByte: %w", err)
	}
	if v != nil {
		p.NextProofByte = v.String()
	}

	if v, err = popInt(c); err != nil {
		return nil, fmt.Errorf("lastProof: %w", err)
	}
	if v != nil {
		if p.LastProof, err = toUint64(v); err != nil {
			return nil, fmt.Errorf("lastProof: %w", err)
		}
	}

	if v, err = popInt(c); err != nil {
		return nil, fmt.Errorf("maxSpan: %w", err)
	}
	if v != nil {
		if p.MaxSpan, err = toUint64(v); err != nil {
			return nil, fmt.Errorf("maxSpan: %w", err)
		}
	}

	if v, err = popInt(c); err != nil {
		return nil, fmt.Errorf("ratePerMB: %w", err)
	}
	if v != nil {
		if !v.IsInt64() {
			return nil, fmt.Errorf("ratePerMB: %s out of range", v.String())
		}
		p.RatePerMB = v.Int64()
	}

	if v, err = popInt(c); err != nil {
		return nil, fmt.Errorf("cid: %w", err)
	}
	if v != nil {
		if p.CID, err = hexUpper64(v); err != nil {
			return nil, fmt.Errorf("cid: %w", err)
		}
	}

	return p, nil
}

// popInt returns a nil value without error when the entry is present
// but is not an integer.
func popInt(c *tvm.Cursor) (*big.Int, error) {
	v, err := c.Pop()
	if err != nil {
		return nil, err
	}
	if i, ok := v.(tvm.Int); ok && i.V != nil {
		return i.V, nil
	}
	return nil, nil
}

func toUint64(v *big.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, fmt.Errorf("%s out of range", v.String())
	}
	return v.Uint64(), nil
}

// hexLower64 renders a 256-bit id as exactly 64 hex chars.
func hexLower64(v *big.Int) (string, error) {
	if v.Sign() < 0 || v.BitLen() > 256 {
		return "", fmt.Errorf("%s is not a 256-bit id", v.String())
	}
	s := v.Text(16)
	if len(s) < 64 {
		s = strings.Repeat("0", 64-len(s)) + s
	}
	return s, nil
}

func hexUpper64(v *big.Int) (string, error) {
	s, err := hexLower64(v)
	return strings.ToUpper(s), err
}
