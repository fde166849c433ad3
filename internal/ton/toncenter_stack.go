package ton

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/xssnick/tonutils-go/tvm/cell"

	"ton-sc-viewer/internal/tvm"
)

// Top level entries come as ["tag", payload] pairs, entries nested in
// tuples and lists come as {"@type": "tvm.stackEntry...", ...} objects.

type bytesPayload struct {
	Bytes string `json:"bytes"`
}

type elementsPayload struct {
	Elements []json.RawMessage `json:"elements"`
}

type stackEntry struct {
	Type	string		`json:"@type"`
	Number	*struct {
		Number string `json:"number"`
	}	`json:"number"`
	Cell	*bytesPayload		`json:"cell"`
	Slice	*bytesPayload		`json:"slice"`
	Tuple	*elementsPayload	`json:"tuple"`
	List	*elementsPayload	`json:"list"`
}

func parseToncenterStack(raw []json.RawMessage) ([]tvm.Value, error) {
	out := make([]tvm.Value, 0, len(raw))
	for i, r := range raw {
		v, err := parsePair(r)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parsePair(raw json.RawMessage) (tvm.Value, error) {
	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil {
		return nil, err
	}
	if len(pair) == 0 {
		return nil, fmt.Errorf("empty entry")
	}

	var tag string
	if err := json.Unmarshal(pair[0], &tag); err != nil {
		return nil, fmt.Errorf("entry tag: %w", err)
	}
	payload := json.RawMessage("null")
	if len(pair) > 1 {
		payload = pair[1]
	}

	switch tag {
	case "num", "number", "int":
		var s string
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, fmt.Errorf("num payload: %w", err)
		}
		return parseNumber(s)
	case "cell":
		var p bytesPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("cell payload: %w", err)
		}
		return parseCell(p.Bytes)
	case "slice":
		var p bytesPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("slice payload: %w", err)
		}
		return parseSlice(p.Bytes)
	case "tuple", "list":
		var p elementsPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("%s payload: %w", tag, err)
		}
		return parseElements(p.Elements)
	case "null":
		return tvm.Null{}, nil
	default:
		return tvm.Unsupported{Tag: tag}, nil
	}
}

func parseElement(raw json.RawMessage) (tvm.Value, error) {
	var e stackEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}

	switch e.Type {
	case "tvm.stackEntryNumber":
		if e.Number == nil {
			return nil, fmt.Errorf("number entry without number")
		}
		return parseNumber(e.Number.Number)
	case "tvm.stackEntryCell":
		if e.Cell == nil {
			return nil, fmt.Errorf("cell entry without cell")
		}
		return parseCell(e.Cell.Bytes)
	case "tvm.stackEntrySlice":
		if e.Slice == nil {
			return nil, fmt.Errorf("slice entry without slice")
		}
		return parseSlice(e.Slice.Bytes)
	case "tvm.stackEntryTuple":
		if e.Tuple == nil {
			return tvm.Tuple{Items: []tvm.Value{}}, nil
		}
		return parseElements(e.Tuple.Elements)
	case "tvm.stackEntryList":
		if e.List == nil {
			return tvm.Tuple{Items: []tvm.Value{}}, nil
		}
		return parseElements(e.List.Elements)
	case "tvm.stackEntryNull":
		return tvm.Null{}, nil
	default:
		return tvm.Unsupported{Tag: e.Type}, nil
	}
}

func parseElements(raw []json.RawMessage) (tvm.Value, error) {
	items := make([]tvm.Value, 0, len(raw))
	for i, r := range raw {
		v, err := parseElement(r)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		items = append(items, v)
	}
	return tvm.Tuple{Items: items}, nil
}

// parseNumber accepts hex ("0x1f", "-0x1f") and decimal forms.
func parseNumber(s string) (tvm.Value, error) {
	s = strings.TrimSpace(s)
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("bad number %q", s)
	}
	return tvm.Int{V: v}, nil
}

func decodeBOC(b64 string) (*cell.Cell, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("boc base64: %w", err)
	}
	c, err := cell.FromBOC(data)
	if err != nil {
		return nil, fmt.Errorf("boc: %w", err)
	}
	return c, nil
}

func parseCell(b64 string) (tvm.Value, error) {
	c, err := decodeBOC(b64)
	if err != nil {
		return nil, err
	}
	return tvm.Cell{C: c}, nil
}

func parseSlice(b64 string) (tvm.Value, error) {
	c, err := decodeBOC(b64)
	if err != nil {
		return nil, err
	}
	return tvm.Slice{S: c.BeginParse()}, nil
}
