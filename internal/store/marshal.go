package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/shade/internal/ir"
)

// marshalArgs converts call arguments to canonical JSON TEXT for storage.
func marshalArgs(args ir.IRArray) (string, error) {
	if args == nil {
		args = ir.IRArray{}
	}
	data, err := ir.MarshalCanonical(args)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

// unmarshalArgs parses stored canonical JSON back into an IRArray.
// Numbers decode through json.Number so int64 values above 2^53 survive.
func unmarshalArgs(data string) (ir.IRArray, error) {
	if data == "" || data == "[]" {
		return ir.IRArray{}, nil
	}
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}
	out := make(ir.IRArray, len(raw))
	for i, elem := range raw {
		v, err := fromJSON(elem)
		if err != nil {
			return nil, fmt.Errorf("unmarshal args[%d]: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func fromJSON(v any) (ir.IRValue, error) {
	switch val := v.(type) {
	case string:
		return ir.IRString(val), nil
	case bool:
		return ir.IRBool(val), nil
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("non-integer number %q", val.String())
		}
		return ir.IRInt(n), nil
	case []any:
		arr := make(ir.IRArray, len(val))
		for i, elem := range val {
			iv, err := fromJSON(elem)
			if err != nil {
				return nil, err
			}
			arr[i] = iv
		}
		return arr, nil
	case map[string]any:
		obj := make(ir.IRObject, len(val))
		for k, elem := range val {
			iv, err := fromJSON(elem)
			if err != nil {
				return nil, err
			}
			obj[k] = iv
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported JSON value %T", v)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
