package ir

import (
	"encoding/hex"
	"sort"
	"strconv"
	"unicode/utf16"

	"github.com/roach88/shade/internal/sig"
)

// IRValue is a sealed interface over the values allowed in a trace.
// Only IRString, IRInt, IRBool, IRArray and IRObject implement it.
type IRValue interface {
	irValue()
}

// IRString is a string value.
type IRString string

func (IRString) irValue() {}

// IRInt is an integer value. Always int64.
type IRInt int64

func (IRInt) irValue() {}

// IRBool is a boolean value.
type IRBool bool

func (IRBool) irValue() {}

// IRArray is an ordered list of values.
type IRArray []IRValue

func (IRArray) irValue() {}

// IRObject maps string keys to values. Use SortedKeys for iteration.
type IRObject map[string]IRValue

func (IRObject) irValue() {}

// SortedKeys returns the object keys in canonical (UTF-16 code unit) order.
func (o IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return compareUTF16(keys[i], keys[j]) < 0
	})
	return keys
}

// FromArg lowers a dispatched argument into the trace value model.
//
// Values with no IR counterpart are described by kind instead of content:
// nil, floats and platform objects become {"kind": ...} objects, with the
// float's decimal text kept under "text".
func FromArg(v any) IRValue {
	switch val := v.(type) {
	case IRValue:
		return val
	case string:
		return IRString(val)
	case bool:
		return IRBool(val)
	case int:
		return IRInt(val)
	case int32:
		return IRInt(val)
	case int64:
		return IRInt(val)
	case []byte:
		return IRObject{"kind": IRString(sig.KindBytes), "hex": IRString(hex.EncodeToString(val))}
	case float32:
		return IRObject{"kind": IRString(sig.KindFloat32), "text": IRString(strconv.FormatFloat(float64(val), 'g', -1, 32))}
	case float64:
		return IRObject{"kind": IRString(sig.KindFloat64), "text": IRString(strconv.FormatFloat(val, 'g', -1, 64))}
	default:
		return IRObject{"kind": IRString(sig.KindOf(v))}
	}
}

// FromArgs lowers an argument list.
func FromArgs(args []any) IRArray {
	out := make(IRArray, len(args))
	for i, a := range args {
		out[i] = FromArg(a)
	}
	return out
}

// compareUTF16 orders strings by UTF-16 code units, as RFC 8785 requires.
func compareUTF16(a, b string) int {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			if ua[i] < ub[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ua) < len(ub):
		return -1
	case len(ua) > len(ub):
		return 1
	}
	return 0
}
