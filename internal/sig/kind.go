package sig

import (
	"fmt"
	"reflect"

	"github.com/roach88/shade/internal/platform"
)

// Kind names the runtime kind of a call argument.
//
// Go primitives map to fixed names; real platform objects use their
// platform type name. A typed nil real object keeps its declared type if it
// implements platform.Declared and is KindNil otherwise. Anything else falls
// back to its Go type name.
type Kind string

// Primitive kinds.
const (
	KindNil     Kind = "nil"
	KindBool    Kind = "bool"
	KindInt     Kind = "int"
	KindInt32   Kind = "int32"
	KindInt64   Kind = "int64"
	KindFloat32 Kind = "float32"
	KindFloat64 Kind = "float64"
	KindString  Kind = "string"
	KindBytes   Kind = "bytes"
)

// TypeKind returns the kind of a real object of platform type t.
func TypeKind(t platform.Type) Kind {
	return Kind(t)
}

// KindOf returns the kind of a single argument.
func KindOf(v any) Kind {
	switch val := v.(type) {
	case nil:
		return KindNil
	case bool:
		return KindBool
	case int:
		return KindInt
	case int32:
		return KindInt32
	case int64:
		return KindInt64
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	case string:
		return KindString
	case []byte:
		return KindBytes
	case platform.Declared:
		return Kind(val.DeclaredType())
	case platform.Object:
		if isNilPointer(v) {
			return KindNil
		}
		return Kind(val.PlatformType())
	default:
		return Kind(fmt.Sprintf("%T", v))
	}
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
