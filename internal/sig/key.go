// Package sig defines signature keys: the identity used to match an
// intercepted call to a shadow method.
//
// A key is an operation name plus the ordered kinds of its parameters. Keys
// are comparable and are used directly as map keys. Matching is exact: there
// is no widening between kinds and no variance between platform types.
package sig

import (
	"fmt"
	"strings"
)

// Constructor is the reserved operation name denoting a constructor.
const Constructor = "__constructor__"

// Key identifies a method or constructor by name and parameter kinds.
//
// Params holds each kind followed by a NUL byte so that Key stays
// comparable and kinds containing commas (generic or func type names)
// cannot run together.
type Key struct {
	Name   string
	Params string
}

const kindEnd = "\x00"

// New builds a key from a name and ordered parameter kinds.
func New(name string, params ...Kind) Key {
	var b strings.Builder
	for _, p := range params {
		b.WriteString(string(p))
		b.WriteString(kindEnd)
	}
	return Key{Name: name, Params: b.String()}
}

// NewConstructor builds the key of a constructor taking params.
func NewConstructor(params ...Kind) Key {
	return New(Constructor, params...)
}

// Of builds a key from a name and the runtime kinds of args.
func Of(name string, args ...any) Key {
	kinds := make([]Kind, len(args))
	for i, a := range args {
		kinds[i] = KindOf(a)
	}
	return New(name, kinds...)
}

// Kinds returns the parameter kinds in order.
func (k Key) Kinds() []Kind {
	if k.Params == "" {
		return nil
	}
	parts := strings.Split(strings.TrimSuffix(k.Params, kindEnd), kindEnd)
	kinds := make([]Kind, len(parts))
	for i, p := range parts {
		kinds[i] = Kind(p)
	}
	return kinds
}

// Arity returns the number of parameters.
func (k Key) Arity() int {
	return strings.Count(k.Params, kindEnd)
}

// IsConstructor reports whether k names a constructor.
func (k Key) IsConstructor() bool {
	return k.Name == Constructor
}

// String renders k as name(kind,kind).
func (k Key) String() string {
	kinds := k.Kinds()
	parts := make([]string, len(kinds))
	for i, kind := range kinds {
		parts[i] = string(kind)
	}
	return k.Name + "(" + strings.Join(parts, ",") + ")"
}

// Parse reads a key in the form produced by String. Commas nested inside
// brackets or parentheses belong to the enclosing kind.
func Parse(s string) (Key, error) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return Key{}, fmt.Errorf("malformed signature %q: want name(kind,...)", s)
	}
	name := strings.TrimSpace(s[:open])
	inner := strings.TrimSpace(s[open+1 : len(s)-1])
	if inner == "" {
		return New(name), nil
	}
	parts, err := splitKinds(inner)
	if err != nil {
		return Key{}, fmt.Errorf("malformed signature %q: %w", s, err)
	}
	kinds := make([]Kind, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return Key{}, fmt.Errorf("malformed signature %q: empty parameter kind at %d", s, i)
		}
		kinds[i] = Kind(p)
	}
	return New(name, kinds...), nil
}

// splitKinds splits on top-level commas.
func splitKinds(s string) ([]string, error) {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced %q at %d", s[i], i)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets")
	}
	return append(parts, s[start:]), nil
}
