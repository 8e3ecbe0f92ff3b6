// Package shadow describes shadow types: the test-friendly stand-ins that
// supply behavior and state for real platform objects.
//
// A shadow type is registered once, at catalog load, as a Class. The class
// carries an explicit dispatch table from signature key to method, the tag
// that stores the linked real object on a fresh shadow, and an optional
// default used when no method matches. Nothing is discovered at call time.
//
// Classes are built with Define:
//
//	var ShadowNetworkClass = shadow.Define("ShadowNetwork", func() *ShadowNetwork { return &ShadowNetwork{} }).
//		RealObject(func(s *ShadowNetwork, r platform.Object) { s.real = r.(*Network) }).
//		Implement(sig.New("getNetId"), (*ShadowNetwork).getNetID).
//		MustBuild()
package shadow

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/roach88/shade/internal/platform"
	"github.com/roach88/shade/internal/sig"
)

// FieldAccess is the privileged field capability handed to shadow methods.
// It is satisfied by *bridge.Bridge.
type FieldAccess interface {
	ReadField(target platform.Object, name string) (any, error)
	WriteField(target platform.Object, name string, v any) error
}

// Invocation is a dispatched call as seen by a shadow method.
type Invocation struct {
	Key    sig.Key
	Args   []any
	Real   platform.Object
	Fields FieldAccess
}

// Arg returns argument i as T. Dispatch matches kinds exactly before a
// method runs, so the assertion only yields the zero value when a method is
// registered under a key that disagrees with its own body.
func Arg[T any](inv *Invocation, i int) T {
	v, _ := inv.Args[i].(T)
	return v
}

// Method is a dispatch table entry. self is the shadow instance.
type Method func(self any, inv *Invocation) (any, error)

// Class is the registered description of one shadow type.
type Class struct {
	name     string
	newFn    func() any
	setReal  func(self any, real platform.Object)
	methods  map[sig.Key]Method
	keys     []sig.Key
	fallback Method
}

// Name returns the shadow type name.
func (c *Class) Name() string {
	return c.name
}

func (c *Class) String() string {
	return c.name
}

// New constructs a shadow instance and stores its back-reference to real.
func (c *Class) New(real platform.Object) any {
	s := c.newFn()
	if c.setReal != nil {
		c.setReal(s, real)
	}
	return s
}

// Lookup returns the method registered under exactly key.
func (c *Class) Lookup(key sig.Key) (Method, bool) {
	m, ok := c.methods[key]
	return m, ok
}

// Default returns the explicitly registered default, if any.
func (c *Class) Default() (Method, bool) {
	return c.fallback, c.fallback != nil
}

// Keys returns the registered keys in registration order.
func (c *Class) Keys() []sig.Key {
	out := make([]sig.Key, len(c.keys))
	copy(out, c.keys)
	return out
}

// Builder assembles a Class for shadow type T.
//
// Authoring mistakes (duplicate keys, nil bodies) are collected and
// reported together by Build.
type Builder[T any] struct {
	class *Class
	errs  *multierror.Error
}

// Define starts a class named name whose instances come from newFn.
func Define[T any](name string, newFn func() T) *Builder[T] {
	b := &Builder[T]{
		class: &Class{
			name:    name,
			methods: make(map[sig.Key]Method),
		},
	}
	if name == "" {
		b.fail(errors.New("shadow class name is required"))
	}
	if newFn == nil {
		b.fail(fmt.Errorf("%s: constructor function is required", name))
	} else {
		b.class.newFn = func() any { return newFn() }
	}
	return b
}

// RealObject tags where the linked real object is stored on a new shadow.
func (b *Builder[T]) RealObject(fn func(self T, real platform.Object)) *Builder[T] {
	if b.class.setReal != nil {
		b.fail(fmt.Errorf("%s: real object tag declared twice", b.class.name))
		return b
	}
	b.class.setReal = func(self any, real platform.Object) {
		fn(self.(T), real)
	}
	return b
}

// Implement registers fn as the handler for key.
func (b *Builder[T]) Implement(key sig.Key, fn func(self T, inv *Invocation) (any, error)) *Builder[T] {
	switch {
	case key.Name == "":
		b.fail(fmt.Errorf("%s: method name is required", b.class.name))
		return b
	case fn == nil:
		b.fail(fmt.Errorf("%s: %s has no body", b.class.name, key))
		return b
	}
	if _, exists := b.class.methods[key]; exists {
		b.fail(fmt.Errorf("%s: %s registered twice", b.class.name, key))
		return b
	}
	b.class.methods[key] = func(self any, inv *Invocation) (any, error) {
		return fn(self.(T), inv)
	}
	b.class.keys = append(b.class.keys, key)
	return b
}

// Constructor registers fn as the constructor taking params.
func (b *Builder[T]) Constructor(fn func(self T, inv *Invocation) error, params ...sig.Kind) *Builder[T] {
	if fn == nil {
		return b.Implement(sig.NewConstructor(params...), nil)
	}
	return b.Implement(sig.NewConstructor(params...), func(self T, inv *Invocation) (any, error) {
		return nil, fn(self, inv)
	})
}

// Default registers the handler used when no key matches and the real object
// has no original behavior for the operation.
func (b *Builder[T]) Default(fn func(self T, inv *Invocation) (any, error)) *Builder[T] {
	if b.class.fallback != nil {
		b.fail(fmt.Errorf("%s: default declared twice", b.class.name))
		return b
	}
	if fn == nil {
		b.fail(fmt.Errorf("%s: default has no body", b.class.name))
		return b
	}
	b.class.fallback = func(self any, inv *Invocation) (any, error) {
		return fn(self.(T), inv)
	}
	return b
}

// Build returns the class, or every authoring error found.
func (b *Builder[T]) Build() (*Class, error) {
	if err := b.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return b.class, nil
}

// MustBuild is Build for package-level catalogs; it panics on error.
func (b *Builder[T]) MustBuild() *Class {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

func (b *Builder[T]) fail(err error) {
	b.errs = multierror.Append(b.errs, err)
}
