// Package catalog compiles CUE binding manifests into registry bindings.
//
// A manifest declares which shadow class stands in for which real type over
// which API versions:
//
//	bindings: [
//		{real: "android.net.Network", shadow: "ShadowNetwork", min_version: 21},
//		{real: "android.content.ContentProviderResult", shadow: "ShadowContentProviderResult"},
//	]
//
// Shadow classes are Go values, so a manifest only names them; Install
// resolves the names against a class table supplied by the caller.
package catalog

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"
	"github.com/hashicorp/go-multierror"

	"github.com/roach88/shade/internal/platform"
	"github.com/roach88/shade/internal/registry"
	"github.com/roach88/shade/internal/session"
	"github.com/roach88/shade/internal/shadow"
)

//go:embed schema.cue
var schemaCUE string

// Entry is one compiled manifest binding.
type Entry struct {
	Real   platform.Type
	Shadow string
	Range  registry.VersionRange
	Pos    token.Pos
}

// Manifest is a compiled binding manifest.
type Manifest struct {
	Entries []Entry
}

// CompileManifest validates v against the manifest schema and compiles
// its bindings. Every malformed entry is reported.
func CompileManifest(v cue.Value) (*Manifest, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schema := v.Context().CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("manifest schema: %w", err)
	}
	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	list := v.LookupPath(cue.ParsePath("bindings"))
	if !list.Exists() {
		return nil, &CompileError{Field: "bindings", Message: "bindings list is required", Pos: v.Pos()}
	}
	iter, err := list.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	m := &Manifest{}
	var errs *multierror.Error
	for i := 0; iter.Next(); i++ {
		entry, err := compileEntry(i, iter.Value())
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		m.Entries = append(m.Entries, entry)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return m, nil
}

func compileEntry(i int, v cue.Value) (Entry, error) {
	field := fmt.Sprintf("bindings[%d]", i)
	e := Entry{Pos: v.Pos()}

	real, err := v.LookupPath(cue.ParsePath("real")).String()
	if err != nil {
		return Entry{}, formatCUEError(err)
	}
	e.Real = platform.Type(real)

	if e.Shadow, err = v.LookupPath(cue.ParsePath("shadow")).String(); err != nil {
		return Entry{}, formatCUEError(err)
	}

	lo, hi := 0, registry.Unbounded
	if mv := v.LookupPath(cue.ParsePath("min_version")); mv.Exists() && mv.IsConcrete() {
		n, err := mv.Int64()
		if err != nil {
			return Entry{}, formatCUEError(err)
		}
		lo = int(n)
	}
	if mv := v.LookupPath(cue.ParsePath("max_version")); mv.Exists() && mv.IsConcrete() {
		n, err := mv.Int64()
		if err != nil {
			return Entry{}, formatCUEError(err)
		}
		hi = int(n)
	}

	if e.Range, err = registry.NewRange(lo, hi); err != nil {
		return Entry{}, &CompileError{Field: field, Message: err.Error(), Pos: e.Pos}
	}
	return e, nil
}

// Bindings resolves shadow names against classes.
func (m *Manifest) Bindings(classes map[string]*shadow.Class) ([]registry.Binding, error) {
	var (
		out  []registry.Binding
		errs *multierror.Error
	)
	for _, e := range m.Entries {
		class, ok := classes[e.Shadow]
		if !ok {
			errs = multierror.Append(errs, &UnknownShadowError{Shadow: e.Shadow, Pos: e.Pos})
			continue
		}
		out = append(out, registry.Binding{RealType: e.Real, Shadow: class, Range: e.Range})
	}
	return out, errs.ErrorOrNil()
}

// Install registers every binding into reg. Unknown shadows and
// conflicting ranges are all reported together.
func (m *Manifest) Install(reg *registry.Registry, classes map[string]*shadow.Class) error {
	bindings, err := m.Bindings(classes)
	var errs *multierror.Error
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	for _, b := range bindings {
		if err := reg.Register(b); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// Catalog adapts the manifest to session.Catalog.
func (m *Manifest) Catalog(classes map[string]*shadow.Class) session.Catalog {
	return session.CatalogFunc(func(reg *registry.Registry, version int) error {
		return m.Install(reg, classes)
	})
}

// Classes indexes shadow classes by name.
func Classes(cs ...*shadow.Class) map[string]*shadow.Class {
	out := make(map[string]*shadow.Class, len(cs))
	for _, c := range cs {
		out[c.Name()] = c
	}
	return out
}
