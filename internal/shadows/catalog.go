// Package shadows is the built-in shadow catalog: Network, ContentProviderResult
// and Uri, with the real types they stand in for.
//
// Bindings live in the embedded catalog.cue manifest. The classes are Go
// values and are matched to the manifest by name.
package shadows

import (
	_ "embed"
	"sync"

	"github.com/roach88/shade/internal/catalog"
	"github.com/roach88/shade/internal/registry"
	"github.com/roach88/shade/internal/session"
	"github.com/roach88/shade/internal/shadow"
)

//go:embed catalog.cue
var manifestCUE string

// Classes returns the built-in shadow classes by name.
func Classes() map[string]*shadow.Class {
	return catalog.Classes(
		ShadowNetworkClass,
		ShadowContentProviderResultClass,
		ShadowUriClass,
	)
}

var manifest = sync.OnceValues(func() (*catalog.Manifest, error) {
	return catalog.CompileSource("catalog.cue", manifestCUE)
})

// Manifest returns the compiled built-in manifest.
func Manifest() (*catalog.Manifest, error) {
	return manifest()
}

// Catalog returns the built-in catalog. If manifests is non-nil its
// bindings are installed instead of the embedded ones.
func Catalog(manifests *catalog.Manifest) session.Catalog {
	classes := Classes()
	return session.CatalogFunc(func(reg *registry.Registry, version int) error {
		m := manifests
		if m == nil {
			var err error
			if m, err = Manifest(); err != nil {
				return err
			}
		}
		return m.Install(reg, classes)
	})
}
