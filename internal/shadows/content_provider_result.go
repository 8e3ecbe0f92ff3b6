package shadows

import (
	"github.com/roach88/shade/internal/platform"
	"github.com/roach88/shade/internal/shadow"
	"github.com/roach88/shade/internal/sig"
)

// ShadowContentProviderResult supplies the constructors of
// ContentProviderResult, whose final public fields cannot be set from
// outside a constructor.
type ShadowContentProviderResult struct {
	real *ContentProviderResult
}

// ShadowContentProviderResultClass is the registered class. Operations it
// does not list fall through to a default returning nil, the platform's
// stub value.
var ShadowContentProviderResultClass = shadow.Define("ShadowContentProviderResult", func() *ShadowContentProviderResult {
	return &ShadowContentProviderResult{}
}).
	RealObject(func(s *ShadowContentProviderResult, r platform.Object) { s.real = r.(*ContentProviderResult) }).
	Constructor(func(s *ShadowContentProviderResult, inv *shadow.Invocation) error {
		return inv.Fields.WriteField(inv.Real, "uri", shadow.Arg[*Uri](inv, 0))
	}, sig.TypeKind(UriType)).
	Constructor(func(s *ShadowContentProviderResult, inv *shadow.Invocation) error {
		return inv.Fields.WriteField(inv.Real, "count", shadow.Arg[int](inv, 0))
	}, sig.KindInt).
	Default(func(s *ShadowContentProviderResult, inv *shadow.Invocation) (any, error) {
		return nil, nil
	}).
	MustBuild()

// Real returns the linked result.
func (s *ShadowContentProviderResult) Real() *ContentProviderResult {
	return s.real
}
