package shadows

import (
	"fmt"
	"net/url"

	"github.com/roach88/shade/internal/platform"
	"github.com/roach88/shade/internal/shadow"
	"github.com/roach88/shade/internal/sig"
)

// ShadowUri parses the scheme on demand; toString stays with the real Uri.
type ShadowUri struct {
	real *Uri
}

// ShadowUriClass is the registered ShadowUri class.
var ShadowUriClass = shadow.Define("ShadowUri", func() *ShadowUri { return &ShadowUri{} }).
	RealObject(func(s *ShadowUri, r platform.Object) { s.real = r.(*Uri) }).
	Implement(sig.New("getScheme"), func(s *ShadowUri, inv *shadow.Invocation) (any, error) {
		raw, err := inv.Fields.ReadField(inv.Real, "uriString")
		if err != nil {
			return nil, err
		}
		text, _ := raw.(string)
		u, err := url.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("getScheme: %w", err)
		}
		return u.Scheme, nil
	}).
	MustBuild()
