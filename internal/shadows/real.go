package shadows

import (
	"strconv"

	"github.com/roach88/shade/internal/platform"
)

// Real platform types covered by this catalog.
const (
	NetworkType               platform.Type = "android.net.Network"
	ContentProviderResultType platform.Type = "android.content.ContentProviderResult"
	UriType                   platform.Type = "android.net.Uri"
)

// Network is the real android.net.Network. Its netId is package-private on
// the platform, so only shadows reach it, through the field bridge.
type Network struct {
	*platform.Base
}

// DeclaredType implements platform.Declared.
func (*Network) DeclaredType() platform.Type { return NetworkType }

func allocNetwork() *Network {
	return &Network{platform.NewBase(NetworkType, "netId")}
}

// InvokeOriginal implements platform.Original for the operations the real
// class carries itself.
func (n *Network) InvokeOriginal(op string, args []any) (any, bool, error) {
	switch op {
	case "toString":
		id, _ := n.Get("netId").(int)
		return strconv.Itoa(id), true, nil
	}
	return nil, false, nil
}

// ContentProviderResult is the real android.content.ContentProviderResult.
// Its uri and count fields are public and final: readable by anyone, set
// only by a constructor.
type ContentProviderResult struct {
	*platform.Base
}

// DeclaredType implements platform.Declared.
func (*ContentProviderResult) DeclaredType() platform.Type { return ContentProviderResultType }

// NewContentProviderResult allocates an unconstructed result. Construct it
// through a session, as `new ContentProviderResult(uri)` would.
func NewContentProviderResult() *ContentProviderResult {
	return &ContentProviderResult{platform.NewBase(ContentProviderResultType, "uri", "count")}
}

// URI returns the uri field, or nil.
func (r *ContentProviderResult) URI() *Uri {
	u, _ := r.Get("uri").(*Uri)
	return u
}

// Count returns the count field.
func (r *ContentProviderResult) Count() int {
	n, _ := r.Get("count").(int)
	return n
}

// Uri is the real android.net.Uri, an immutable parsed reference.
type Uri struct {
	*platform.Base
}

// DeclaredType implements platform.Declared.
func (*Uri) DeclaredType() platform.Type { return UriType }

// ParseUri creates a Uri holding s.
func ParseUri(s string) *Uri {
	return &Uri{platform.NewBase(UriType, "uriString").With("uriString", s)}
}

// String returns the text the Uri was parsed from.
func (u *Uri) String() string {
	s, _ := u.Get("uriString").(string)
	return s
}

// InvokeOriginal implements platform.Original.
func (u *Uri) InvokeOriginal(op string, args []any) (any, bool, error) {
	switch op {
	case "toString":
		return u.String(), true, nil
	}
	return nil, false, nil
}
