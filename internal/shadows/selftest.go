package shadows

import (
	"fmt"
	"sort"

	"github.com/roach88/shade/internal/registry"
	"github.com/roach88/shade/internal/session"
)

// SelfTest is a body the CLI runs across versions to check the catalog.
type SelfTest struct {
	Name string
	Body func(s *session.Session) error
}

// SelfTests returns the built-in self-tests in name order.
func SelfTests() []SelfTest {
	tests := []SelfTest{
		{Name: "network_net_id", Body: networkNetID},
		{Name: "content_provider_result_constructors", Body: contentProviderResultConstructors},
		{Name: "uri_scheme", Body: uriScheme},
	}
	sort.Slice(tests, func(i, j int) bool { return tests[i].Name < tests[j].Name })
	return tests
}

// networkNetID checks that a network keeps the id it was created with.
// ShadowNetwork is only bound from 21, so earlier versions must report the
// type as unbound rather than pass.
func networkNetID(s *session.Session) error {
	const netID = 123
	network, err := NewNetworkInstance(netID)
	if s.Version() < 21 {
		if registry.IsUnbound(err) {
			return nil
		}
		return fmt.Errorf("want unbound network below 21, got %v", err)
	}
	if err != nil {
		return err
	}

	sh, err := session.ExtractAs[*ShadowNetwork](network)
	if err != nil {
		return err
	}
	got, err := sh.NetID()
	if err != nil {
		return err
	}
	if got != netID {
		return fmt.Errorf("NetID() = %d, want %d", got, netID)
	}

	dispatched, err := s.Invoke(network, "getNetId")
	if err != nil {
		return err
	}
	if dispatched != netID {
		return fmt.Errorf("getNetId() = %v, want %d", dispatched, netID)
	}
	return nil
}

func contentProviderResultConstructors(s *session.Session) error {
	uri := ParseUri("content://contacts/people/1")
	byURI := NewContentProviderResult()
	if _, err := s.Construct(byURI, uri); err != nil {
		return err
	}
	if byURI.URI() != uri {
		return fmt.Errorf("uri = %v, want %v", byURI.URI(), uri)
	}

	byCount := NewContentProviderResult()
	if _, err := s.Construct(byCount, 4); err != nil {
		return err
	}
	if byCount.Count() != 4 {
		return fmt.Errorf("count = %d, want 4", byCount.Count())
	}
	return nil
}

func uriScheme(s *session.Session) error {
	uri := ParseUri("content://contacts/people/1")
	if _, err := s.Bind(uri); err != nil {
		return err
	}
	scheme, err := s.Invoke(uri, "getScheme")
	if err != nil {
		return err
	}
	if scheme != "content" {
		return fmt.Errorf("getScheme() = %v, want content", scheme)
	}
	text, err := s.Invoke(uri, "toString")
	if err != nil {
		return err
	}
	if text != uri.String() {
		return fmt.Errorf("toString() = %v, want %s", text, uri.String())
	}
	return nil
}
