package shadows

import (
	"errors"
	"fmt"

	"github.com/roach88/shade/internal/bridge"
	"github.com/roach88/shade/internal/linker"
	"github.com/roach88/shade/internal/platform"
	"github.com/roach88/shade/internal/session"
	"github.com/roach88/shade/internal/shadow"
	"github.com/roach88/shade/internal/sig"
)

// ShadowNetwork stands in for android.net.Network from API 21 on.
type ShadowNetwork struct {
	real   *Network
	fields shadow.FieldAccess // bridge of the session that constructed real
}

// errNotConstructed reports a network whose constructor never ran.
var errNotConstructed = errors.New("network was not constructed")

// ShadowNetworkClass is the registered ShadowNetwork class.
var ShadowNetworkClass = shadow.Define("ShadowNetwork", func() *ShadowNetwork { return &ShadowNetwork{} }).
	RealObject(func(s *ShadowNetwork, r platform.Object) { s.real = r.(*Network) }).
	Constructor(func(s *ShadowNetwork, inv *shadow.Invocation) error {
		s.fields = inv.Fields
		return inv.Fields.WriteField(inv.Real, "netId", shadow.Arg[int](inv, 0))
	}, sig.KindInt).
	Implement(sig.New("getNetId"), func(s *ShadowNetwork, inv *shadow.Invocation) (any, error) {
		return inv.Fields.ReadField(inv.Real, "netId")
	}).
	MustBuild()

// NewNetwork creates a Network with netID in s. The real constructor is
// hidden on the platform, so tests obtain networks only through here.
func NewNetwork(s *session.Session, netID int) (*Network, error) {
	real, err := s.ConstructVia(linker.Factory{
		Allocate: func() platform.Object { return allocNetwork() },
		Init: func(link *linker.Link, args []any) error {
			return s.Dispatcher().Construct(link.Real, args...)
		},
	}, netID)
	if err != nil {
		return nil, err
	}
	return real.(*Network), nil
}

// NewNetworkInstance is NewNetwork in the active session.
func NewNetworkInstance(netID int) (*Network, error) {
	s, err := session.Active()
	if err != nil {
		return nil, err
	}
	return NewNetwork(s, netID)
}

// Real returns the linked network.
func (s *ShadowNetwork) Real() *Network {
	return s.real
}

// NetID reads the network's netId through the bridge of the session that
// constructed it, whether or not that session is still active.
func (s *ShadowNetwork) NetID() (int, error) {
	if s.fields == nil {
		return 0, fmt.Errorf("ShadowNetwork.NetID: %w", errNotConstructed)
	}
	id, err := bridge.ReadAs[int](s.fields, s.real, "netId")
	if err != nil {
		return 0, fmt.Errorf("ShadowNetwork.NetID: %w", err)
	}
	return id, nil
}
