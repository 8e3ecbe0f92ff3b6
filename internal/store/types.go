package store

import "github.com/roach88/shade/internal/ir"

// RunRecord is one stored version outcome.
type RunRecord struct {
	ID            string
	Label         string
	Version       int
	SessionID     string
	Pass          bool
	Error         string
	Digest        string
	Seq           int64
	EngineVersion string
	IRVersion     string
}

// CallRecord is one stored dispatch trace entry.
type CallRecord struct {
	ID        string
	RunID     string
	Seq       int64
	RealType  string
	Signature string
	Route     string
	Args      ir.IRArray
	Error     string
}
