package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix leaves
// room for a future algorithm change.
const (
	DomainCall = "shade/call/v1"
	DomainRun  = "shade/run/v1"
)

// hashWithDomain returns hex(SHA256(domain || 0x00 || data)).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CallID computes the ID of a dispatched call within a session.
func CallID(sessionID string, seq int64, signature string, args IRArray) (string, error) {
	obj := IRObject{
		"session":   IRString(sessionID),
		"seq":       IRInt(seq),
		"signature": IRString(signature),
		"args":      args,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("CallID: %w", err)
	}
	return hashWithDomain(DomainCall, canonical), nil
}

// RunDigest summarizes a run's outcome and trace, so two runs of the same
// body at the same version can be compared without diffing every call.
func RunDigest(version int, pass bool, calls IRArray) (string, error) {
	obj := IRObject{
		"version": IRInt(version),
		"pass":    IRBool(pass),
		"calls":   calls,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RunDigest: %w", err)
	}
	return hashWithDomain(DomainRun, canonical), nil
}

// MustCallID is CallID for arguments already lowered by FromArgs, which
// never fail to encode. It panics on error.
func MustCallID(sessionID string, seq int64, signature string, args IRArray) string {
	id, err := CallID(sessionID, seq, signature, args)
	if err != nil {
		panic(err)
	}
	return id
}
