// Package ir defines the constrained value model used to persist and
// snapshot dispatch traces.
//
// Call arguments are arbitrary Go values; before they are stored or hashed
// they are lowered to IRValue (FromArg), which admits only strings,
// integers, booleans, arrays and objects. Floats and nulls never reach the
// canonical form, so the same trace always serializes to the same bytes.
//
// MarshalCanonical emits RFC 8785 style JSON: object keys sorted by UTF-16
// code units, NFC-normalized strings, no HTML escaping, no insignificant
// whitespace. Content-addressed IDs (CallID) hash that form with a domain
// prefix.
package ir
