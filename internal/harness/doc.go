// Package harness runs one test body once per API version.
//
// Each iteration gets a fresh session: a registry installed from the catalog
// for that version, a new linker, dispatcher and bridge. The session is
// activated as the process-wide session for the body and closed afterwards,
// so no link, registration or constructed-object state leaks from one
// version into the next.
//
// Iterations are strictly sequential. A failing or panicking version is
// recorded and the run moves on; Report.Err aggregates every failure.
//
// # Run configuration
//
// The version sequence comes from YAML:
//
//	name: network
//	min_version: 21        # or: versions: [21, 23, 28]
//	supported: [21, 22, 23] # optional, defaults to DefaultSupported
//	manifests: ./manifests  # optional CUE binding manifests
//
// # Usage
//
//	h := harness.New(catalog, harness.WithLabel("network"))
//	report := h.RunAcrossVersions([]int{21, 22}, func(s *session.Session) error {
//	    ...
//	})
//	if err := report.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// In tests, RunT runs each version as an "api-N" subtest.
package harness
