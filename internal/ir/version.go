package ir

// Version constants recorded alongside stored runs.
const (
	// IRVersion is the trace value model version.
	IRVersion = "1"

	// EngineVersion is the shade engine version.
	EngineVersion = "0.1.0"
)
