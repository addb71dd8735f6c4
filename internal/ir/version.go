package ir

// Version constants for the IR document and the tool.
const (
	// IRVersion is the spec document schema version.
	IRVersion = "1"

	// ToolVersion is the msgidl version.
	ToolVersion = "0.1.0"
)
