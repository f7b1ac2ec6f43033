package pcode

// Version constants for the export format and tool.
const (
	// FormatVersion is the exported record schema version.
	FormatVersion = "1"

	// ToolVersion is the exporter version.
	ToolVersion = "0.1.0"
)
