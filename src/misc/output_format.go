package misc

// OutputFormat selects how the timetable document is serialized.
type OutputFormat string

const (
	// OutputFormatYaml is the mapping-of-sequences YAML document read by the simulator.
	OutputFormatYaml OutputFormat = "yaml"
	// OutputFormatJson emits the same document as indented JSON.
	OutputFormatJson OutputFormat = "json"
)

// DefaultOutputFormat is YAML, the document the simulator loads.
func DefaultOutputFormat() OutputFormat {
	return OutputFormatYaml
}

// OutputFormatFromString maps an --output.format value to its OutputFormat.
// "yml" is accepted for YAML; anything else reports ok=false.
func OutputFormatFromString(value string) (OutputFormat, bool) {
	switch value {
	case string(OutputFormatYaml), "yml":
		return OutputFormatYaml, true
	case string(OutputFormatJson):
		return OutputFormatJson, true
	default:
		return "", false
	}
}
