package timetable

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"gwrTimetable/src/misc"
)

// Encode writes tt to w. YAML uses a two-space indent; JSON is indented the
// same way. Output depends only on tt.
func Encode(w io.Writer, tt *Timetable, format misc.OutputFormat) error {
	switch format {
	case misc.OutputFormatYaml:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tt); err != nil {
			return errors.Wrap(err, "encode timetable as yaml")
		}
		return errors.Wrap(enc.Close(), "encode timetable as yaml")
	case misc.OutputFormatJson:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(tt), "encode timetable as json")
	default:
		return errors.Errorf("unsupported output format %q", format)
	}
}
