package misc

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// CommandLineOptions holds the parsed command line of the converter.
type CommandLineOptions struct {
	OnnxPath       string
	PlatformPath   string
	OutputPath     string
	OutputFormat   string
	RootDirpath    string
	ResolveWorkers int

	LogLevel  string
	LogFormat string
	LogOutput string
	LogFile   string
}

type CommandLineValidator struct {
	options *CommandLineOptions
}

func (this *CommandLineValidator) Init(options *CommandLineOptions) {
	this.options = options
}

// Validate checks cross-flag constraints that the flag parser cannot express.
// The first violation is returned.
func (this *CommandLineValidator) Validate() error {
	if this.options == nil {
		return errors.New("no command line options to validate")
	}

	if strings.TrimSpace(this.options.OnnxPath) == "" {
		return errors.New("onnx model path is empty")
	}

	if strings.TrimSpace(this.options.PlatformPath) == "" {
		return errors.New("platform path is empty")
	}

	if this.options.ResolveWorkers <= 0 {
		return errors.New("resolve.workers <= 0")
	}

	if _, ok := OutputFormatFromString(this.options.OutputFormat); !ok {
		return errors.Errorf("output.format %s is not supported", this.options.OutputFormat)
	}

	if this.options.OutputPath != "" && !IsValidFilePath(this.options.OutputPath) {
		return errors.Errorf("invalid --output path: %q", this.options.OutputPath)
	}

	if strings.EqualFold(this.options.LogOutput, "file") && !IsValidFilePath(this.options.LogFile) {
		return errors.Errorf("invalid --log.file path: %q", this.options.LogFile)
	}

	if root := strings.TrimSpace(this.options.RootDirpath); root != "" {
		info, err := os.Stat(root)
		if os.IsNotExist(err) {
			return errors.Errorf("root-dir %s does not exist", root)
		}
		if err == nil && !info.IsDir() {
			return errors.Errorf("root-dir %s is not a directory", root)
		}
	}

	return nil
}

// IsValidFilePath accepts absolute and relative paths and rejects empty paths
// or paths ending in a separator.
func IsValidFilePath(p string) bool {
	if strings.TrimSpace(p) == "" {
		return false
	}
	if strings.HasSuffix(p, string(os.PathSeparator)) {
		return false
	}
	base := filepath.Base(p)
	if base == "." || base == string(os.PathSeparator) {
		return false
	}
	return true
}
