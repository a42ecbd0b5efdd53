package misc

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// NewLogger creates the process logger. output selects where records go and
// is one of "stdout", "stderr" or "file"; "file" requires filename. format is
// "text" or "json" and level is the minimum level emitted.
func NewLogger(output, format, filename, level string) (*logrus.Logger, func(), error) {
	var w io.Writer
	var closer io.Closer
	switch strings.ToLower(output) {
	case "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	case "file":
		if filename == "" {
			return nil, nil, errors.New("unable to create log file with an empty name")
		}
		f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "unable to create log file %s", filename)
		}
		w = f
		closer = f
	default:
		return nil, nil, errors.Errorf("unsupported log output: %s", output)
	}

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, nil, errors.Errorf("unsupported log level: %s", level)
	}

	var formatter logrus.Formatter
	switch strings.ToLower(format) {
	case "json":
		formatter = &logrus.JSONFormatter{}
	case "text":
		formatter = &logrus.TextFormatter{DisableColors: true, FullTimestamp: true}
	default:
		return nil, nil, errors.Errorf("unsupported log format: %s", format)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(formatter)
	logger.SetLevel(lvl)

	cleanup := func() {
		if closer != nil {
			_ = closer.Close()
		}
	}
	return logger, cleanup, nil
}

// DiscardLogger returns a logger that drops every record. Library code uses it
// when the caller did not supply one.
func DiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
