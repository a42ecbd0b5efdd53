package onnx

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ErrNoGraph is returned for a model file that carries no graph.
var ErrNoGraph = errors.New("model contains no graph")

// Load reads and decodes an .onnx file.
func Load(path string) (*Model, error) {
	if path == "" {
		return nil, errors.New("empty onnx model path")
	}

	clean := filepath.Clean(path)
	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, errors.Wrap(err, "read onnx model")
	}

	model, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse onnx model %s", clean)
	}
	if model.Graph == nil {
		return nil, errors.Wrapf(ErrNoGraph, "onnx model %s", clean)
	}
	return model, nil
}
