package platform

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoMemoryMaps         = errors.New("platform has no memory maps")
	ErrNoMemoryRanges       = errors.New("first memory map has no ranges")
	ErrNoProcessingElements = errors.New("platform has no processing elements")
	ErrUnnamedPe            = errors.New("processing element has no name")
	ErrZeroSram             = errors.New("processing element declares zero sram_bytes")
)

// Load reads and validates a platform description from a YAML file.
func Load(path string) (*PlatformConfig, error) {
	if path == "" {
		return nil, errors.New("empty platform path")
	}

	clean := filepath.Clean(path)
	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, errors.Wrap(err, "read platform")
	}

	config, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "platform %s", clean)
	}
	return config, nil
}

// Parse decodes and validates a platform description. Ranges without a
// device are assigned DefaultDevice.
func Parse(data []byte) (*PlatformConfig, error) {
	config := new(PlatformConfig)
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, errors.Wrap(err, "parse platform")
		}
	}

	for m := range config.MemoryMaps {
		ranges := config.MemoryMaps[m].Ranges
		for r := range ranges {
			if ranges[r].Device == "" {
				ranges[r].Device = DefaultDevice
			}
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the structure the lowering depends on.
func (c *PlatformConfig) Validate() error {
	if len(c.MemoryMaps) == 0 {
		return ErrNoMemoryMaps
	}
	if len(c.MemoryMaps[0].Ranges) == 0 {
		return ErrNoMemoryRanges
	}
	if len(c.ProcessingElements) == 0 {
		return ErrNoProcessingElements
	}
	for i, pe := range c.ProcessingElements {
		if pe.Name == "" {
			return errors.Wrapf(ErrUnnamedPe, "processing_elements[%d]", i)
		}
		if pe.Config != nil && pe.Config.SramBytes != nil && *pe.Config.SramBytes == 0 {
			return errors.Wrapf(ErrZeroSram, "processing element %s", pe.Name)
		}
	}
	return nil
}
