// Package platform reads the platform description produced by the topology
// generator and exposes the parts the timetable lowering consumes: memory
// ranges, processing elements and their local SRAM capacity.
package platform

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"gwrTimetable/src/misc"
)

const (
	// DefaultDevice names the memory device of a range that omits one.
	DefaultDevice = "hbm0"
	// DefaultSramBytes is the local memory capacity of a processing element
	// whose configuration carries no sram_bytes.
	DefaultSramBytes uint64 = 1 << 20
)

// PlatformConfig is the platform description. Sections the lowering does
// not read (caches, fabrics, memories, connections) are accepted and
// dropped.
type PlatformConfig struct {
	MemoryMaps         []MemoryMap         `yaml:"memory_maps" json:"memory_maps"`
	ProcessingElements []ProcessingElement `yaml:"processing_elements" json:"processing_elements"`
}

type MemoryMap struct {
	Ranges []MemoryRange `yaml:"ranges" json:"ranges"`
}

// MemoryRange is one address window of a memory device.
type MemoryRange struct {
	Device      string       `yaml:"device" json:"device"`
	BaseAddress ByteLiteral  `yaml:"base_address" json:"base_address"`
	SizeBytes   *ByteLiteral `yaml:"size_bytes,omitempty" json:"size_bytes,omitempty"`
}

type ProcessingElement struct {
	Name   string    `yaml:"name" json:"name"`
	Config *PEConfig `yaml:"config,omitempty" json:"config,omitempty"`
}

type PEConfig struct {
	SramBytes *ByteLiteral `yaml:"sram_bytes,omitempty" json:"sram_bytes,omitempty"`
}

// ByteLiteral is an address or size written either as a YAML integer or as
// a string understood by misc.ParseByteLiteral.
type ByteLiteral uint64

func (b *ByteLiteral) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: expected a byte literal, got a non-scalar value", value.Line)
	}
	n, err := misc.ParseByteLiteral(value.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", value.Line)
	}
	*b = ByteLiteral(n)
	return nil
}

// Bytes returns the literal as a byte count or address.
func (b ByteLiteral) Bytes() uint64 {
	return uint64(b)
}

// Ranges returns the ranges of the first memory map. Later maps are ignored.
func (c *PlatformConfig) Ranges() []MemoryRange {
	if len(c.MemoryMaps) == 0 {
		return nil
	}
	return c.MemoryMaps[0].Ranges
}

// PeNames lists processing element names in declaration order. A name
// declared more than once appears once per declaration.
func (c *PlatformConfig) PeNames() []string {
	names := make([]string, len(c.ProcessingElements))
	for i, pe := range c.ProcessingElements {
		names[i] = pe.Name
	}
	return names
}

// HasPe reports whether a processing element called name is declared.
func (c *PlatformConfig) HasPe(name string) bool {
	for _, pe := range c.ProcessingElements {
		if pe.Name == name {
			return true
		}
	}
	return false
}

// SramBytes returns the local memory capacity of the named processing
// element: the first declaration of that name which carries sram_bytes, or
// DefaultSramBytes.
func (c *PlatformConfig) SramBytes(name string) uint64 {
	for _, pe := range c.ProcessingElements {
		if pe.Name != name || pe.Config == nil || pe.Config.SramBytes == nil {
			continue
		}
		return pe.Config.SramBytes.Bytes()
	}
	return DefaultSramBytes
}

// LocalMemory returns the local memory of the named processing element.
func (c *PlatformConfig) LocalMemory(name string) *LocalMemory {
	return NewLocalMemory(name, c.SramBytes(name))
}
