package platform

import "github.com/pkg/errors"

// PeRoundRobin hands out processing elements in declaration order, wrapping
// around. One cursor is shared by a whole conversion.
type PeRoundRobin struct {
	names []string
	next  int
}

func NewPeRoundRobin(names []string) (*PeRoundRobin, error) {
	if len(names) == 0 {
		return nil, ErrNoProcessingElements
	}
	for i, name := range names {
		if name == "" {
			return nil, errors.Wrapf(ErrUnnamedPe, "processing_elements[%d]", i)
		}
	}
	copied := make([]string, len(names))
	copy(copied, names)
	return &PeRoundRobin{names: copied}, nil
}

// Next returns the processing element for the next operation.
func (rr *PeRoundRobin) Next() string {
	name := rr.names[rr.next]
	rr.next = (rr.next + 1) % len(rr.names)
	return name
}

// Len returns the number of processing elements in the rotation.
func (rr *PeRoundRobin) Len() int {
	return len(rr.names)
}
