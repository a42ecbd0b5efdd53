package timetable

import (
	"github.com/pkg/errors"

	"gwrTimetable/src/platform"
)

var (
	ErrDuplicateNode = errors.New("duplicate timetable node id")
	ErrDanglingEdge  = errors.New("edge references an unknown node")
	ErrUnknownPe     = errors.New("node is bound to an undeclared processing element")
)

// Validate applies the checks the simulator performs when it loads a
// timetable: node ids are unique, every edge joins two known nodes and every
// node runs on a declared processing element. Convert only binds declared
// elements, so the last check guards timetables built or edited by other
// callers. A nil platformConfig skips it.
func (tt *Timetable) Validate(platformConfig *platform.PlatformConfig) error {
	ids := make(map[string]bool, len(tt.Nodes))
	for _, n := range tt.Nodes {
		if ids[n.ID] {
			return errors.Wrapf(ErrDuplicateNode, "node %s", n.ID)
		}
		ids[n.ID] = true

		if platformConfig != nil && !platformConfig.HasPe(n.PE) {
			return errors.Wrapf(ErrUnknownPe, "node %s on %s", n.ID, n.PE)
		}
	}

	for i, e := range tt.Edges {
		if !ids[e.From] {
			return errors.Wrapf(ErrDanglingEdge, "edge %d from %s", i, e.From)
		}
		if !ids[e.To] {
			return errors.Wrapf(ErrDanglingEdge, "edge %d to %s", i, e.To)
		}
	}
	return nil
}
