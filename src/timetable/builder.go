package timetable

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"gwrTimetable/src/memory"
	"gwrTimetable/src/misc"
	"gwrTimetable/src/onnx"
	"gwrTimetable/src/platform"
	"gwrTimetable/src/tensor"
)

var (
	ErrUnnamedNode   = errors.New("graph node has no name")
	ErrUnknownTensor = errors.New("tensor has no resolved record")
	ErrUnplaced      = errors.New("tensor has no device address")
)

// Builder lowers graph nodes one at a time. It owns the processing element
// rotation, so one Builder serves exactly one conversion.
type Builder struct {
	tensors    *tensor.Table
	layout     *memory.Layout
	platform   *platform.PlatformConfig
	pes        *platform.PeRoundRobin
	categories *CategoryTable
	logger     logrus.FieldLogger

	timetable *Timetable
}

func NewBuilder(
	tensors *tensor.Table,
	layout *memory.Layout,
	platformConfig *platform.PlatformConfig,
	categories *CategoryTable,
	logger logrus.FieldLogger,
) (*Builder, error) {
	pes, err := platform.NewPeRoundRobin(platformConfig.PeNames())
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = DefaultCategoryTable()
	}
	if logger == nil {
		logger = misc.DiscardLogger()
	}

	return &Builder{
		tensors:    tensors,
		layout:     layout,
		platform:   platformConfig,
		pes:        pes,
		categories: categories,
		logger:     logger,
		timetable:  &Timetable{Nodes: make([]Node, 0), Edges: make([]Edge, 0)},
	}, nil
}

// Build lowers every node of graph in order and returns the timetable. On
// error nothing is returned.
func (b *Builder) Build(graph *onnx.Graph) (*Timetable, error) {
	for i := range graph.Nodes {
		if err := b.Lower(i, &graph.Nodes[i]); err != nil {
			return nil, err
		}
	}
	return b.Timetable(), nil
}

// Timetable returns what has been lowered so far.
func (b *Builder) Timetable() *Timetable {
	return b.timetable
}

// Lower appends the records and edges of one graph node. index is the
// node's position in the graph and only appears in errors.
func (b *Builder) Lower(index int, node *onnx.Node) error {
	if node.Name == "" {
		return errors.Wrapf(ErrUnnamedNode, "node at index %d", index)
	}

	pe := b.pes.Next()
	local := b.platform.LocalMemory(pe)

	var nodes []Node
	var loads []string
	for i, name := range node.Inputs {
		if name == "" {
			continue
		}
		chunks, err := b.transfer(fmt.Sprintf("%s_load_%d", node.Name, i), OpLoad, pe, name, local)
		if err != nil {
			return errors.Wrapf(err, "node %s input %d", node.Name, i)
		}
		nodes = append(nodes, chunks...)
		for _, c := range chunks {
			loads = append(loads, c.ID)
		}
	}

	compute, err := b.compute(node, pe)
	if err != nil {
		return errors.Wrapf(err, "node %s", node.Name)
	}
	nodes = append(nodes, compute)

	var stores []string
	for j, name := range node.Outputs {
		if name == "" {
			continue
		}
		chunks, err := b.transfer(fmt.Sprintf("%s_store_%d", node.Name, j), OpStore, pe, name, local)
		if err != nil {
			return errors.Wrapf(err, "node %s output %d", node.Name, j)
		}
		nodes = append(nodes, chunks...)
		for _, c := range chunks {
			stores = append(stores, c.ID)
		}
	}

	edges := make([]Edge, 0, len(loads)+len(stores))
	for _, id := range loads {
		edges = append(edges, dataEdge(id, compute.ID))
	}
	for _, id := range stores {
		edges = append(edges, dataEdge(compute.ID, id))
	}

	b.timetable.Nodes = append(b.timetable.Nodes, nodes...)
	b.timetable.Edges = append(b.timetable.Edges, edges...)

	b.logger.WithFields(logrus.Fields{
		"node":   node.Name,
		"op":     node.OpType,
		"pe":     pe,
		"loads":  len(loads),
		"stores": len(stores),
	}).Trace("lowered node")
	return nil
}

// transfer emits the memory records moving one tensor. A tensor larger than
// the local memory is split and each piece gets a _chunk_<k> suffix.
func (b *Builder) transfer(baseID string, op Op, pe string, name string, local *platform.LocalMemory) ([]Node, error) {
	record, ok := b.tensors.Lookup(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTensor, "tensor %s", name)
	}
	addr, ok := b.layout.Address(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnplaced, "tensor %s", name)
	}

	chunks := local.Chunks(record.SizeBytes)
	nodes := make([]Node, len(chunks))
	for k, c := range chunks {
		id := baseID
		if len(chunks) > 1 {
			id = fmt.Sprintf("%s_chunk_%d", baseID, k)
		}
		nodes[k] = newMemoryNode(id, op, pe, addr+c.Offset, c.NumBytes)
	}
	return nodes, nil
}

func (b *Builder) compute(node *onnx.Node, pe string) (Node, error) {
	numOps := uint64(1)
	dtype := tensor.DTypeName(tensor.DefaultDataType)
	for _, name := range node.Outputs {
		if name == "" {
			continue
		}
		record, ok := b.tensors.Lookup(name)
		if !ok {
			return Node{}, errors.Wrapf(ErrUnknownTensor, "output %s", name)
		}
		if n := record.NumElements(); n > numOps {
			numOps = n
		}
		dtype = record.DType()
	}

	id := node.Name + "_compute"
	return newComputeNode(id, b.categories.Lookup(node.OpType), pe, dtype, numOps), nil
}
