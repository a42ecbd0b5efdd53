// Package timetable lowers a graph into the device-level schedule consumed
// by the accelerator simulator: load, compute and store records bound to
// processing elements, connected by data edges.
package timetable

type NodeKind string

const (
	NodeKindMemory  NodeKind = "memory"
	NodeKindCompute NodeKind = "compute"
)

type Op string

const (
	OpLoad  Op = "load"
	OpStore Op = "store"
	OpAdd   Op = "add"
	OpMul   Op = "mul"
)

type EdgeKind string

const EdgeKindData EdgeKind = "data"

// NodeConfig is the kind-specific payload of a Node: MemoryConfig for
// memory nodes, ComputeConfig for compute nodes.
type NodeConfig interface {
	nodeKind() NodeKind
}

// MemoryConfig describes one contiguous transfer between device memory and
// a processing element's local memory.
type MemoryConfig struct {
	Addr     uint64 `yaml:"addr" json:"addr"`
	NumBytes uint64 `yaml:"num_bytes" json:"num_bytes"`
}

func (MemoryConfig) nodeKind() NodeKind { return NodeKindMemory }

type ComputeConfig struct {
	DType  string `yaml:"dtype" json:"dtype"`
	NumOps uint64 `yaml:"num_ops" json:"num_ops"`
}

func (ComputeConfig) nodeKind() NodeKind { return NodeKindCompute }

// Node is one timetable record.
type Node struct {
	ID     string     `yaml:"id" json:"id"`
	Kind   NodeKind   `yaml:"kind" json:"kind"`
	Op     Op         `yaml:"op" json:"op"`
	PE     string     `yaml:"pe" json:"pe"`
	Config NodeConfig `yaml:"config" json:"config"`
}

type Edge struct {
	From string   `yaml:"from" json:"from"`
	To   string   `yaml:"to" json:"to"`
	Kind EdgeKind `yaml:"kind" json:"kind"`
}

// Timetable is the lowered schedule. Nodes appear in graph node order, and
// within one graph node as loads, compute, stores.
type Timetable struct {
	Nodes []Node `yaml:"nodes" json:"nodes"`
	Edges []Edge `yaml:"edges" json:"edges"`
}

func newMemoryNode(id string, op Op, pe string, addr, numBytes uint64) Node {
	return Node{ID: id, Kind: NodeKindMemory, Op: op, PE: pe, Config: MemoryConfig{Addr: addr, NumBytes: numBytes}}
}

func newComputeNode(id string, op Op, pe string, dtype string, numOps uint64) Node {
	return Node{ID: id, Kind: NodeKindCompute, Op: op, PE: pe, Config: ComputeConfig{DType: dtype, NumOps: numOps}}
}

func dataEdge(from, to string) Edge {
	return Edge{From: from, To: to, Kind: EdgeKindData}
}

// Find returns the node with the given id.
func (tt *Timetable) Find(id string) (Node, bool) {
	for _, n := range tt.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
