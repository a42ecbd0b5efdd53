// Package onnx decodes the parts of an ONNX ModelProto needed to lower a
// graph: the node list, declared value types and initializer metadata.
// Tensor payloads, attributes and sub-graphs are skipped on the wire.
package onnx

// DataType mirrors TensorProto.DataType.
type DataType int32

const (
	DataTypeUndefined  DataType = 0
	DataTypeFloat      DataType = 1
	DataTypeUint8      DataType = 2
	DataTypeInt8       DataType = 3
	DataTypeUint16     DataType = 4
	DataTypeInt16      DataType = 5
	DataTypeInt32      DataType = 6
	DataTypeInt64      DataType = 7
	DataTypeString     DataType = 8
	DataTypeBool       DataType = 9
	DataTypeFloat16    DataType = 10
	DataTypeDouble     DataType = 11
	DataTypeUint32     DataType = 12
	DataTypeUint64     DataType = 13
	DataTypeComplex64  DataType = 14
	DataTypeComplex128 DataType = 15
	DataTypeBfloat16   DataType = 16
)

// Model is a decoded ModelProto.
type Model struct {
	IRVersion       int64
	ProducerName    string
	ProducerVersion string
	Graph           *Graph
}

// Graph is a decoded GraphProto. Slices keep file order.
type Graph struct {
	Name         string
	Nodes        []Node
	Initializers []Tensor
	Inputs       []ValueInfo
	Outputs      []ValueInfo
	ValueInfo    []ValueInfo
}

// Node is one operation. An empty string in Inputs or Outputs marks an
// unused optional slot.
type Node struct {
	Name    string
	OpType  string
	Domain  string
	Inputs  []string
	Outputs []string
}

// Tensor carries the metadata of an initializer; the payload is not kept.
type Tensor struct {
	Name     string
	DataType DataType
	Dims     []int64
}

// ValueInfo declares the type of a named value. Type is nil when the
// exporter left it out.
type ValueInfo struct {
	Name string
	Type *TypeProto
}

// TypeProto keeps only the tensor variant; sequence, map and optional
// types decode with a nil Tensor.
type TypeProto struct {
	Tensor *TensorType
}

// TensorType is TypeProto.Tensor. HasElemType and a nil Shape record
// absence of the optional fields.
type TensorType struct {
	ElemType    DataType
	HasElemType bool
	Shape       *TensorShape
}

type TensorShape struct {
	Dims []Dimension
}

// Dimension is either a concrete value or a symbolic parameter. A dimension
// with neither set is unknown.
type Dimension struct {
	Value    int64
	HasValue bool
	Param    string
}
