package onnx

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers from onnx.proto.
const (
	modelIRVersion       protowire.Number = 1
	modelProducerName    protowire.Number = 2
	modelProducerVersion protowire.Number = 3
	modelGraph           protowire.Number = 7

	graphNode        protowire.Number = 1
	graphName        protowire.Number = 2
	graphInitializer protowire.Number = 5
	graphInput       protowire.Number = 11
	graphOutput      protowire.Number = 12
	graphValueInfo   protowire.Number = 13

	nodeInput  protowire.Number = 1
	nodeOutput protowire.Number = 2
	nodeName   protowire.Number = 3
	nodeOpType protowire.Number = 4
	nodeDomain protowire.Number = 7

	tensorDims     protowire.Number = 1
	tensorDataType protowire.Number = 2
	tensorName     protowire.Number = 8

	valueInfoName protowire.Number = 1
	valueInfoType protowire.Number = 2

	typeTensorType protowire.Number = 1

	tensorTypeElemType protowire.Number = 1
	tensorTypeShape    protowire.Number = 2

	shapeDim protowire.Number = 1

	dimValue protowire.Number = 1
	dimParam protowire.Number = 2
)

type field struct {
	num    protowire.Number
	typ    protowire.Type
	varint uint64
	bytes  []byte
}

// walk calls visit for every varint and length-delimited field in b.
// Fixed-width and group fields are skipped.
func walk(b []byte, visit func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return errors.Wrapf(protowire.ParseError(n), "field %d", num)
			}
			f.varint = v
			b = b[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return errors.Wrapf(protowire.ParseError(n), "field %d", num)
			}
			f.bytes = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return errors.Wrapf(protowire.ParseError(n), "field %d", num)
			}
			b = b[n:]
			continue
		}

		if err := visit(f); err != nil {
			return err
		}
	}
	return nil
}

// Decode parses a serialized ModelProto.
func Decode(data []byte) (*Model, error) {
	model := new(Model)
	err := walk(data, func(f field) error {
		switch {
		case f.num == modelIRVersion && f.typ == protowire.VarintType:
			model.IRVersion = int64(f.varint)
		case f.num == modelProducerName && f.typ == protowire.BytesType:
			model.ProducerName = string(f.bytes)
		case f.num == modelProducerVersion && f.typ == protowire.BytesType:
			model.ProducerVersion = string(f.bytes)
		case f.num == modelGraph && f.typ == protowire.BytesType:
			graph, err := decodeGraph(f.bytes)
			if err != nil {
				return errors.Wrap(err, "graph")
			}
			model.Graph = graph
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode model")
	}
	return model, nil
}

func decodeGraph(b []byte) (*Graph, error) {
	graph := new(Graph)
	err := walk(b, func(f field) error {
		if f.typ != protowire.BytesType {
			return nil
		}
		switch f.num {
		case graphNode:
			node, err := decodeNode(f.bytes)
			if err != nil {
				return errors.Wrapf(err, "node[%d]", len(graph.Nodes))
			}
			graph.Nodes = append(graph.Nodes, node)
		case graphName:
			graph.Name = string(f.bytes)
		case graphInitializer:
			tensor, err := decodeTensor(f.bytes)
			if err != nil {
				return errors.Wrapf(err, "initializer[%d]", len(graph.Initializers))
			}
			graph.Initializers = append(graph.Initializers, tensor)
		case graphInput:
			vi, err := decodeValueInfo(f.bytes)
			if err != nil {
				return errors.Wrapf(err, "input[%d]", len(graph.Inputs))
			}
			graph.Inputs = append(graph.Inputs, vi)
		case graphOutput:
			vi, err := decodeValueInfo(f.bytes)
			if err != nil {
				return errors.Wrapf(err, "output[%d]", len(graph.Outputs))
			}
			graph.Outputs = append(graph.Outputs, vi)
		case graphValueInfo:
			vi, err := decodeValueInfo(f.bytes)
			if err != nil {
				return errors.Wrapf(err, "value_info[%d]", len(graph.ValueInfo))
			}
			graph.ValueInfo = append(graph.ValueInfo, vi)
		}
		return nil
	})
	return graph, err
}

func decodeNode(b []byte) (Node, error) {
	var node Node
	err := walk(b, func(f field) error {
		if f.typ != protowire.BytesType {
			return nil
		}
		switch f.num {
		case nodeInput:
			node.Inputs = append(node.Inputs, string(f.bytes))
		case nodeOutput:
			node.Outputs = append(node.Outputs, string(f.bytes))
		case nodeName:
			node.Name = string(f.bytes)
		case nodeOpType:
			node.OpType = string(f.bytes)
		case nodeDomain:
			node.Domain = string(f.bytes)
		}
		return nil
	})
	return node, err
}

func decodeTensor(b []byte) (Tensor, error) {
	var tensor Tensor
	err := walk(b, func(f field) error {
		switch {
		case f.num == tensorDims && f.typ == protowire.VarintType:
			tensor.Dims = append(tensor.Dims, int64(f.varint))
		case f.num == tensorDims && f.typ == protowire.BytesType:
			dims, err := decodePackedInt64(f.bytes)
			if err != nil {
				return errors.Wrap(err, "dims")
			}
			tensor.Dims = append(tensor.Dims, dims...)
		case f.num == tensorDataType && f.typ == protowire.VarintType:
			tensor.DataType = DataType(int32(f.varint))
		case f.num == tensorName && f.typ == protowire.BytesType:
			tensor.Name = string(f.bytes)
		}
		return nil
	})
	return tensor, err
}

func decodePackedInt64(b []byte) ([]int64, error) {
	values := make([]int64, 0, len(b))
	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		values = append(values, int64(v))
		b = b[n:]
	}
	return values, nil
}

func decodeValueInfo(b []byte) (ValueInfo, error) {
	var vi ValueInfo
	err := walk(b, func(f field) error {
		if f.typ != protowire.BytesType {
			return nil
		}
		switch f.num {
		case valueInfoName:
			vi.Name = string(f.bytes)
		case valueInfoType:
			tp, err := decodeType(f.bytes)
			if err != nil {
				return errors.Wrapf(err, "type of %q", vi.Name)
			}
			vi.Type = tp
		}
		return nil
	})
	return vi, err
}

func decodeType(b []byte) (*TypeProto, error) {
	tp := new(TypeProto)
	err := walk(b, func(f field) error {
		if f.num != typeTensorType || f.typ != protowire.BytesType {
			return nil
		}
		tt, err := decodeTensorType(f.bytes)
		if err != nil {
			return errors.Wrap(err, "tensor_type")
		}
		tp.Tensor = tt
		return nil
	})
	return tp, err
}

func decodeTensorType(b []byte) (*TensorType, error) {
	tt := new(TensorType)
	err := walk(b, func(f field) error {
		switch {
		case f.num == tensorTypeElemType && f.typ == protowire.VarintType:
			tt.ElemType = DataType(int32(f.varint))
			tt.HasElemType = true
		case f.num == tensorTypeShape && f.typ == protowire.BytesType:
			shape, err := decodeShape(f.bytes)
			if err != nil {
				return errors.Wrap(err, "shape")
			}
			tt.Shape = shape
		}
		return nil
	})
	return tt, err
}

func decodeShape(b []byte) (*TensorShape, error) {
	shape := &TensorShape{Dims: make([]Dimension, 0)}
	err := walk(b, func(f field) error {
		if f.num != shapeDim || f.typ != protowire.BytesType {
			return nil
		}
		var dim Dimension
		err := walk(f.bytes, func(d field) error {
			switch {
			case d.num == dimValue && d.typ == protowire.VarintType:
				dim.Value = int64(d.varint)
				dim.HasValue = true
			case d.num == dimParam && d.typ == protowire.BytesType:
				dim.Param = string(d.bytes)
			}
			return nil
		})
		if err != nil {
			return errors.Wrapf(err, "dim[%d]", len(shape.Dims))
		}
		shape.Dims = append(shape.Dims, dim)
		return nil
	})
	return shape, err
}
