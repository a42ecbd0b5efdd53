package tensor

import "gwrTimetable/src/onnx"

// DefaultDataType is assumed for tensors whose element type is never declared.
const DefaultDataType = onnx.DataTypeFloat

// ElementBytes returns the storage width of one element. Types without a
// known width are sized as 32-bit.
func ElementBytes(dt onnx.DataType) uint64 {
	switch dt {
	case onnx.DataTypeUint8, onnx.DataTypeInt8, onnx.DataTypeBool:
		return 1
	case onnx.DataTypeUint16, onnx.DataTypeInt16, onnx.DataTypeFloat16, onnx.DataTypeBfloat16:
		return 2
	case onnx.DataTypeFloat, onnx.DataTypeInt32, onnx.DataTypeUint32:
		return 4
	case onnx.DataTypeInt64, onnx.DataTypeDouble, onnx.DataTypeUint64, onnx.DataTypeComplex64:
		return 8
	case onnx.DataTypeComplex128:
		return 16
	default:
		return 4
	}
}

// DTypeName returns the dtype label used in compute records. Types with no
// label, including complex and string tensors, render as "fp32".
func DTypeName(dt onnx.DataType) string {
	switch dt {
	case onnx.DataTypeFloat:
		return "fp32"
	case onnx.DataTypeFloat16:
		return "fp16"
	case onnx.DataTypeBfloat16:
		return "bf16"
	case onnx.DataTypeDouble:
		return "fp64"
	case onnx.DataTypeInt8:
		return "int8"
	case onnx.DataTypeInt16:
		return "int16"
	case onnx.DataTypeInt32:
		return "int32"
	case onnx.DataTypeInt64:
		return "int64"
	case onnx.DataTypeUint8:
		return "uint8"
	case onnx.DataTypeUint16:
		return "uint16"
	case onnx.DataTypeUint32:
		return "uint32"
	case onnx.DataTypeUint64:
		return "uint64"
	case onnx.DataTypeBool:
		return "bool"
	default:
		return "fp32"
	}
}
