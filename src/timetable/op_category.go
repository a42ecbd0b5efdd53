package timetable

// CategoryTable maps graph operation types to compute ops. Types missing
// from the table lower to its fallback.
type CategoryTable struct {
	ops      map[string]Op
	fallback Op
}

var defaultArithmetic = []string{"Add", "Sub", "Mul", "Div"}

var defaultStructural = []string{
	"MatMul",
	"Conv",
	"Relu",
	"Sigmoid",
	"Tanh",
	"BatchNormalization",
	"MaxPool",
	"AveragePool",
	"Flatten",
	"Reshape",
	"Transpose",
	"Concat",
	"Softmax",
	"Gemm",
	"Cast",
	"Constant",
	"Gather",
	"GroupQueryAttention",
	"MatMulNBits",
	"QMoE",
	"ReduceSum",
	"Shape",
	"SimplifiedLayerNormalization",
	"SkipSimplifiedLayerNormalization",
}

// DefaultCategoryTable returns the built-in table. Element-wise arithmetic
// lowers to add, the listed structural and matrix kinds to mul, anything
// else to add.
func DefaultCategoryTable() *CategoryTable {
	ops := make(map[string]Op, len(defaultArithmetic)+len(defaultStructural))
	for _, t := range defaultArithmetic {
		ops[t] = OpAdd
	}
	for _, t := range defaultStructural {
		ops[t] = OpMul
	}
	return &CategoryTable{ops: ops, fallback: OpAdd}
}

// NewCategoryTable builds a table from explicit entries. The map is copied.
func NewCategoryTable(ops map[string]Op, fallback Op) *CategoryTable {
	copied := make(map[string]Op, len(ops))
	for k, v := range ops {
		copied[k] = v
	}
	return &CategoryTable{ops: copied, fallback: fallback}
}

// Lookup returns the compute op for opType. Matching is case-sensitive.
func (c *CategoryTable) Lookup(opType string) Op {
	if op, ok := c.ops[opType]; ok {
		return op
	}
	return c.fallback
}
