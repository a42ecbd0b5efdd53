package timetable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCategoryTable(t *testing.T) {
	table := DefaultCategoryTable()
	for _, opType := range []string{"Add", "Sub", "Mul", "Div"} {
		require.Equal(t, OpAdd, table.Lookup(opType), opType)
	}
	for _, opType := range defaultStructural {
		require.Equal(t, OpMul, table.Lookup(opType), opType)
	}
	for _, opType := range []string{"", "Identity", "LayerNormalization", "matmul"} {
		require.Equal(t, OpAdd, table.Lookup(opType), opType)
	}
	require.Len(t, defaultStructural, 24)
}

func TestNewCategoryTableCopiesEntries(t *testing.T) {
	entries := map[string]Op{"Relu": OpAdd}
	table := NewCategoryTable(entries, OpMul)
	entries["Relu"] = OpMul

	require.Equal(t, OpAdd, table.Lookup("Relu"))
	require.Equal(t, OpMul, table.Lookup("Add"))
}

func TestValidate(t *testing.T) {
	config := platformWith(0, "pe0")
	good := &Timetable{
		Nodes: []Node{
			newMemoryNode("a_load_0", OpLoad, "pe0", 0, 4),
			newComputeNode("a_compute", OpAdd, "pe0", "fp32", 1),
		},
		Edges: []Edge{dataEdge("a_load_0", "a_compute")},
	}
	require.NoError(t, good.Validate(config))

	dup := &Timetable{Nodes: []Node{good.Nodes[0], good.Nodes[0]}}
	require.ErrorIs(t, dup.Validate(config), ErrDuplicateNode)

	dangling := &Timetable{Nodes: good.Nodes, Edges: []Edge{dataEdge("a_compute", "a_store_0")}}
	require.ErrorIs(t, dangling.Validate(config), ErrDanglingEdge)

	stranger := &Timetable{Nodes: []Node{newComputeNode("b_compute", OpMul, "pe7", "fp32", 1)}}
	require.ErrorIs(t, stranger.Validate(config), ErrUnknownPe)
	require.NoError(t, stranger.Validate(nil))
}
