package memory

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"gwrTimetable/src/onnx"
	"gwrTimetable/src/platform"
	"gwrTimetable/src/tensor"
)

func tableOf(t *testing.T, sizes ...int64) *tensor.Table {
	t.Helper()
	graph := &onnx.Graph{}
	for i, n := range sizes {
		// int8 tensors, so dims equal byte sizes
		graph.Initializers = append(graph.Initializers, onnx.Tensor{
			Name:     fmt.Sprintf("t%d", i),
			DataType: onnx.DataTypeInt8,
			Dims:     []int64{n},
		})
	}
	table, err := (&tensor.Resolver{Workers: 1}).Resolve(context.Background(), graph)
	require.NoError(t, err)
	return table
}

func rangeAt(device string, base uint64) platform.MemoryRange {
	return platform.MemoryRange{Device: device, BaseAddress: platform.ByteLiteral(base)}
}

func TestAllocatorRequiresDevices(t *testing.T) {
	_, err := NewDeviceAllocator(nil, nil)
	require.ErrorIs(t, err, ErrNoDevices)
}

func TestAllocatorDistinctDevicesInFirstAppearanceOrder(t *testing.T) {
	alloc, err := NewDeviceAllocator([]platform.MemoryRange{
		rangeAt("hbm1", 0x2000),
		rangeAt("hbm0", 0x1000),
		rangeAt("hbm1", 0x9000),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"hbm1", "hbm0"}, alloc.Devices())

	dev, addr := alloc.Allocate(10)
	require.Equal(t, "hbm1", dev)
	require.Equal(t, uint64(0x2000), addr)
	dev, addr = alloc.Allocate(100)
	require.Equal(t, "hbm0", dev)
	require.Equal(t, uint64(0x1000), addr)
	dev, addr = alloc.Allocate(1)
	require.Equal(t, "hbm1", dev)
	require.Equal(t, uint64(0x2040), addr)
	_, addr = alloc.Allocate(1)
	require.Equal(t, uint64(0x1080), addr)
}

func TestLayoutSingleDevice(t *testing.T) {
	alloc, err := NewDeviceAllocator([]platform.MemoryRange{rangeAt("hbm0", 0x1000)}, nil)
	require.NoError(t, err)

	layout := alloc.Layout(tableOf(t, 16, 200, 16, 64, 65))

	var order []string
	for _, p := range layout.Placements() {
		order = append(order, p.Tensor)
	}
	// descending size, ties in table order
	require.Equal(t, []string{"t1", "t4", "t3", "t0", "t2"}, order)

	expect := map[string]uint64{
		"t1": 0x1000,
		"t4": 0x1000 + 256,
		"t3": 0x1000 + 256 + 128,
		"t0": 0x1000 + 256 + 128 + 64,
		"t2": 0x1000 + 256 + 128 + 64 + 64,
	}
	for name, want := range expect {
		got, ok := layout.Address(name)
		require.True(t, ok)
		require.Equal(t, want, got, "address of %s", name)
	}
	_, ok := layout.Address("missing")
	require.False(t, ok)
}

func TestLayoutProperties(t *testing.T) {
	sizes := []int64{3, 1000, 64, 1, 4096, 77, 77, 128, 5000, 2}
	alloc, err := NewDeviceAllocator([]platform.MemoryRange{
		rangeAt("hbm0", 0),
		rangeAt("hbm1", 0x1_0000_0000),
		rangeAt("hbm2", 0x40),
	}, nil)
	require.NoError(t, err)

	layout := alloc.Layout(tableOf(t, sizes...))
	require.Equal(t, len(sizes), layout.Len())

	byDevice := make(map[string][]Placement)
	for i, p := range layout.Placements() {
		require.Equal(t, alloc.Devices()[i%3], p.Device)
		byDevice[p.Device] = append(byDevice[p.Device], p)
	}

	for dev, placements := range byDevice {
		sort.SliceStable(placements, func(i, j int) bool { return placements[i].Address < placements[j].Address })
		for i := 1; i < len(placements); i++ {
			prev, cur := placements[i-1], placements[i]
			gap := cur.Address - prev.Address
			require.Zero(t, gap%Alignment, "gap on %s", dev)
			require.GreaterOrEqual(t, gap, prev.SizeBytes, "overlap on %s", dev)
			require.Equal(t, AlignUp(prev.SizeBytes), gap)
		}
	}
}

func TestLayoutEmptyTable(t *testing.T) {
	alloc, err := NewDeviceAllocator([]platform.MemoryRange{rangeAt("hbm0", 0)}, nil)
	require.NoError(t, err)
	require.Zero(t, alloc.Layout(tableOf(t)).Len())
}

func TestAlignUp(t *testing.T) {
	require.Equal(t, uint64(0), AlignUp(0))
	require.Equal(t, uint64(64), AlignUp(1))
	require.Equal(t, uint64(64), AlignUp(64))
	require.Equal(t, uint64(128), AlignUp(65))
}
