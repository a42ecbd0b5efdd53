// Package tensor resolves shape, element type and byte size for every tensor
// name a graph references, falling back to initializer metadata and then to
// a one-element fp32 placeholder when the exporter left gaps.
package tensor

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"gwrTimetable/src/misc"
	"gwrTimetable/src/onnx"
)

// ErrSizeOverflow is returned for a tensor whose byte size does not fit in 64
// bits.
var ErrSizeOverflow = errors.New("tensor size overflows 64 bits")

// Resolver builds the tensor table of a graph. Declared tensors are resolved
// by up to Workers goroutines; the result does not depend on Workers.
type Resolver struct {
	Workers int
	Logger  logrus.FieldLogger
}

// Resolve returns a record for every non-empty tensor name in the graph's
// value_info, inputs, outputs, initializers and node inputs/outputs.
func (r *Resolver) Resolve(ctx context.Context, graph *onnx.Graph) (*Table, error) {
	if graph == nil {
		return nil, errors.New("nil graph")
	}
	logger := r.logger()

	initializers := make(map[string]*onnx.Tensor, len(graph.Initializers))
	for i := range graph.Initializers {
		init := &graph.Initializers[i]
		if init.Name != "" {
			initializers[init.Name] = init
		}
	}

	declared := declaredValues(graph)
	records := make([]Record, len(declared))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, vi := range declared {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = resolveDeclared(vi, initializers[vi.Name])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "resolve declared tensors")
	}

	table := NewTable()
	for _, record := range records {
		table.put(record)
	}

	numInitializers := 0
	for _, init := range graph.Initializers {
		if init.Name == "" || table.has(init.Name) {
			continue
		}
		table.put(newRecord(init.Name, dimsOf(init.Dims), init.DataType, SourceInitializer))
		numInitializers++
	}

	for _, record := range table.records {
		if record.Overflows() {
			return nil, errors.Wrapf(ErrSizeOverflow, "tensor %s shape %s", record.Name, record.ShapeString())
		}
	}

	numPlaceholders := 0
	for _, node := range graph.Nodes {
		for _, names := range [][]string{node.Inputs, node.Outputs} {
			for _, name := range names {
				if name == "" || table.has(name) {
					continue
				}
				table.put(placeholderRecord(name))
				numPlaceholders++
			}
		}
	}

	logger.WithFields(logrus.Fields{
		"declared":     len(declared),
		"initializers": numInitializers,
		"placeholders": numPlaceholders,
		"tensors":      table.Len(),
	}).Debug("resolved tensor metadata")

	return table, nil
}

func (r *Resolver) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (r *Resolver) logger() logrus.FieldLogger {
	if r.Logger != nil {
		return r.Logger
	}
	return misc.DiscardLogger()
}

// declaredValues lists value_info, then inputs, then outputs, without
// entries that have no name.
func declaredValues(graph *onnx.Graph) []onnx.ValueInfo {
	total := len(graph.ValueInfo) + len(graph.Inputs) + len(graph.Outputs)
	out := make([]onnx.ValueInfo, 0, total)
	for _, list := range [][]onnx.ValueInfo{graph.ValueInfo, graph.Inputs, graph.Outputs} {
		for _, vi := range list {
			if vi.Name != "" {
				out = append(out, vi)
			}
		}
	}
	return out
}

// resolveDeclared applies the declared type, then the initializer, then the
// placeholder defaults, field by field.
func resolveDeclared(vi onnx.ValueInfo, init *onnx.Tensor) Record {
	shape, hasShape := declaredShape(vi.Type)
	dt, hasDataType := declaredDataType(vi.Type)

	if !hasShape && init != nil {
		shape, hasShape = dimsOf(init.Dims), true
	}
	if !hasDataType && init != nil {
		dt, hasDataType = init.DataType, true
	}

	if !hasDataType {
		dt = DefaultDataType
	}
	if !hasShape {
		shape = []Dim{{Value: 1, Resolved: true}}
	}
	return newRecord(vi.Name, shape, dt, SourceDeclared)
}

func declaredShape(tp *onnx.TypeProto) ([]Dim, bool) {
	if tp == nil || tp.Tensor == nil || tp.Tensor.Shape == nil {
		return nil, false
	}
	dims := make([]Dim, len(tp.Tensor.Shape.Dims))
	for i, d := range tp.Tensor.Shape.Dims {
		dims[i] = Dim{Value: d.Value, Resolved: d.HasValue}
	}
	return dims, true
}

func declaredDataType(tp *onnx.TypeProto) (onnx.DataType, bool) {
	if tp == nil || tp.Tensor == nil || !tp.Tensor.HasElemType {
		return 0, false
	}
	return tp.Tensor.ElemType, true
}

func dimsOf(values []int64) []Dim {
	dims := make([]Dim, len(values))
	for i, v := range values {
		dims[i] = Dim{Value: v, Resolved: true}
	}
	return dims
}
