package timetable

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"gwrTimetable/src/memory"
	"gwrTimetable/src/misc"
	"gwrTimetable/src/onnx"
	"gwrTimetable/src/platform"
	"gwrTimetable/src/tensor"
)

type options struct {
	logger     logrus.FieldLogger
	workers    int
	categories *CategoryTable
}

// Option configures Convert.
type Option func(*options)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithResolveWorkers bounds the goroutines resolving declared tensors. Zero
// means GOMAXPROCS.
func WithResolveWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithCategoryTable replaces the op type to compute op mapping.
func WithCategoryTable(categories *CategoryTable) Option {
	return func(o *options) {
		o.categories = categories
	}
}

// Convert resolves tensor metadata, lays tensors out in device memory and
// lowers every node of graph. It either returns a complete, valid timetable
// or an error.
func Convert(ctx context.Context, graph *onnx.Graph, platformConfig *platform.PlatformConfig, opts ...Option) (*Timetable, error) {
	o := options{logger: misc.DiscardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	if graph == nil {
		return nil, onnx.ErrNoGraph
	}
	if platformConfig == nil {
		return nil, errors.New("nil platform config")
	}

	resolver := &tensor.Resolver{Workers: o.workers, Logger: o.logger}
	tensors, err := resolver.Resolve(ctx, graph)
	if err != nil {
		return nil, err
	}

	alloc, err := memory.NewDeviceAllocator(platformConfig.Ranges(), o.logger)
	if err != nil {
		return nil, err
	}
	layout := alloc.Layout(tensors)

	builder, err := NewBuilder(tensors, layout, platformConfig, o.categories, o.logger)
	if err != nil {
		return nil, err
	}
	tt, err := builder.Build(graph)
	if err != nil {
		return nil, err
	}

	if err := tt.Validate(platformConfig); err != nil {
		return nil, errors.Wrap(err, "lowered timetable is inconsistent")
	}

	o.logger.WithFields(logrus.Fields{
		"graph_nodes": len(graph.Nodes),
		"tensors":     tensors.Len(),
		"nodes":       len(tt.Nodes),
		"edges":       len(tt.Edges),
	}).Debug("lowered graph")
	return tt, nil
}
