package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"gwrTimetable/src/misc"
)

func message(b []byte, num protowire.Number, body []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, body)
}

func text(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func varint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// float tensor value info with one fixed dimension
func valueInfo(name string, dim uint64) []byte {
	shape := message(nil, 1, varint(nil, 1, dim))
	tensorType := message(varint(nil, 1, 1), 2, shape)
	return message(text(nil, 1, name), 2, message(nil, 1, tensorType))
}

func writeAddModel(t *testing.T, dir string) string {
	t.Helper()
	node := text(text(text(text(nil, 1, "x"), 2, "y"), 3, "add0"), 4, "Add")
	graph := message(nil, 1, node)
	graph = text(graph, 2, "main")
	graph = message(graph, 11, valueInfo("x", 4))
	graph = message(graph, 12, valueInfo("y", 4))
	model := message(varint(nil, 1, 8), 7, graph)

	path := filepath.Join(dir, "add.onnx")
	require.NoError(t, os.WriteFile(path, model, 0o644))
	return path
}

const addPlatform = `memory_maps:
  - ranges:
      - device: hbm0
        base_address: "0x1000"
processing_elements:
  - name: pe0
    config:
      sram_bytes: 1MB
`

func testOptions(t *testing.T) *misc.CommandLineOptions {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "platform.yaml"), []byte(addPlatform), 0o644))
	return &misc.CommandLineOptions{
		OnnxPath:       writeAddModel(t, dir),
		PlatformPath:   "platform.yaml",
		RootDirpath:    dir,
		OutputFormat:   "yaml",
		ResolveWorkers: 2,
	}
}

func TestRunWritesTimetableToStdout(t *testing.T) {
	options := testOptions(t)

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), options, misc.DiscardLogger(), &stdout))

	out := stdout.String()
	require.Contains(t, out, "id: add0_load_0")
	require.Contains(t, out, "id: add0_compute")
	require.Contains(t, out, "id: add0_store_0")
	require.Contains(t, out, "addr: 4096")
	require.Contains(t, out, "num_bytes: 16")
}

func TestRunWritesTimetableToFile(t *testing.T) {
	options := testOptions(t)
	options.OutputFormat = "json"
	options.OutputPath = filepath.Join(t.TempDir(), "timetable.json")

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), options, misc.DiscardLogger(), &stdout))
	require.Zero(t, stdout.Len())

	data, err := os.ReadFile(options.OutputPath)
	require.NoError(t, err)
	require.Contains(t, string(data), `"id": "add0_compute"`)
}

func TestRunFailsWithoutOutput(t *testing.T) {
	options := testOptions(t)
	options.OutputPath = filepath.Join(t.TempDir(), "timetable.yaml")
	require.NoError(t, os.WriteFile(filepath.Join(options.RootDirpath, "platform.yaml"), []byte("memory_maps: []\n"), 0o644))

	err := run(context.Background(), options, misc.DiscardLogger(), &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "error loading platform yaml")
	_, statErr := os.Stat(options.OutputPath)
	require.True(t, os.IsNotExist(statErr))

	options = testOptions(t)
	options.OnnxPath = filepath.Join(t.TempDir(), "missing.onnx")
	err = run(context.Background(), options, misc.DiscardLogger(), &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "error loading onnx model")
}

func TestCommandLineParser(t *testing.T) {
	options := new(misc.CommandLineOptions)
	app := InitCommandLineParser(options)

	_, err := app.Parse([]string{"model.onnx", "platform.yaml", "-o", "out.yaml", "--resolve.workers", "3"})
	require.NoError(t, err)
	require.Equal(t, "model.onnx", options.OnnxPath)
	require.Equal(t, "platform.yaml", options.PlatformPath)
	require.Equal(t, "out.yaml", options.OutputPath)
	require.Equal(t, 3, options.ResolveWorkers)
	require.Equal(t, "yaml", options.OutputFormat)
	require.Equal(t, "stderr", options.LogOutput)

	options = new(misc.CommandLineOptions)
	app = InitCommandLineParser(options)
	_, err = app.Parse([]string{"model.onnx", "platform.yaml", "--resolve.workers", "0"})
	require.Error(t, err)

	options = new(misc.CommandLineOptions)
	app = InitCommandLineParser(options)
	_, err = app.Parse([]string{"model.onnx"})
	require.Error(t, err)
}
