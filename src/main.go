package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/common/version"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"

	"gwrTimetable/src/misc"
	"gwrTimetable/src/onnx"
	"gwrTimetable/src/platform"
	"gwrTimetable/src/timetable"
)

func main() {
	options := new(misc.CommandLineOptions)
	app := InitCommandLineParser(options)

	if _, err := app.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "failed to parse commandline arguments"))
		app.Usage(os.Args[1:])
		atexit.Exit(2)
	}

	logger, logClose, err := misc.NewLogger(options.LogOutput, options.LogFormat, options.LogFile, options.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "unable to create logger"))
		atexit.Exit(1)
	}
	atexit.Register(logClose)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	atexit.Register(stop)

	if err := run(ctx, options, logger, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func InitCommandLineParser(options *misc.CommandLineOptions) *kingpin.Application {
	app := kingpin.New(filepath.Base(os.Args[0]), "Lower an ONNX model into an accelerator timetable laid out on a platform.")
	app.HelpFlag.Short('h')

	app.Arg("onnx", "Path to the .onnx model file.").Required().StringVar(&options.OnnxPath)
	app.Arg("platform", "Path to the platform YAML file.").Required().StringVar(&options.PlatformPath)

	app.Flag("output", "Output path (default: stdout).").Short('o').PlaceHolder("PATH").StringVar(&options.OutputPath)
	app.Flag("output.format", "Output format, one of [yaml, json].").Default(string(misc.DefaultOutputFormat())).StringVar(&options.OutputFormat)
	app.Flag("root-dir", "Directory searched, with its parents, for a relative platform path.").PlaceHolder("DIR").StringVar(&options.RootDirpath)
	app.Flag("resolve.workers", "Goroutines resolving declared tensor metadata.").Default("4").IntVar(&options.ResolveWorkers)

	app.Flag("log.level", "Log level, one of [trace, debug, info, warn, error].").Default("warn").EnumVar(&options.LogLevel, "trace", "debug", "info", "warn", "error")
	app.Flag("log.output", "Log output, one of [stdout, stderr, file].").Default("stderr").EnumVar(&options.LogOutput, "stdout", "stderr", "file")
	app.Flag("log.format", "Log format, one of [json, text].").Default("text").EnumVar(&options.LogFormat, "json", "text")
	app.Flag("log.file", "Log file path when --log.output=file.").PlaceHolder("PATH").StringVar(&options.LogFile)

	app.PreAction(func(*kingpin.ParseContext) error {
		command_line_validator := new(misc.CommandLineValidator)
		command_line_validator.Init(options)
		return command_line_validator.Validate()
	})
	app.Version(version.Print("gwr-timetable"))

	return app
}

// run converts the model and writes the timetable. Nothing is written unless
// the whole conversion succeeds.
func run(ctx context.Context, options *misc.CommandLineOptions, logger logrus.FieldLogger, stdout io.Writer) error {
	format, ok := misc.OutputFormatFromString(options.OutputFormat)
	if !ok {
		return errors.Errorf("output.format %s is not supported", options.OutputFormat)
	}

	model, err := onnx.Load(options.OnnxPath)
	if err != nil {
		return errors.Wrap(err, "error loading onnx model")
	}

	platformPath := misc.ResolveConfigPath(options.PlatformPath, options.RootDirpath)
	platformConfig, err := platform.Load(platformPath)
	if err != nil {
		return errors.Wrap(err, "error loading platform yaml")
	}

	logger.WithFields(logrus.Fields{
		"graph":    model.Graph.Name,
		"producer": model.ProducerName,
		"platform": platformPath,
	}).Debug("inputs loaded")

	tt, err := timetable.Convert(
		ctx,
		model.Graph,
		platformConfig,
		timetable.WithLogger(logger),
		timetable.WithResolveWorkers(options.ResolveWorkers),
	)
	if err != nil {
		return errors.Wrap(err, "error converting onnx to timetable")
	}

	var buf bytes.Buffer
	if err := timetable.Encode(&buf, tt, format); err != nil {
		return err
	}

	if options.OutputPath == "" {
		_, err = stdout.Write(buf.Bytes())
		return errors.Wrap(err, "write timetable")
	}
	if err := os.WriteFile(options.OutputPath, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "write timetable")
	}

	logger.WithFields(logrus.Fields{
		"output": options.OutputPath,
		"nodes":  len(tt.Nodes),
		"edges":  len(tt.Edges),
	}).Info("timetable written")
	return nil
}
