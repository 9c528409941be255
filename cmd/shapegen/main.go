// Package main provides the shapegen CLI: train a pose regressor from
// exported vertex matrices and predict poses with a trained bundle.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/shapegen/internal/artifact"
	"github.com/born-ml/shapegen/internal/model"
	"github.com/born-ml/shapegen/internal/parallel"
)

const version = "v0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch args[0] {
	case "train":
		err = trainCommand(ctx, args[1:], stdout, stderr)
	case "predict":
		err = predictCommand(ctx, args[1:], stderr)
	case "version":
		fmt.Fprintf(stdout, "shapegen %s (model format %s, %s)\n", version, model.FormatVersion, parallel.Describe())
		return 0
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "shapegen %s - learn a pose from a neutral mesh layout\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  train      Fit a regressor to an input/output matrix pair")
	fmt.Fprintln(w, "  predict    Predict an output matrix with a trained bundle")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'shapegen <command> -h' for command flags.")
}

// logFlags are shared by every command.
type logFlags struct {
	level  string
	format string
}

func (f *logFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.level, "log-level", "info", "log level (panic, fatal, error, warn, info, debug, trace)")
	fs.StringVar(&f.format, "log-format", "text", "log format (text or json)")
}

func (f *logFlags) logger(w io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	level, err := logrus.ParseLevel(f.level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)
	switch f.format {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", f.format)
	}
	return logger, nil
}

// bundleFlags locate the artifact units, either all under one directory or
// one by one. Individual paths override the directory defaults.
type bundleFlags struct {
	dir        string
	model      string
	inputMean  string
	inputStd   string
	outputMean string
	outputStd  string
	record     string
}

func (f *bundleFlags) register(fs *flag.FlagSet, dirFlag, dirUsage string) {
	fs.StringVar(&f.dir, dirFlag, "", dirUsage)
	fs.StringVar(&f.model, "model", "", "model weights file ("+artifact.ModelFile+")")
	fs.StringVar(&f.inputMean, "inputs-mean", "", "input mean vector file")
	fs.StringVar(&f.inputStd, "inputs-std", "", "input std vector file")
	fs.StringVar(&f.outputMean, "outputs-mean", "", "output mean vector file")
	fs.StringVar(&f.outputStd, "outputs-std", "", "output std vector file")
	fs.StringVar(&f.record, "record", "", "run record file ("+artifact.RecordFile+")")
}

func (f *bundleFlags) paths() artifact.Paths {
	var p artifact.Paths
	if f.dir != "" {
		p = artifact.DefaultPaths(f.dir)
	}
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&p.Model, f.model)
	override(&p.InputMean, f.inputMean)
	override(&p.InputStd, f.inputStd)
	override(&p.OutputMean, f.outputMean)
	override(&p.OutputStd, f.outputStd)
	override(&p.Record, f.record)
	return p
}
