package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/shapegen/internal/config"
	"github.com/born-ml/shapegen/internal/pipeline"
	"github.com/born-ml/shapegen/internal/trainer"
)

func trainCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		logs       logFlags
		bundle     bundleFlags
		inputs     string
		outputs    string
		configFile string
		poolOrder  string
		quiet      bool
	)
	cfg := config.Default()

	logs.register(fs)
	bundle.register(fs, "out", "directory receiving every artifact under its default name")
	fs.StringVar(&inputs, "inputs", "", "neutral pose matrix (one sample per line)")
	fs.StringVar(&outputs, "outputs", "", "target pose matrix (one sample per line)")
	fs.StringVar(&configFile, "config", "", "YAML configuration file; flags override its values")
	fs.IntVar(&cfg.HiddenWidth, "hidden", cfg.HiddenWidth, "hidden layer width")
	fs.Float64Var(&cfg.LearningRate, "lr", cfg.LearningRate, "Adam learning rate")
	fs.IntVar(&cfg.Epochs, "epochs", cfg.Epochs, "number of epochs")
	fs.Float64Var(&cfg.ValidationSplit, "validation-split", cfg.ValidationSplit, "fraction of samples held out for validation (0 disables)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for initialization and shuffling (-1 picks one from the clock)")
	fs.StringVar(&poolOrder, "pool-order", string(cfg.PoolOrder), "which end of the samples trains: train-first or validation-first")
	fs.BoolVar(&quiet, "quiet", false, "do not print per-epoch progress")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := logs.logger(stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return err
	}

	if configFile != "" {
		fileCfg, err := config.LoadFile(configFile)
		if err != nil {
			logger.WithError(err).WithField("config", configFile).Error("failed to load configuration")
			return err
		}
		cfg = overrideSet(fs, fileCfg, cfg)
	}
	order, err := config.ParsePoolOrder(poolOrder)
	if err != nil {
		logger.WithError(err).Error("invalid configuration")
		return err
	}
	if configFile == "" || flagSet(fs, "pool-order") {
		cfg.PoolOrder = order
	}
	if cfg.Seed < 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	paths := bundle.paths()
	for _, p := range []string{paths.Model, paths.InputMean, paths.InputStd, paths.OutputMean, paths.OutputStd, paths.Record} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			logger.WithError(err).Error("failed to create output directory")
			return err
		}
	}

	req := pipeline.TrainRequest{
		InputPath:  inputs,
		OutputPath: outputs,
		Config:     cfg,
		Paths:      paths,
		Logger:     logger,
	}
	if !quiet {
		req.Progress = func(r trainer.EpochReport) {
			fmt.Fprintln(stdout, r)
		}
	}

	summary, err := pipeline.Train(ctx, req)
	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"inputs":  inputs,
			"outputs": outputs,
			"config":  fmt.Sprintf("%+v", cfg),
		}).Error("training failed")
		return err
	}
	fmt.Fprintf(stdout, "trained %d epochs, final loss %f, run %s\n",
		summary.Record.History.Len(), summary.Record.History.FinalTrain(), summary.Record.RunID)
	return nil
}

// overrideSet returns base with the fields whose flags were given on the
// command line taken from flags.
func overrideSet(fs *flag.FlagSet, base, flags config.Config) config.Config {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "hidden":
			base.HiddenWidth = flags.HiddenWidth
		case "lr":
			base.LearningRate = flags.LearningRate
		case "epochs":
			base.Epochs = flags.Epochs
		case "validation-split":
			base.ValidationSplit = flags.ValidationSplit
		case "seed":
			base.Seed = flags.Seed
		}
	})
	return base
}

func flagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
