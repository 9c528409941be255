package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/born-ml/shapegen/internal/pipeline"
	"github.com/born-ml/shapegen/internal/watch"
)

func predictCommand(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		logs   logFlags
		bundle bundleFlags
		input  string
		output string
		follow bool
	)
	logs.register(fs)
	bundle.register(fs, "bundle", "directory holding every artifact under its default name")
	fs.StringVar(&input, "input", "", "raw neutral pose matrix")
	fs.StringVar(&output, "output", "", "where the predicted pose matrix is written")
	fs.BoolVar(&follow, "watch", false, "keep running and predict again whenever the input changes")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := logs.logger(stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return err
	}
	if input == "" || output == "" {
		err := errors.New("both -input and -output are required")
		logger.Error(err)
		return err
	}

	paths := bundle.paths()
	if !follow {
		if _, err := pipeline.Predict(ctx, pipeline.PredictRequest{
			Paths:      paths,
			InputPath:  input,
			OutputPath: output,
			Logger:     logger,
		}); err != nil {
			logger.WithError(err).WithField("input", input).Error("prediction failed")
			return err
		}
		return nil
	}

	p, err := pipeline.LoadPredictor(ctx, paths, nil, logger)
	if err != nil {
		logger.WithError(err).WithField("model", paths.Model).Error("failed to load bundle")
		return err
	}
	if err := watch.Run(ctx, p, watch.Options{
		InputPath:  input,
		OutputPath: output,
		Logger:     logger,
	}); err != nil {
		logger.WithError(err).WithField("input", input).Error("watch failed")
		return err
	}
	return nil
}
