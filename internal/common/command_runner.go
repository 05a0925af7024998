package common

import (
	"context"
	"fmt"
	"time"

	"cvwizard/internal/errors"
)

// LoadInputFunc gathers a command's inputs.
type LoadInputFunc[In any] func(fp *FileProcessor) (In, error)

// LogDetailsFunc logs what is about to run. It may be nil.
type LogDetailsFunc[In any] func(in In, cfg CommandConfig)

// OperationFunc is the wizard call behind a command.
type OperationFunc[In, Out any] func(context.Context, In) (Out, error)

// RunWizardCommand is the shape of every file-based command: check the
// output path, load, run, then render the result.
func RunWizardCommand[In, Out any](
	ctx context.Context,
	logger *errors.Logger,
	cfg CommandConfig,
	load LoadInputFunc[In],
	op OperationFunc[In, Out],
	logDetails LogDetailsFunc[In],
) error {
	fp := NewFileProcessor(logger, cfg.MaxFileSize)
	if err := fp.ValidateOutputFile(cfg.OutputFile); err != nil {
		return err
	}

	in, err := load(fp)
	if err != nil {
		return fmt.Errorf("failed to load command input: %w", err)
	}
	if logDetails != nil {
		logDetails(in, cfg)
	}

	started := time.Now()
	out, err := op(ctx, in)
	if err != nil {
		return err
	}
	logger.Debug("Wizard call done", "elapsed", time.Since(started).Round(time.Millisecond).String(),
		"destination", cfg.destination())

	return NewOutputHandler(logger).HandleOutput(out, cfg)
}
