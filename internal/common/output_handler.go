package common

import (
	"fmt"
	"io"
	"os"

	"cvwizard/internal/errors"
	"cvwizard/internal/formatters"
)

// CommandConfig carries the output options shared by every wizard command.
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
	MaxFileSize  int64
}

// destination reports where rendered output goes, for log lines.
func (c CommandConfig) destination() string {
	if c.OutputFile == "" {
		return "stdout"
	}
	return c.OutputFile
}

// OutputHandler renders results and writes them to a file or stdout.
type OutputHandler struct {
	files    *FileProcessor
	registry *formatters.FormatterRegistry
	logger   *errors.Logger
	stdout   io.Writer
}

func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	if logger == nil {
		logger = errors.Discard()
	}
	return &OutputHandler{
		files:    NewFileProcessor(logger, 0),
		registry: formatters.GlobalRegistry,
		logger:   logger,
		stdout:   os.Stdout,
	}
}

// HandleOutput renders data in cfg.OutputFormat. An unknown format or a
// result the format cannot render is a validation error.
func (oh *OutputHandler) HandleOutput(data any, cfg CommandConfig) error {
	if err := oh.files.ValidateOutputFile(cfg.OutputFile); err != nil {
		return err
	}

	rendered, err := oh.registry.Format(data, cfg.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("cannot render output as %s", cfg.OutputFormat), err)
	}

	if cfg.OutputFile == "" {
		_, err = fmt.Fprintln(oh.stdout, rendered)
		return err
	}
	if err := oh.files.WriteFile(cfg.OutputFile, rendered); err != nil {
		return err
	}
	oh.logger.Info("Output written", "destination", cfg.destination(), "format", cfg.OutputFormat)
	return nil
}

func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}
