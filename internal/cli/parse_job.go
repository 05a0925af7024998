package cli

import (
	"context"
	"fmt"

	"cvwizard/internal/common"
	"cvwizard/internal/files"
	"cvwizard/internal/types"
	"cvwizard/internal/utils"
	"cvwizard/internal/wizard"

	"github.com/spf13/cobra"
)

var parseJobCmd = &cobra.Command{
	Use:   "parse-job [file|-]",
	Short: "Structure a job posting",
	Long: `Turn a pasted job posting into a structured job description that the
other commands accept with --job. Text files and "-" (standard input) are
read as text; PDF and DOCX postings are converted locally first.

If the model cannot be used the posting text is kept as the description.`,
	Args: cobra.ExactArgs(1),
	RunE: runParseJob,
}

var parseJobConfig common.CommandConfig

func init() {
	addOutputFlags(parseJobCmd, &parseJobConfig)
}

// jobSource is either posting text or a document to convert.
type jobSource struct {
	text string
	file *files.Encoded
}

func runParseJob(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())
	apiKey, connect, opts := wizardSetup(cmd.Context())
	parser := wizard.NewJobParser(apiKey, connect, opts...)
	path := args[0]

	loadInput := func(fp *common.FileProcessor) (jobSource, error) {
		if path == common.StdinPath || utils.IsTextFile(path) {
			text, err := fp.ReadFile(path)
			return jobSource{text: text}, err
		}
		uploads, err := fp.ReadUploads(path)
		if err != nil {
			return jobSource{}, err
		}
		return jobSource{file: &uploads[0]}, nil
	}

	logDetails := func(src jobSource, cfg common.CommandConfig) {
		logger.Info("Starting job description parsing",
			"source", path,
			"text_chars", len(src.text),
			"output_format", cfg.OutputFormat)
	}

	parseOperation := func(ctx context.Context, src jobSource) (types.JobDescription, error) {
		var (
			parsed wizard.ParsedJob
			err    error
		)
		if src.file != nil {
			parsed, err = parser.ParseFile(ctx, *src.file)
		} else {
			parsed, err = parser.Parse(ctx, src.text)
		}
		if err != nil {
			return types.JobDescription{}, err
		}
		if parsed.Degraded {
			logger.Warn("Job description could not be structured, keeping the raw text")
		}
		if !parsed.LooksLikeJob {
			logger.Warn("Input does not look like a job description")
		}
		return parsed.Job, nil
	}

	if err := common.RunWizardCommand(cmd.Context(), logger, parseJobConfig, loadInput, parseOperation, logDetails); err != nil {
		return fmt.Errorf("failed to parse job description: %w", err)
	}
	logger.Info("Job description parsing completed successfully")
	return nil
}
