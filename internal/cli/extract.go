package cli

import (
	"context"
	"fmt"

	"cvwizard/internal/common"
	"cvwizard/internal/files"
	"cvwizard/internal/linkedin"
	"cvwizard/internal/types"
	"cvwizard/internal/wizard"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract a structured CV from documents",
	Long: `Extract a structured CV from one or more documents (PDF, DOCX, text or
images). The model reads every file together and produces one CV.

JSON Resume or LinkedIn profile exports may be passed too. They are parsed
locally and merged with whatever the model extracts from the documents.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

var importCmd = &cobra.Command{
	Use:   "import [profile-export.json]",
	Short: "Import a JSON Resume or LinkedIn export",
	Long: `Import a JSON Resume or LinkedIn profile export into a CV. Nothing is sent
to the model unless --with adds documents, whose extraction is merged over
the imported profile. The result is checked for completeness.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	extractConfig common.CommandConfig
	importConfig  common.CommandConfig
	importWith    []string
)

func init() {
	addOutputFlags(extractCmd, &extractConfig)
	addOutputFlags(importCmd, &importConfig)
	importCmd.Flags().StringSliceVar(&importWith, "with", nil, "Documents to extract and merge with the export")
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())
	apiKey, connect, opts := wizardSetup(cmd.Context())
	extractor := wizard.NewExtractor(apiKey, connect, opts...)

	loadInput := func(fp *common.FileProcessor) ([]files.Encoded, error) {
		return fp.ReadUploads(args...)
	}

	logDetails := func(uploads []files.Encoded, cfg common.CommandConfig) {
		logger.Info("Starting CV extraction",
			"files", len(uploads),
			"output_format", cfg.OutputFormat)
	}

	extractOperation := func(ctx context.Context, uploads []files.Encoded) (types.CVData, error) {
		cv, report, err := extractor.ExtractUploads(ctx, uploads)
		if err != nil {
			return types.CVData{}, err
		}
		logReport(logger, report)
		return cv, nil
	}

	if err := common.RunWizardCommand(cmd.Context(), logger, extractConfig, loadInput, extractOperation, logDetails); err != nil {
		return fmt.Errorf("failed to extract CV: %w", err)
	}
	logger.Info("CV extraction completed successfully")
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())
	apiKey, connect, opts := wizardSetup(cmd.Context())
	extractor := wizard.NewExtractor(apiKey, connect, opts...)

	loadInput := func(fp *common.FileProcessor) ([]files.Encoded, error) {
		uploads, err := fp.ReadUploads(append([]string{args[0]}, importWith...)...)
		if err != nil {
			return nil, err
		}
		if files.Classify(uploads[0]) != files.KindProfileExport {
			return nil, fmt.Errorf("%s is not a JSON profile export", args[0])
		}
		return uploads, nil
	}

	logDetails := func(uploads []files.Encoded, cfg common.CommandConfig) {
		logger.Info("Starting profile import",
			"documents", len(uploads)-1,
			"output_format", cfg.OutputFormat)
	}

	importOperation := func(ctx context.Context, uploads []files.Encoded) (types.CVData, error) {
		cv, report, err := extractor.ExtractUploads(ctx, uploads)
		if err != nil {
			return types.CVData{}, err
		}
		logReport(logger, report)
		for _, warning := range linkedin.Validate(cv) {
			logger.Warn("Imported CV is incomplete", "problem", warning)
		}
		return cv, nil
	}

	if err := common.RunWizardCommand(cmd.Context(), logger, importConfig, loadInput, importOperation, logDetails); err != nil {
		return fmt.Errorf("failed to import profile: %w", err)
	}
	logger.Info("Profile import completed successfully")
	return nil
}
