package cli

import (
	"context"
	"fmt"

	"cvwizard/internal/common"
	"cvwizard/internal/files"
	"cvwizard/internal/normalize"
	"cvwizard/internal/types"
	"cvwizard/internal/wizard"

	"github.com/spf13/cobra"
)

// applicationFlags are the inputs shared by the commands that work on a CV
// for a job.
type applicationFlags struct {
	cv    string
	job   string
	files []string
}

func (f *applicationFlags) register(cmd *cobra.Command, jobRequired bool) {
	cmd.Flags().StringVar(&f.cv, "cv", "", "CV as JSON (the output of extract)")
	usage := "Job description: .json from parse-job, or the posting as text"
	if !jobRequired {
		usage += " (ignored with --quick)"
	}
	cmd.Flags().StringVar(&f.job, "job", "", usage)
	cmd.Flags().StringSliceVar(&f.files, "files", nil, "Supporting documents sent along with the CV")
	_ = cmd.MarkFlagRequired("cv")
	if jobRequired {
		_ = cmd.MarkFlagRequired("job")
	}
}

type applicationInput struct {
	cv    types.CVData
	job   types.JobDescription
	files []files.Encoded
}

func (f *applicationFlags) load(fp *common.FileProcessor, needJob bool) (applicationInput, error) {
	var in applicationInput
	var err error
	if in.cv, err = loadCV(fp, f.cv); err != nil {
		return in, err
	}
	if needJob {
		if in.job, err = loadJob(fp, f.job); err != nil {
			return in, err
		}
	}
	if len(f.files) > 0 {
		if in.files, err = fp.ReadUploads(f.files...); err != nil {
			return in, err
		}
	}
	return in, nil
}

var enhanceCmd = &cobra.Command{
	Use:   "enhance",
	Short: "Tailor a CV to a job description",
	Long: `Rewrite a CV so it targets a job description. Nothing is invented: the
model rephrases and reorders what the CV and any --files already say.

With --quick the CV is polished without a job description.`,
	Args: cobra.NoArgs,
	RunE: runEnhance,
}

var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter",
	Short: "Write a cover letter for a CV and job description",
	Args:  cobra.NoArgs,
	RunE:  runCoverLetter,
}

var (
	enhanceConfig     common.CommandConfig
	enhanceFlags      applicationFlags
	enhanceQuick      bool
	coverLetterConfig common.CommandConfig
	coverLetterFlags  applicationFlags
)

func init() {
	addOutputFlags(enhanceCmd, &enhanceConfig)
	enhanceFlags.register(enhanceCmd, false)
	enhanceCmd.Flags().BoolVar(&enhanceQuick, "quick", false, "Polish the CV without a job description")

	addOutputFlags(coverLetterCmd, &coverLetterConfig)
	coverLetterFlags.register(coverLetterCmd, true)
}

func runEnhance(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())
	apiKey, connect, opts := wizardSetup(cmd.Context())
	enhancer := wizard.NewEnhancer(apiKey, connect, opts...)

	if !enhanceQuick && enhanceFlags.job == "" {
		return fmt.Errorf("--job is required unless --quick is set")
	}

	loadInput := func(fp *common.FileProcessor) (applicationInput, error) {
		return enhanceFlags.load(fp, !enhanceQuick)
	}

	logDetails := func(in applicationInput, cfg common.CommandConfig) {
		logger.Info("Starting CV enhancement",
			"quick", enhanceQuick,
			"job_title", in.job.Title,
			"files", len(in.files),
			"output_format", cfg.OutputFormat)
	}

	enhanceOperation := func(ctx context.Context, in applicationInput) (types.CVData, error) {
		var (
			cv     types.CVData
			report normalize.Report
			err    error
		)
		if enhanceQuick {
			cv, report, err = enhancer.QuickEnhance(ctx, in.cv, in.files)
		} else {
			cv, report, err = enhancer.EnhanceCV(ctx, in.cv, in.job, in.files)
		}
		if err != nil {
			return types.CVData{}, err
		}
		logReport(logger, report)
		return cv, nil
	}

	if err := common.RunWizardCommand(cmd.Context(), logger, enhanceConfig, loadInput, enhanceOperation, logDetails); err != nil {
		return fmt.Errorf("failed to enhance CV: %w", err)
	}
	logger.Info("CV enhancement completed successfully")
	return nil
}

func runCoverLetter(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())
	apiKey, connect, opts := wizardSetup(cmd.Context())
	enhancer := wizard.NewEnhancer(apiKey, connect, opts...)

	loadInput := func(fp *common.FileProcessor) (applicationInput, error) {
		return coverLetterFlags.load(fp, true)
	}

	logDetails := func(in applicationInput, cfg common.CommandConfig) {
		logger.Info("Starting cover letter generation",
			"job_title", in.job.Title,
			"company", in.job.Company,
			"output_format", cfg.OutputFormat)
	}

	letterOperation := func(ctx context.Context, in applicationInput) (types.CoverLetter, error) {
		return enhancer.GenerateCoverLetter(ctx, in.cv, in.job, in.files)
	}

	if err := common.RunWizardCommand(cmd.Context(), logger, coverLetterConfig, loadInput, letterOperation, logDetails); err != nil {
		return fmt.Errorf("failed to generate cover letter: %w", err)
	}
	logger.Info("Cover letter generation completed successfully")
	return nil
}
