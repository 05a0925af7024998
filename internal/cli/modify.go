package cli

import (
	"context"
	"fmt"

	"cvwizard/internal/common"
	"cvwizard/internal/types"
	"cvwizard/internal/wizard"

	"github.com/spf13/cobra"
)

var modifyCmd = &cobra.Command{
	Use:   "modify",
	Short: "Apply a free-text change to a CV or cover letter",
	Long: `Apply a change request such as "make my summary shorter" to a CV and,
when --cover-letter is given, to the letter. A request the model cannot act
on is reported with an explanation; the inputs are never changed in place.`,
	Args: cobra.NoArgs,
	RunE: runModify,
}

var (
	modifyConfig      common.CommandConfig
	modifyFlags       applicationFlags
	modifyCoverLetter string
	modifyPrompt      string
)

func init() {
	addOutputFlags(modifyCmd, &modifyConfig)
	modifyFlags.register(modifyCmd, true)
	modifyCmd.Flags().StringVar(&modifyCoverLetter, "cover-letter", "", "Cover letter as JSON or plain text")
	modifyCmd.Flags().StringVarP(&modifyPrompt, "prompt", "p", "", "The change to make")
	_ = modifyCmd.MarkFlagRequired("prompt")
}

type modifyInput struct {
	applicationInput
	coverLetter *types.CoverLetter
}

func runModify(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())
	apiKey, connect, opts := wizardSetup(cmd.Context())
	modifier := wizard.NewModifier(apiKey, connect, opts...)

	loadInput := func(fp *common.FileProcessor) (modifyInput, error) {
		var in modifyInput
		var err error
		if in.applicationInput, err = modifyFlags.load(fp, true); err != nil {
			return in, err
		}
		in.coverLetter, err = loadCoverLetter(fp, modifyCoverLetter)
		return in, err
	}

	logDetails := func(in modifyInput, cfg common.CommandConfig) {
		logger.Info("Starting modification",
			"request_chars", len(modifyPrompt),
			"cover_letter", in.coverLetter != nil,
			"output_format", cfg.OutputFormat)
	}

	modifyOperation := func(ctx context.Context, in modifyInput) (types.ModificationResult, error) {
		result, err := modifier.Modify(ctx, modifyPrompt, in.cv, in.coverLetter, in.job, in.files)
		if err != nil {
			return types.ModificationResult{}, err
		}
		if !result.Success {
			logger.Warn("Modification request was not applied", "reason", result.Message)
		}
		return result, nil
	}

	if err := common.RunWizardCommand(cmd.Context(), logger, modifyConfig, loadInput, modifyOperation, logDetails); err != nil {
		return fmt.Errorf("failed to modify: %w", err)
	}
	logger.Info("Modification completed")
	return nil
}
