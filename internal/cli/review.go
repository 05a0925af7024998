package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"cvwizard/internal/common"
	"cvwizard/internal/types"
	"cvwizard/internal/wizard"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review a CV and cover letter against a job description",
	Long: `Score a CV, and optionally a cover letter, against a job description.

With --session the conversation is kept in a file: the first run creates it
and later runs continue it, so the model compares the revised materials with
its previous review.`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

var (
	reviewConfig      common.CommandConfig
	reviewFlags       applicationFlags
	reviewCoverLetter string
	reviewSession     string
)

func init() {
	addOutputFlags(reviewCmd, &reviewConfig)
	reviewFlags.register(reviewCmd, true)
	reviewCmd.Flags().StringVar(&reviewCoverLetter, "cover-letter", "", "Cover letter as JSON or plain text")
	reviewCmd.Flags().StringVar(&reviewSession, "session", "", "Session file, read if present and written after the review")
}

type reviewInput struct {
	applicationInput
	coverLetter string
	session     wizard.ReviewSession
}

func runReview(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())
	apiKey, connect, opts := wizardSetup(cmd.Context())
	reviewer := wizard.NewReviewer(apiKey, connect, opts...)
	sessionFiles := common.NewFileProcessor(logger, 0)

	loadInput := func(fp *common.FileProcessor) (reviewInput, error) {
		var in reviewInput
		var err error
		if in.applicationInput, err = reviewFlags.load(fp, true); err != nil {
			return in, err
		}
		letter, err := loadCoverLetter(fp, reviewCoverLetter)
		if err != nil {
			return in, err
		}
		if letter != nil {
			in.coverLetter = letter.Text()
		}
		// A missing session file starts a new review
		var raw json.RawMessage
		if _, err := fp.ReadOptionalJSON(reviewSession, &raw); err != nil {
			return in, err
		}
		if in.session, err = wizard.UnmarshalSession(raw); err != nil {
			return in, err
		}
		return in, nil
	}

	logDetails := func(in reviewInput, cfg common.CommandConfig) {
		logger.Info("Starting application review",
			"review_number", in.session.ReviewCount+1,
			"cover_letter", in.coverLetter != "",
			"output_format", cfg.OutputFormat)
	}

	var saved wizard.ReviewSession
	reviewOperation := func(ctx context.Context, in reviewInput) (types.AIReviewResult, error) {
		result, next, err := reviewer.ReviewApplicationMaterials(ctx, in.cv, in.job, in.coverLetter, in.session)
		if err != nil {
			return types.AIReviewResult{}, err
		}
		saved = next
		return result, nil
	}

	if err := common.RunWizardCommand(cmd.Context(), logger, reviewConfig, loadInput, reviewOperation, logDetails); err != nil {
		return fmt.Errorf("failed to review application: %w", err)
	}

	if reviewSession != "" {
		data, err := wizard.MarshalSession(saved)
		if err != nil {
			return fmt.Errorf("failed to encode review session: %w", err)
		}
		if err := sessionFiles.WriteFile(reviewSession, string(data)); err != nil {
			return err
		}
		logger.Info("Review session saved", "file", reviewSession, "reviews", saved.ReviewCount)
	}
	logger.Info("Application review completed successfully")
	return nil
}
