package cli

import (
	"context"

	"cvwizard/internal/common"
	"cvwizard/internal/config"
	"cvwizard/internal/errors"
	"cvwizard/internal/normalize"
	"cvwizard/internal/wizard"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// runEnv is what every subcommand needs from main.
type runEnv struct {
	cfg    *config.Config
	logger *errors.Logger
}

type runEnvKey struct{}

var rootCmd = &cobra.Command{
	Use:   "cvwizard",
	Short: "Build, tailor and review a CV with Gemini",
	Long: `cvwizard turns CV documents and profile exports into a structured CV,
tailors it to a job description, writes cover letters and reviews the
application materials. Every AI command needs a Gemini API key, taken from
the configuration, CVWIZARD_AI_APIKEY or GEMINI_API_KEY.`,
	SilenceUsage: true,
}

// Execute runs the command line with cfg and logger available to every
// subcommand. All log lines of one invocation share a run_id.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	rootCmd.SetContext(withRunEnv(ctx, cfg, logger.With("run_id", uuid.NewString())))
	return rootCmd.Execute()
}

func withRunEnv(ctx context.Context, cfg *config.Config, logger *errors.Logger) context.Context {
	return context.WithValue(ctx, runEnvKey{}, runEnv{cfg: cfg, logger: logger})
}

func runEnvFrom(ctx context.Context) runEnv {
	s, ok := ctx.Value(runEnvKey{}).(runEnv)
	if !ok {
		panic("cli: command run without Execute")
	}
	return s
}

func getConfigFromContext(ctx context.Context) *config.Config { return runEnvFrom(ctx).cfg }

func getLoggerFromContext(ctx context.Context) *errors.Logger { return runEnvFrom(ctx).logger }

// addOutputFlags registers -o and --format and resolves the format against
// the configuration before the command runs.
func addOutputFlags(cmd *cobra.Command, cc *common.CommandConfig) {
	cmd.Flags().StringVarP(&cc.OutputFile, "output", "o", "", "Write the result to this file instead of stdout")
	cmd.Flags().StringVar(&cc.OutputFormat, "format", "", "Result format (json, text, markdown); defaults to app.defaultFormat")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})

	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		cfg := getConfigFromContext(cmd.Context())
		format, err := common.ResolveOutputFormat(cc.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
		if err != nil {
			return err
		}
		cc.OutputFormat = format
		cc.MaxFileSize = cfg.App.MaxFileSize
		return nil
	}
}

// wizardSetup returns what every orchestrator constructor takes: the Gemini
// key, a connector and the shared options.
func wizardSetup(ctx context.Context) (string, wizard.Connector, []wizard.Option) {
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)
	opts := []wizard.Option{
		wizard.WithLogger(logger),
		wizard.WithPlaceholderIdentity(cfg.App.AllowPlaceholderIdentity),
	}
	return cfg.APIKey(), wizard.GeminiConnector(cfg, logger), opts
}

// logReport surfaces what normalization had to fill in or could not find.
func logReport(logger *errors.Logger, report normalize.Report) {
	if report.HasPlaceholders() {
		logger.Warn("CV uses placeholder identity, replace before sending", "fields", report.Defaulted)
	}
	if len(report.Missing) > 0 {
		logger.Info("CV fields missing from the model output", "fields", report.Missing)
	}
	if len(report.Coerced) > 0 {
		logger.Debug("CV fields coerced to the expected shape", "fields", report.Coerced)
	}
}

func init() {
	rootCmd.AddCommand(
		extractCmd, importCmd,
		enhanceCmd, coverLetterCmd,
		reviewCmd, modifyCmd, parseJobCmd,
		serveCmd, versionCmd,
	)
}
