package cli

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvwizard/internal/common"
	"cvwizard/internal/config"
	"cvwizard/internal/errors"
)

func TestOutputFlagsResolveFormat(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.DefaultFormat = "markdown"
	cfg.App.SupportedFormats = []string{"json", "markdown"}
	cfg.App.MaxFileSize = 1024

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"configured default", []string{}, "markdown", false},
		{"flag", []string{"--format", "json"}, "json", false},
		{"not allowed", []string{"--format", "text"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cc common.CommandConfig
			cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
			addOutputFlags(cmd, &cc)
			cmd.SetArgs(tt.args)

			err := cmd.ExecuteContext(withRunEnv(context.Background(), cfg, errors.Discard()))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cc.OutputFormat)
			assert.Equal(t, int64(1024), cc.MaxFileSize)
		})
	}
}

func TestRunEnvFromPanicsOutsideExecute(t *testing.T) {
	assert.Panics(t, func() { runEnvFrom(context.Background()) })
}
