package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvwizard/internal/errors"
)

func TestValidateOutputFormat(t *testing.T) {
	allowed := []string{"json", "text", "markdown"}

	tests := []struct {
		name    string
		format  string
		allowed []string
		wantErr string
	}{
		{name: "allowed", format: "markdown", allowed: allowed},
		{name: "unknown", format: "xml", allowed: allowed, wantErr: `unsupported output format "xml" (choose from json, text, markdown)`},
		{name: "case sensitive", format: "JSON", allowed: allowed, wantErr: `"JSON"`},
		{name: "empty", format: "", allowed: allowed, wantErr: `""`},
		{name: "no allow-list", format: "xml"},
		{name: "narrow allow-list", format: "text", allowed: []string{"json"}, wantErr: "choose from json)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.allowed)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestResolveOutputFormat(t *testing.T) {
	allowed := []string{"json", "text", "markdown"}

	tests := []struct {
		name          string
		flag          string
		defaultFormat string
		want          string
		wantErr       bool
	}{
		{name: "flag wins", flag: "markdown", defaultFormat: "text", want: "markdown"},
		{name: "configured default", defaultFormat: "text", want: "text"},
		{name: "json when nothing is set", want: "json"},
		{name: "unsupported flag", flag: "yaml", want: "yaml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveOutputFormat(tt.flag, tt.defaultFormat, allowed)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestGetSupportedFormats(t *testing.T) {
	assert.Equal(t, []string{"json"}, GetSupportedFormats([]string{"json"}))
	assert.ElementsMatch(t, []string{"json", "text", "markdown"}, GetSupportedFormats(nil))
}
