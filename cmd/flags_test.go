package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddStandardFlags(t *testing.T) {
	c := &cobra.Command{Use: "test"}
	flags := AddStandardFlags(c, "output", "export")

	assert.NotNil(t, c.Flags().Lookup("format"))
	assert.NotNil(t, c.Flags().Lookup("verbose"))
	assert.NotNil(t, c.Flags().Lookup("quiet"))
	assert.NotNil(t, c.Flags().Lookup("output-dir"))
	assert.Equal(t, "table", flags.OutputFormat)
	assert.Equal(t, ".", flags.OutputDir)
}

func TestValidateFlags(t *testing.T) {
	flags := &StandardFlags{OutputFormat: "json"}
	assert.NoError(t, flags.ValidateFlags())

	flags.OutputFormat = "xml"
	assert.Error(t, flags.ValidateFlags())

	flags = &StandardFlags{OutputFormat: "table", Quiet: true, Verbose: true}
	err := flags.ValidateFlags()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--quiet and --verbose")
}

func TestAddFlagValidationRejectsBadValues(t *testing.T) {
	c := &cobra.Command{Use: "test"}
	AddStandardFlags(c, "output")
	AddFlagValidation(c, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{"table", "json", "yaml"})
	})

	assert.NoError(t, c.Flags().Set("format", "json"))
	assert.Error(t, c.Flags().Set("format", "xml"))
}

func TestValidateFormatWithSuggestion(t *testing.T) {
	valid := []string{"table", "json", "yaml"}

	assert.NoError(t, ValidateFormatWithSuggestion("json", valid))

	err := ValidateFormatWithSuggestion("js", valid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "json"`)

	err = ValidateFormatWithSuggestion("xml", valid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")
}
