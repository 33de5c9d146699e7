package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conneroisu/kitpack/internal/archive"
	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/validate"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"e"},
	Short:   "Validate the kit and build the export ZIP",
	Long: `Run the full compliance validator and, only if the report is empty,
build the Template Kit ZIP archive. A kit with outstanding issues is
refused; fix the reported problems (or run the wizard) first.

Examples:
  kitpack export                      # Build into the current directory
  kitpack export --output-dir dist    # Build into dist/`,
	RunE: runExport,
}

var exportFlags *StandardFlags

func init() {
	rootCmd.AddCommand(exportCmd)
	exportFlags = AddStandardFlags(exportCmd, "export")
}

func runExport(cmd *cobra.Command, args []string) error {
	r, err := newRuntime()
	if err != nil {
		return err
	}
	b, err := r.builder()
	if err != nil {
		return err
	}
	templates, err := r.catalog(b).List(false)
	if err != nil {
		return err
	}
	extractor := r.extractor(b)

	// Export is only reachable with a clean report, so validate again here
	// rather than trusting whoever called us.
	validator := &validate.Validator{
		Settings:    r.settings,
		Screenshots: b,
		Structural:  b,
		Images:      extractor,
	}
	report, err := validator.Detect(templates)
	if err != nil {
		return err
	}
	if !report.Empty() {
		for _, cat := range kit.Categories {
			for _, msg := range report[cat] {
				fmt.Printf("❌ %s\n", msg)
			}
		}
		return fmt.Errorf("%d issue(s) found, export refused", report.Count())
	}

	found, err := extractor.FindAll(templates)
	if err != nil {
		return err
	}
	packager := &archive.Packager{Builder: b, Logger: r.logger}
	result, err := packager.BuildZip(cmd.Context(), r.settings, templates, imageRecords(found))
	if err != nil {
		return err
	}

	outPath := filepath.Join(exportFlags.OutputDir, result.Filename)
	if err := os.WriteFile(outPath, result.Data, 0o644); err != nil {
		return err
	}
	fmt.Printf("✅ Export complete: %s (%d bytes)\n", outPath, len(result.Data))
	return nil
}
