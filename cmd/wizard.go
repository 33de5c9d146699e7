package cmd

import (
	"github.com/spf13/cobra"

	"github.com/conneroisu/kitpack/internal/wizard"
)

var wizardCmd = &cobra.Command{
	Use:     "wizard",
	Aliases: []string{"w"},
	Short:   "Run the interactive five-step export wizard",
	Long: `Walk through the full export flow interactively: export type, kit
details and plugin dependencies, per-template metadata, image licensing,
then validation and the final archive build. Every step persists its state,
so an interrupted run picks up where it left off.`,
	RunE: runWizard,
}

var wizardFlags *StandardFlags

func init() {
	rootCmd.AddCommand(wizardCmd)
	wizardFlags = AddStandardFlags(wizardCmd, "export")
}

func runWizard(cmd *cobra.Command, args []string) error {
	r, err := newRuntime()
	if err != nil {
		return err
	}
	return wizard.New(r.store, r.logger, wizardFlags.OutputDir).Run(cmd.Context())
}
