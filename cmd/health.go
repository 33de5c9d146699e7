package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/kitpack/internal/builders"
	kiterrors "github.com/conneroisu/kitpack/internal/errors"
	"github.com/conneroisu/kitpack/internal/health"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the site environment before exporting",
	Long: `Run the pre-export environment checks: the site must be publicly
reachable, WordPress core and plugins up to date, and the chosen page
builder's required stack installed.`,
	RunE: runHealth,
}

var healthFlags *StandardFlags

func init() {
	rootCmd.AddCommand(healthCmd)
	healthFlags = AddStandardFlags(healthCmd, "output")
}

func runHealth(cmd *cobra.Command, args []string) error {
	if err := healthFlags.ValidateFlags(); err != nil {
		return err
	}
	r, err := newRuntime()
	if err != nil {
		return err
	}
	env, err := r.store.Environment()
	if err != nil {
		return err
	}

	// A missing builder choice is reported as a finding, not a failure.
	var b builders.Builder
	if chosen, err := r.builder(); err == nil {
		b = chosen
	} else if !kiterrors.IsConfigError(err) {
		return err
	}

	report, err := health.Check(env, b)
	if err != nil {
		return err
	}
	return writeOutput(healthFlags.OutputFormat, report, func() {
		for _, msg := range report.Successes {
			fmt.Printf("✅ %s\n", msg)
		}
		for _, msg := range report.Errors {
			fmt.Printf("❌ %s\n", msg)
		}
		if len(report.Errors) == 0 {
			fmt.Println("\nSite health looks good")
		} else {
			fmt.Printf("\n%d health issue(s) found\n", len(report.Errors))
		}
	})
}
