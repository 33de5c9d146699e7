package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:     "validate",
	Aliases: []string{"v"},
	Short:   "Run the compliance validator over the kit",
	Long: `Run every compliance rule against the kit: kit-level settings checks,
template-level checks (count, screenshots, builder structural rules) and
image licensing checks. The report is grouped by category.

Examples:
  kitpack validate                # Print the report in table format
  kitpack validate -f json        # Output as JSON
  kitpack validate --watch        # Re-validate whenever the store changes`,
	RunE: runValidate,
}

var (
	validateFlags *StandardFlags
	validateWatch bool
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateFlags = AddStandardFlags(validateCmd, "output")

	validateCmd.Flags().
		BoolVarP(&validateWatch, "watch", "w", false, "Re-run validation when the site store changes")

	AddFlagValidation(validateCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{"table", "json", "yaml"})
	})
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := validateFlags.ValidateFlags(); err != nil {
		return err
	}
	if err := validateOnce(); err != nil {
		return err
	}
	if !validateWatch {
		return nil
	}
	return watchAndValidate()
}

// validateOnce wires a fresh pipeline and prints the report. The runtime is
// rebuilt per run so watch mode sees store changes.
func validateOnce() error {
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
	validator := &validate.Validator{
		Settings:    r.settings,
		Screenshots: b,
		Structural:  b,
		Images:      r.extractor(b),
	}
	report, err := validator.Detect(templates)
	if err != nil {
		return err
	}
	return writeOutput(validateFlags.OutputFormat, report, func() {
		if report.Empty() {
			fmt.Println("✅ No issues found")
			return
		}
		for _, cat := range kit.Categories {
			msgs := report[cat]
			if len(msgs) == 0 {
				continue
			}
			fmt.Printf("%s:\n", cat)
			for _, msg := range msgs {
				fmt.Printf("  ❌ %s\n", msg)
			}
		}
		fmt.Printf("\n%d issue(s) found\n", report.Count())
	})
}

// watchAndValidate re-runs validation whenever the backing store file
// changes, debounced so editor write bursts trigger one run.
func watchAndValidate() error {
	r, err := newRuntime()
	if err != nil {
		return err
	}
	storePath, err := filepath.Abs(r.store.Path())
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors replace files on save, which drops a
	// watch held on the file itself.
	if err := watcher.Add(filepath.Dir(storePath)); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Watching %s for changes...\n", storePath)

	const debounce = 300 * time.Millisecond
	var timer *time.Timer
	runs := make(chan struct{}, 1)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != storePath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case runs <- struct{}{}:
				default:
				}
			})
		case <-runs:
			fmt.Fprintln(os.Stderr, "Store changed, re-validating...")
			if err := validateOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "validation failed: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
