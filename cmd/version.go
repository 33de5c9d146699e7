package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	goruntime "runtime"

	"github.com/spf13/cobra"

	"github.com/conneroisu/kitpack/internal/version"
)

var (
	versionFormat string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for kitpack including:

- Semantic version number (also written into manifest.json)
- Git commit hash
- Go version used for compilation
- Target platform (OS/architecture)

Examples:
  kitpack version              # Show version line
  kitpack version --short      # Show version number only
  kitpack version --format json # Output as JSON`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	switch versionFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{
			"version":    version.Version,
			"git_commit": version.GitCommit,
			"go_version": goruntime.Version(),
			"platform":   goruntime.GOOS + "/" + goruntime.GOARCH,
		})
	case "text":
		if versionShort {
			fmt.Println(version.Version)
			return nil
		}
		fmt.Println(version.String())
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", versionFormat)
	}
}
