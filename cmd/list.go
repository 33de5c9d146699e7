package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List all templates in the kit",
	Long: `List every template the catalog enumerates, with its source, sort order,
archive path and whether it is included in the export ZIP.

Examples:
  kitpack list                    # List all templates in table format
  kitpack list -f json            # Output as JSON (short flag)
  kitpack list --included         # Only templates included in the ZIP
  kitpack list -f yaml --included # Included templates as YAML`,
	RunE: runList,
}

var (
	listFlags    *StandardFlags
	listIncluded bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddStandardFlags(listCmd, "output")

	listCmd.Flags().
		BoolVar(&listIncluded, "included", false, "Only list templates included in the export ZIP")

	AddFlagValidation(listCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{"table", "json", "yaml"})
	})
}

// listEntry is the output row for one template.
type listEntry struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Source   string `json:"source" yaml:"source"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Order    int    `json:"order" yaml:"order"`
	ZipFile  string `json:"zip_filename" yaml:"zip_filename"`
	Included bool   `json:"include_in_zip" yaml:"include_in_zip"`
}

func runList(cmd *cobra.Command, args []string) error {
	if err := listFlags.ValidateFlags(); err != nil {
		return err
	}
	r, err := newRuntime()
	if err != nil {
		return err
	}
	b, err := r.builder()
	if err != nil {
		return err
	}
	templates, err := r.catalog(b).List(listIncluded)
	if err != nil {
		return err
	}

	entries := make([]listEntry, 0, len(templates))
	for _, t := range templates {
		entries = append(entries, listEntry{
			ID:       t.ID,
			Name:     t.Name,
			Source:   string(t.Source),
			Type:     t.Metadata.TemplateType,
			Order:    t.Order,
			ZipFile:  t.ZipFileName,
			Included: t.IncludeInZip,
		})
	}
	return writeOutput(listFlags.OutputFormat, entries, func() {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSOURCE\tTYPE\tORDER\tZIP FILE\tINCLUDED")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%v\n",
				e.ID, e.Name, e.Source, e.Type, e.Order, e.ZipFile, e.Included)
		}
		w.Flush()
		if !listFlags.Quiet {
			fmt.Printf("\n%d template(s)\n", len(entries))
		}
	})
}

// writeOutput renders a value as JSON, YAML or via the table callback.
func writeOutput(format string, v interface{}, table func()) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		table()
		return nil
	}
}
