package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var imagesCmd = &cobra.Command{
	Use:     "images",
	Aliases: []string{"i"},
	Short:   "List all images referenced by kit templates",
	Long: `Walk every template's builder tree and list the distinct images it
references, with file details, licensing metadata and the templates each
image appears on.

Examples:
  kitpack images                  # List images in table format
  kitpack images -f json          # Output as JSON
  kitpack images --unlicensed     # Only images still missing licensing data`,
	RunE: runImages,
}

var (
	imagesFlags      *StandardFlags
	imagesUnlicensed bool
)

func init() {
	rootCmd.AddCommand(imagesCmd)

	imagesFlags = AddStandardFlags(imagesCmd, "output")

	imagesCmd.Flags().
		BoolVar(&imagesUnlicensed, "unlicensed", false, "Only list images missing licensing metadata")

	AddFlagValidation(imagesCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{"table", "json", "yaml"})
	})
}

// imageEntry is the output row for one image.
type imageEntry struct {
	ID            int64    `json:"id" yaml:"id"`
	FileName      string   `json:"filename" yaml:"filename"`
	FileSize      int64    `json:"filesize" yaml:"filesize"`
	Dimensions    [2]int   `json:"dimensions" yaml:"dimensions"`
	ImageSource   string   `json:"image_source,omitempty" yaml:"image_source,omitempty"`
	PersonOrPlace string   `json:"person_or_place,omitempty" yaml:"person_or_place,omitempty"`
	ImageURLs     string   `json:"image_urls,omitempty" yaml:"image_urls,omitempty"`
	UsedOn        []string `json:"used_on" yaml:"used_on"`
}

func runImages(cmd *cobra.Command, args []string) error {
	if err := imagesFlags.ValidateFlags(); err != nil {
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
	templates, err := r.catalog(b).List(false)
	if err != nil {
		return err
	}
	found, err := r.extractor(b).FindAll(templates)
	if err != nil {
		return err
	}

	var entries []imageEntry
	for _, rec := range found.Records() {
		if imagesUnlicensed && rec.License.ImageSource != "" {
			continue
		}
		var usedOn []string
		for i := range templates {
			if name, ok := rec.UsedOn[templates[i].ID]; ok {
				usedOn = append(usedOn, name)
			}
		}
		entries = append(entries, imageEntry{
			ID:            rec.ID,
			FileName:      rec.FileName,
			FileSize:      rec.FileSize,
			Dimensions:    rec.Dimensions,
			ImageSource:   rec.License.ImageSource,
			PersonOrPlace: rec.License.PersonOrPlace,
			ImageURLs:     rec.License.ImageURLs,
			UsedOn:        usedOn,
		})
	}
	return writeOutput(imagesFlags.OutputFormat, entries, func() {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFILE\tSIZE\tDIMENSIONS\tSOURCE\tUSED ON")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%d\t%dx%d\t%s\t%s\n",
				e.ID, e.FileName, e.FileSize, e.Dimensions[0], e.Dimensions[1],
				e.ImageSource, strings.Join(e.UsedOn, ", "))
		}
		w.Flush()
		if !imagesFlags.Quiet {
			fmt.Printf("\n%d image(s)\n", len(entries))
		}
	})
}
