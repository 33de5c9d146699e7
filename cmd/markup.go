package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/kitpack/internal/markup"
)

var markupCmd = &cobra.Command{
	Use:   "markup",
	Short: "Generate item-page attribution markup for licensed images",
	Long: `Generate the attribution block to paste onto the marketplace item page,
listing every Envato Elements image the kit uses.

Examples:
  kitpack markup                        # HTML list for ThemeForest
  kitpack markup --market elements      # Plain text for Elements`,
	RunE: runMarkup,
}

var markupMarket string

func init() {
	rootCmd.AddCommand(markupCmd)

	markupCmd.Flags().
		StringVar(&markupMarket, "market", markup.MarketThemeForest, "Target market (elements|themeforest)")
}

func runMarkup(cmd *cobra.Command, args []string) error {
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
	fmt.Print(markup.ItemPage(markupMarket, imageRecords(found)))
	fmt.Println()
	return nil
}
