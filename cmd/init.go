package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a starter site store and configuration file",
	Long: `Create a .kitpack.yml configuration file and a site.json store in the
given directory (default: current directory).

By default the store is seeded with three sample templates, screenshots and
a demo image, so every command has something to work on right away.

Examples:
  kitpack init                 # Initialize in the current directory
  kitpack init demo-site       # Initialize in a new 'demo-site' directory
  kitpack init --minimal       # Empty store, no sample content`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var (
	initMinimal bool
	initForce   bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initMinimal, "minimal", false, "Empty store, no sample content")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}

	storePath := filepath.Join(dir, "site.json")
	configPath := filepath.Join(dir, ".kitpack.yml")
	for _, path := range []string{storePath, configPath} {
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	configBody := "store:\n  path: site.json\nlogging:\n  level: info\n  format: text\nexport:\n  output_dir: .\n"
	if err := os.WriteFile(configPath, []byte(configBody), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	// OpenFileStore would happily load an existing store, so clear it when
	// overwriting.
	if initForce {
		os.Remove(storePath)
	}
	st, err := store.OpenFileStore(storePath)
	if err != nil {
		return err
	}
	if initMinimal {
		if err := st.Set(kit.OptionKitVersion, kit.DefaultKitVersion); err != nil {
			return err
		}
	} else if err := seedDemoSite(st, dir); err != nil {
		return err
	}

	fmt.Printf("✅ Initialized template kit workspace in %s\n", dir)
	fmt.Println("Next steps:")
	fmt.Println("  kitpack wizard    # Walk through kit setup, validation and export")
	fmt.Println("  kitpack list      # See the templates in the store")
	return nil
}

// seedDemoSite fills a fresh store with enough content to exercise every
// command: three templates with builder data and screenshots, and one
// shared demo image.
func seedDemoSite(st *store.FileStore, dir string) error {
	uploads := filepath.Join(dir, "uploads")
	if err := os.MkdirAll(uploads, 0o755); err != nil {
		return err
	}

	writeDemoPNG := func(name string, c color.RGBA) error {
		img := image.NewRGBA(image.Rect(0, 0, 32, 32))
		for y := 0; y < 32; y++ {
			for x := 0; x < 32; x++ {
				img.Set(x, y, c)
			}
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(uploads, name), buf.Bytes(), 0o644)
	}

	type attachment struct {
		id   int64
		name string
		tint color.RGBA
	}
	attachments := []attachment{
		{100, "demo-hero.png", color.RGBA{R: 0x4c, G: 0x8c, B: 0xff, A: 0xff}},
		{201, "shot-home.png", color.RGBA{R: 0xff, G: 0xd6, B: 0x4c, A: 0xff}},
		{202, "shot-about.png", color.RGBA{R: 0x4c, G: 0xff, B: 0x8c, A: 0xff}},
		{203, "shot-contact.png", color.RGBA{R: 0xff, G: 0x4c, B: 0x8c, A: 0xff}},
	}
	for _, att := range attachments {
		if err := writeDemoPNG(att.name, att.tint); err != nil {
			return err
		}
		if err := st.AddAttachment(&store.Attachment{
			ID:       att.id,
			File:     filepath.Join("uploads", att.name),
			URL:      "https://example.com/uploads/" + att.name,
			Width:    32,
			Height:   32,
			FileSize: 256,
		}); err != nil {
			return err
		}
	}

	templates := []struct {
		id           int64
		title        string
		templateType string
		thumbnail    int64
	}{
		{1, "Home", "single-home", 201},
		{2, "About Us", "single-page", 202},
		{3, "Contact", "single-page", 203},
	}
	const builderData = `[{"elType": "section", "elements": [{"elType": "widget", "widgetType": "image", "settings": {"image": {"id": 100, "url": "https://example.com/uploads/demo-hero.png"}}}]}]`
	for order, tmpl := range templates {
		doc := &store.Document{
			ID:        tmpl.id,
			Title:     tmpl.title,
			Type:      store.TypeKitTemplate,
			MenuOrder: order,
			Meta:      map[string]json.RawMessage{},
		}
		metaRaw, err := json.Marshal(kit.TemplateMeta{TemplateType: tmpl.templateType, IncludeInZip: true})
		if err != nil {
			return err
		}
		dataRaw, err := json.Marshal(builderData)
		if err != nil {
			return err
		}
		thumbRaw, err := json.Marshal(tmpl.thumbnail)
		if err != nil {
			return err
		}
		doc.Meta[store.MetaTemplateKit] = metaRaw
		doc.Meta[store.MetaElementorData] = dataRaw
		doc.Meta[store.MetaThumbnailID] = thumbRaw
		if err := st.AddDocument(doc); err != nil {
			return err
		}
	}

	settings := &kit.Settings{
		KitName:     "Demo Template Kit",
		KitVersion:  kit.DefaultKitVersion,
		ExportType:  kit.ExportTypeTemplateKit,
		PageBuilder: "elementor",
		RequiredPlugins: []kit.RequiredPlugin{
			{Slug: "elementor", Name: "Elementor", File: "elementor/elementor.php"},
		},
	}
	return settings.Save(st)
}
