// Package wizard provides the interactive five-step export flow: export
// type, kit details and plugin dependencies, per-template metadata, image
// licensing, then validation and the final archive build. Every step writes
// its state through the store before the next one starts, so a wizard run
// can be resumed.
package wizard

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/kitpack/internal/archive"
	"github.com/conneroisu/kitpack/internal/builders"
	"github.com/conneroisu/kitpack/internal/images"
	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/logging"
	"github.com/conneroisu/kitpack/internal/registry"
	"github.com/conneroisu/kitpack/internal/store"
	"github.com/conneroisu/kitpack/internal/validate"
)

// ExportWizard drives the interactive export flow over one site store.
type ExportWizard struct {
	reader    *bufio.Reader
	store     *store.FileStore
	logger    logging.Logger
	registry  *registry.Client
	outputDir string
	settings  *kit.Settings
}

// New creates a wizard reading prompts from stdin.
func New(st *store.FileStore, logger logging.Logger, outputDir string) *ExportWizard {
	return &ExportWizard{
		reader:    bufio.NewReader(os.Stdin),
		store:     st,
		logger:    logger,
		registry:  registry.NewClient(logger),
		outputDir: outputDir,
		settings:  kit.LoadSettings(st),
	}
}

// Run executes the five wizard steps in order. A step that leaves its
// validation category non-empty stops the run.
func (w *ExportWizard) Run(ctx context.Context) error {
	fmt.Println("🧰 Template Kit Export Wizard")
	fmt.Println("=============================")
	fmt.Println("This wizard packages your templates into a distributable Template Kit.")
	fmt.Println()

	if err := w.stepExportType(); err != nil {
		return fmt.Errorf("export type step failed: %w", err)
	}
	if err := w.stepKitDetails(ctx); err != nil {
		return fmt.Errorf("kit details step failed: %w", err)
	}
	if err := w.stepTemplates(ctx); err != nil {
		return fmt.Errorf("template step failed: %w", err)
	}
	if err := w.stepImages(ctx); err != nil {
		return fmt.Errorf("image step failed: %w", err)
	}
	if err := w.stepExport(ctx); err != nil {
		return fmt.Errorf("export step failed: %w", err)
	}
	return nil
}

// Step 1: export type and page builder.
func (w *ExportWizard) stepExportType() error {
	fmt.Println("Step 1 of 5: Export Type")
	fmt.Println("------------------------")

	exportType := w.askChoice("Export type",
		[]string{string(kit.ExportTypeTemplateKit), string(kit.ExportTypeElementorKit)},
		defaultOr(string(w.settings.ExportType), string(kit.ExportTypeTemplateKit)))
	w.settings.ExportType = kit.ExportType(exportType)

	builderID := w.askChoice("Page builder",
		[]string{builders.BuilderElementor, builders.BuilderGutenberg},
		defaultOr(w.settings.PageBuilder, builders.BuilderElementor))
	w.settings.PageBuilder = builderID

	fmt.Println()
	return w.settings.Save(w.store)
}

// Step 2: kit name, version and required plugins. Re-prompts until the
// kit-level rules pass.
func (w *ExportWizard) stepKitDetails(ctx context.Context) error {
	fmt.Println("Step 2 of 5: Kit Details")
	fmt.Println("------------------------")

	for {
		w.settings.KitName = w.askString("Template Kit name", w.settings.KitName)
		w.settings.KitVersion = w.askString("Kit version", w.settings.KitVersion)

		if err := w.choosePlugins(ctx); err != nil {
			return err
		}
		if err := w.settings.Save(w.store); err != nil {
			return err
		}

		report, err := w.detect(ctx)
		if err != nil {
			return err
		}
		kitErrors := report[kit.CategoryKit]
		if len(kitErrors) == 0 {
			break
		}
		for _, msg := range kitErrors {
			fmt.Println("❌ " + msg)
		}
		fmt.Println()
	}
	fmt.Println()
	return nil
}

func (w *ExportWizard) choosePlugins(ctx context.Context) error {
	env, err := w.store.Environment()
	if err != nil {
		return err
	}
	required := map[string]bool{}
	for _, p := range w.settings.RequiredPlugins {
		required[p.Slug] = true
	}

	var chosen []kit.RequiredPlugin
	for _, option := range w.registry.EligiblePlugins(ctx, w.settings, env) {
		if !option.Allowed {
			fmt.Printf("%s: %s\n", option.Plugin.Name, option.Reason)
			continue
		}
		if w.askBool(fmt.Sprintf("Require plugin %q", option.Plugin.Name), required[option.Plugin.Slug]) {
			chosen = append(chosen, kit.RequiredPlugin{
				Slug:    option.Plugin.Slug,
				Name:    option.Plugin.Name,
				Version: option.Plugin.Version,
				Author:  option.Plugin.Author,
				File:    option.Plugin.File,
			})
		}
	}
	w.settings.RequiredPlugins = chosen
	return nil
}

// Step 3: per-template metadata.
func (w *ExportWizard) stepTemplates(ctx context.Context) error {
	fmt.Println("Step 3 of 5: Templates")
	fmt.Println("----------------------")

	b, err := builders.ForSettings(w.settings, w.store, w.logger)
	if err != nil {
		return err
	}
	templates, err := builders.NewCatalog(b, w.store, w.settings).List(false)
	if err != nil {
		return err
	}

	for i := range templates {
		t := &templates[i]
		switch t.Source {
		case kit.SourceTemplate:
			fmt.Printf("Template: %s\n", t.Name)
			values := map[string]string{}
			for _, field := range b.TemplateMetaFields() {
				values[field.Name] = w.askField(field, currentFieldValue(t.Metadata, field.Name))
			}
			if err := builders.SaveTemplateOptions(b, w.store, t.ID, builders.TemplateOptions{Fields: values}); err != nil {
				return err
			}
			fmt.Println()
		case kit.SourceLandingPage:
			// Landing pages keep their computed metadata; only the include
			// flag is user-controlled.
			values := map[string]string{}
			for _, field := range b.TemplateMetaFields() {
				values[field.Name] = currentFieldValue(t.Metadata, field.Name)
			}
			if w.askBool(fmt.Sprintf("Include landing page %q in the kit", t.Name), t.IncludeInZip) {
				values["include_in_zip"] = "1"
			} else {
				values["include_in_zip"] = ""
			}
			if err := builders.SaveTemplateOptions(b, w.store, t.ID, builders.TemplateOptions{Fields: values}); err != nil {
				return err
			}
			fmt.Println()
		default:
			// Kit styles, theme-builder items and content posts carry
			// computed metadata and are not edited here.
		}
	}

	report, err := w.detect(ctx)
	if err != nil {
		return err
	}
	if msgs := report[kit.CategoryTemplates]; len(msgs) > 0 {
		for _, msg := range msgs {
			fmt.Println("❌ " + msg)
		}
		return fmt.Errorf("%d template issue(s) found, resolve them and re-run the wizard", len(msgs))
	}
	fmt.Println()
	return nil
}

// Step 4: image licensing.
func (w *ExportWizard) stepImages(ctx context.Context) error {
	fmt.Println("Step 4 of 5: Image Licensing")
	fmt.Println("----------------------------")

	b, err := builders.ForSettings(w.settings, w.store, w.logger)
	if err != nil {
		return err
	}
	templates, err := builders.NewCatalog(b, w.store, w.settings).List(false)
	if err != nil {
		return err
	}
	extractor := &images.Extractor{Store: w.store, Trees: b}
	found, err := extractor.FindAll(templates)
	if err != nil {
		return err
	}

	for _, rec := range found.Records() {
		if licenseComplete(rec.License) {
			continue
		}
		fmt.Printf("Image: %s (%dx%d)\n", rec.FileName, rec.Dimensions[0], rec.Dimensions[1])
		values := map[string]string{}
		for _, field := range b.ImageMetaFields() {
			values[field.Name] = w.askField(field, currentLicenseValue(rec.License, field.Name))
		}
		if err := builders.SaveImageData(b, w.store, rec.ID, values); err != nil {
			return err
		}
		fmt.Println()
	}

	report, err := w.detect(ctx)
	if err != nil {
		return err
	}
	if msgs := report[kit.CategoryImages]; len(msgs) > 0 {
		for _, msg := range msgs {
			fmt.Println("❌ " + msg)
		}
		return fmt.Errorf("%d image issue(s) found, resolve them and re-run the wizard", len(msgs))
	}
	fmt.Println()
	return nil
}

// Step 5: validate everything, then build the archive. The build is only
// reachable with an empty report.
func (w *ExportWizard) stepExport(ctx context.Context) error {
	fmt.Println("Step 5 of 5: Export")
	fmt.Println("-------------------")

	report, err := w.detect(ctx)
	if err != nil {
		return err
	}
	if !report.Empty() {
		for _, cat := range kit.Categories {
			for _, msg := range report[cat] {
				fmt.Println("❌ " + msg)
			}
		}
		return fmt.Errorf("%d issue(s) found, export refused", report.Count())
	}

	if !w.askBool("Build the export ZIP now", true) {
		return nil
	}

	b, err := builders.ForSettings(w.settings, w.store, w.logger)
	if err != nil {
		return err
	}
	templates, err := builders.NewCatalog(b, w.store, w.settings).List(false)
	if err != nil {
		return err
	}
	extractor := &images.Extractor{Store: w.store, Trees: b}
	found, err := extractor.FindAll(templates)
	if err != nil {
		return err
	}

	packager := &archive.Packager{Builder: b, Logger: w.logger}
	result, err := packager.BuildZip(ctx, w.settings, templates, recordValues(found))
	if err != nil {
		return err
	}
	outPath := filepath.Join(w.outputDir, result.Filename)
	if err := os.WriteFile(outPath, result.Data, 0o644); err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("✅ Export complete: %s (%d bytes)\n", outPath, len(result.Data))
	return nil
}

// detect runs the full rule set against the current store state.
func (w *ExportWizard) detect(ctx context.Context) (kit.Report, error) {
	b, err := builders.ForSettings(w.settings, w.store, w.logger)
	if err != nil {
		return nil, err
	}
	templates, err := builders.NewCatalog(b, w.store, w.settings).List(false)
	if err != nil {
		return nil, err
	}
	validator := &validate.Validator{
		Settings:    w.settings,
		Screenshots: b,
		Structural:  b,
		Images:      &images.Extractor{Store: w.store, Trees: b},
	}
	return validator.Detect(templates)
}

// recordValues flattens an image set for the packager.
func recordValues(set *images.Set) []kit.ImageRecord {
	records := set.Records()
	out := make([]kit.ImageRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, *rec)
	}
	return out
}

// askField prompts for one declared wizard field.
func (w *ExportWizard) askField(field kit.FieldSpec, current string) string {
	switch field.Type {
	case kit.FieldTypeCheckbox:
		if w.askBool(field.Label, current == "true" || current == "1") {
			return "1"
		}
		return ""
	case kit.FieldTypeSelect:
		var choices []string
		for _, opt := range field.Options {
			if len(opt.Children) > 0 {
				for _, child := range opt.Children {
					choices = append(choices, child.Value)
				}
				continue
			}
			if opt.Value != "" {
				choices = append(choices, opt.Value)
			}
		}
		return w.askChoice(field.Label, choices, current)
	default:
		return w.askString(field.Label, current)
	}
}

// licenseComplete reports whether an image's licensing metadata would pass
// the image rules without further input. Auto-tagged licensed images still
// lack a person-or-place answer and must be prompted.
func licenseComplete(l kit.ImageLicense) bool {
	if l.ImageSource == "" || l.ImageSource == kit.ImageSourceUnsure || l.PersonOrPlace == "" {
		return false
	}
	if (l.ImageSource == kit.ImageSourceLicensed || l.ImageSource == kit.ImageSourceCC0) && l.ImageURLs == "" {
		return false
	}
	return true
}

func currentLicenseValue(l kit.ImageLicense, name string) string {
	switch name {
	case "image_source":
		return l.ImageSource
	case "person_or_place":
		return l.PersonOrPlace
	case "image_urls":
		return l.ImageURLs
	}
	return ""
}

func currentFieldValue(meta kit.TemplateMeta, name string) string {
	switch name {
	case "template_type":
		return meta.TemplateType
	case "include_in_zip":
		if meta.IncludeInZip {
			return "1"
		}
	case "elementor_pro_required":
		if meta.ProRequired {
			return "1"
		}
	}
	return ""
}

func defaultOr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func (w *ExportWizard) askString(prompt, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Printf("%s: ", prompt)
	}

	input, err := w.reader.ReadString('\n')
	if err != nil {
		return defaultValue
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue
	}
	return input
}

func (w *ExportWizard) askBool(prompt string, defaultValue bool) bool {
	defaultStr := "n"
	if defaultValue {
		defaultStr = "y"
	}

	fmt.Printf("%s [%s]: ", prompt, defaultStr)

	input, err := w.reader.ReadString('\n')
	if err != nil {
		return defaultValue
	}

	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return defaultValue
	}
	return input == "y" || input == "yes" || input == "true"
}

func (w *ExportWizard) askChoice(prompt string, choices []string, defaultValue string) string {
	for {
		fmt.Printf("%s [%s] (options: %s): ", prompt, defaultValue, strings.Join(choices, ", "))

		input, err := w.reader.ReadString('\n')
		if err != nil {
			return defaultValue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			return defaultValue
		}
		for _, choice := range choices {
			if input == choice {
				return input
			}
		}
		fmt.Printf("❌ Invalid choice. Please pick one of: %s\n", strings.Join(choices, ", "))
	}
}
