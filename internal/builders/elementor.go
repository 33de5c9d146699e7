package builders

import (
	"embed"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/kitpack/internal/catalog"
	kiterrors "github.com/conneroisu/kitpack/internal/errors"
	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/logging"
	"github.com/conneroisu/kitpack/internal/store"
	"github.com/conneroisu/kitpack/internal/tree"
)

//go:embed assets/elementor
var elementorAssets embed.FS

// elementorDataVersion is the builder's data format version stamped into
// every exported template payload.
const elementorDataVersion = "0.4"

// sensitiveSettingKeys are removed from exported settings so authors do not
// accidentally publish API keys or email addresses inside a kit.
var sensitiveSettingKeys = map[string]bool{
	"mailchimp_api_key": true,
	"mailchimp_list_id": true,
	"email_to":          true,
	"email_to_2":        true,
	"email_from":        true,
	"email_from_2":      true,
	"email_reply_to":    true,
	"email_reply_to_2":  true,
}

// themeBuilderTypes are the Elementor Pro library terms offered for export.
var themeBuilderTypes = map[string]bool{
	"header":          true,
	"footer":          true,
	"single":          true,
	"archive":         true,
	"popup":           true,
	"product-post":    true,
	"product":         true,
	"product-archive": true,
	"single-post":     true,
	"single-page":     true,
	"search-results":  true,
	"error-404":       true,
}

var (
	mailtoRe      = regexp.MustCompile(`mailto:\w+`)
	inlineStyleRe = regexp.MustCompile(`(?is)style=['"]([^'"]+)['"]`)
	inlineClassRe = regexp.MustCompile(`(?is)class=['"]([^'"]+)['"]`)
	eventAttrRe   = regexp.MustCompile(`(?is)(on\w+)=['"][^'"]+['"]`)
	scriptTagRe   = regexp.MustCompile(`(?is)<script[^>]*>(.*?)<`)
	rawTagRe      = regexp.MustCompile(`(?i)<(link|meta|div|span|table)[^>]*>`)

	allowedStyleRe = regexp.MustCompile(`text-align:[^;]+;`)

	// Class names carrying only media-alignment markup are fine.
	allowedClassReplacer = strings.NewReplacer("size-", "", "wp-image", "", "align", "")
)

// Elementor exports templates built with the Elementor page builder,
// including the active kit's global styles, landing pages and Elementor Pro
// theme-builder templates.
type Elementor struct {
	Base
	Options kit.OptionsStore
}

// NewElementor builds the Elementor variant. The options store may be nil
// when the caller has no wizard state, in which case global kit styles are
// not enumerated.
func NewElementor(st store.Store, settings *kit.Settings, logger logging.Logger) *Elementor {
	b := &Elementor{Base: Base{Store: st, Settings: settings, Logger: logger}}
	if opts, ok := st.(kit.OptionsStore); ok {
		b.Options = opts
	}
	return b
}

func (e *Elementor) PageBuilderID() string {
	return BuilderElementor
}

// Sources adds global kit styles, landing pages, theme-builder templates
// and, for full-site exports, ordinary content posts.
func (e *Elementor) Sources() []catalog.Source {
	return []catalog.Source{
		&globalStylesSource{Store: e.Store, Options: e.Options, Settings: e.Settings},
		&landingPagesSource{Store: e.Store, Settings: e.Settings},
		&themeBuilderSource{Store: e.Store, Settings: e.Settings},
		&catalog.ContentPostsSource{Store: e.Store, Settings: e.Settings},
	}
}

// TemplateTree parses a template's stored builder data. Templates without
// builder data (plain posts, kit styles with no content) report ok=false.
func (e *Elementor) TemplateTree(templateID int64) (tree.Node, bool, error) {
	doc, err := e.Store.Document(templateID)
	if err != nil {
		return tree.Node{}, false, err
	}
	raw, ok := builderData(doc)
	if !ok {
		return tree.Node{}, false, nil
	}
	node, err := tree.Parse(raw)
	if err != nil {
		return tree.Node{}, false, nil
	}
	return node, true, nil
}

// builderData returns a document's raw builder JSON. The CMS stores it
// either as a JSON document or as a string wrapping one.
func builderData(doc *store.Document) (json.RawMessage, bool) {
	raw, ok := doc.Meta[store.MetaElementorData]
	if !ok || len(raw) == 0 {
		return nil, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return nil, false
		}
		return json.RawMessage(s), true
	}
	return raw, true
}

// TemplateExportData assembles the JSON payload written into the archive for
// one template: format version, title, library type, metadata and the
// scrubbed builder content, plus page settings when present.
func (e *Elementor) TemplateExportData(t *kit.Template) (map[string]interface{}, error) {
	doc, err := e.Store.Document(t.ID)
	if err != nil {
		return nil, kiterrors.ErrExportFailed(t.Name, err)
	}

	// Kit styles legitimately export with empty content.
	content := []interface{}{}
	if raw, ok := builderData(doc); ok {
		var decoded interface{}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, kiterrors.ErrExportFailed(t.Name, err)
		}
		scrubSensitiveKeys(decoded)
		if arr, ok := decoded.([]interface{}); ok {
			content = arr
		} else if decoded != nil {
			content = []interface{}{decoded}
		}
	}

	meta := t.Metadata
	if wp := doc.MetaString(store.MetaWPPageTemplate); wp != "" {
		// Carry the chosen page template through so imports restore it.
		meta.WPPageTemplate = wp
	}

	export := map[string]interface{}{
		"version":  elementorDataVersion,
		"title":    doc.Title,
		"type":     libraryTypeOf(meta),
		"metadata": meta,
		"content":  content,
	}

	if raw, ok := doc.Meta[store.MetaPageSettings]; ok {
		var pageSettings map[string]interface{}
		if err := json.Unmarshal(raw, &pageSettings); err == nil && len(pageSettings) > 0 {
			scrubSensitiveKeys(pageSettings)
			export["page_settings"] = pageSettings
		}
	}
	return export, nil
}

// libraryTypeOf resolves the exported library type: the explicit library
// type when set, otherwise "page" or "section" derived from the template
// type.
func libraryTypeOf(meta kit.TemplateMeta) string {
	if meta.LibraryType != "" {
		return meta.LibraryType
	}
	if strings.Contains(meta.TemplateType, "page") {
		return "page"
	}
	return "section"
}

// scrubSensitiveKeys deletes sensitive setting keys everywhere in a decoded
// JSON value, in place.
func scrubSensitiveKeys(v interface{}) {
	switch vv := v.(type) {
	case map[string]interface{}:
		for key := range vv {
			if sensitiveSettingKeys[key] {
				delete(vv, key)
				continue
			}
			scrubSensitiveKeys(vv[key])
		}
	case []interface{}:
		for _, el := range vv {
			scrubSensitiveKeys(el)
		}
	}
}

// TemplateMetaFields returns the wizard fields for Elementor templates. The
// template-type option tree also drives manifest categorization: anything
// under the "section" group is published as a section.
func (e *Elementor) TemplateMetaFields() []kit.FieldSpec {
	fields := []kit.FieldSpec{
		{
			Name:  "template_type",
			Label: "Template Type:",
			Type:  kit.FieldTypeSelect,
			Options: []kit.FieldOption{
				{Value: "", Label: " - Select Template Type - "},
				{
					Value: "page",
					Label: "Full Page",
					Children: []kit.FieldOption{
						{Value: "single-page", Label: "Single: Page"},
						{Value: "single-home", Label: "Single: Home"},
						{Value: "single-post", Label: "Single: Post"},
						{Value: "single-product", Label: "Single: Product"},
						{Value: "single-404", Label: "Single: 404"},
						{Value: "landing-page", Label: "Single: Landing Page"},
						{Value: "archive-blog", Label: "Archive: Blog"},
						{Value: "archive-product", Label: "Archive: Product"},
						{Value: "archive-search", Label: "Archive: Search"},
						{Value: "archive-category", Label: "Archive: Category"},
					},
				},
				{
					Value: "section",
					Label: "Section / Block",
					Children: []kit.FieldOption{
						{Value: "section-header", Label: "Header"},
						{Value: "section-footer", Label: "Footer"},
						{Value: "section-popup", Label: "Popup"},
						{Value: "section-hero", Label: "Hero"},
						{Value: "section-about", Label: "About"},
						{Value: "section-faq", Label: "FAQ"},
						{Value: "section-contact", Label: "Contact"},
						{Value: "section-cta", Label: "Call to Action"},
						{Value: "section-team", Label: "Team"},
						{Value: "section-map", Label: "Map"},
						{Value: "section-features", Label: "Features"},
						{Value: "section-pricing", Label: "Pricing"},
						{Value: "section-testimonial", Label: "Testimonial"},
						{Value: "section-product", Label: "Product"},
						{Value: "section-services", Label: "Services"},
						{Value: "section-stats", Label: "Stats"},
						{Value: "section-countdown", Label: "Countdown"},
						{Value: "section-portfolio", Label: "Portfolio"},
						{Value: "section-gallery", Label: "Gallery"},
						{Value: "section-logo-grid", Label: "Logo Grid"},
						{Value: "section-clients", Label: "Clients"},
						{Value: "section-other", Label: "Other"},
					},
				},
				{Value: "global-styles", Label: "Global Kit Styles"},
			},
		},
	}
	fields = append(fields, e.Base.TemplateMetaFields()...)
	fields = append(fields, kit.FieldSpec{
		Name:  "elementor_pro_required",
		Label: "Elementor Pro Required",
		Type:  kit.FieldTypeCheckbox,
	})
	return fields
}

// DetectStructuralErrors checks every included template's builder tree for
// constructs the kit review process rejects.
func (e *Elementor) DetectStructuralErrors(templates []kit.Template) ([]string, error) {
	sectionTypes := map[string]bool{}
	for _, opt := range e.TemplateMetaFields()[0].Group("section") {
		sectionTypes[opt.Value] = true
	}

	var errs []string
	for i := range templates {
		t := &templates[i]
		if !t.IncludeInZip {
			continue
		}
		if t.Metadata.TemplateType == "" {
			errs = append(errs, "Please choose a template type for: "+t.Name)
		}
		node, ok, err := e.TemplateTree(t.ID)
		if err != nil {
			if kiterrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if !ok {
			continue
		}
		errs = append(errs, treeErrors(t, node, sectionTypes[t.Metadata.TemplateType])...)
	}
	return errs, nil
}

// treeErrors applies the structural rules to one template tree. The label
// for each finding is the enclosing element's type, "widget" when no
// enclosing element declares one.
func treeErrors(t *kit.Template, root tree.Node, isSection bool) []string {
	var errs []string
	scanElements(root, "widget", func(key, val, elementType string) {
		if key == "custom_css" && len(val) > 0 {
			errs = append(errs, "Please remove Custom CSS from the "+elementType+" in template: "+t.Name)
		}
		if key == "_element_id" && len(val) > 0 && isSection {
			errs = append(errs, `Please remove Custom ID value "`+val+`" from the `+elementType+" in template: "+t.Name)
		}
		if key == "_css_classes" && len(val) > 0 {
			errs = append(errs, `Please remove Custom Class value "`+val+`" from the `+elementType+" in template: "+t.Name)
		}
		for _, m := range mailtoRe.FindAllString(val, -1) {
			errs = append(errs, `Please remove the Email link "`+m+`" from the `+elementType+" in template: "+t.Name)
		}
		for _, m := range inlineStyleRe.FindAllStringSubmatch(val, -1) {
			if allowedStyleRe.ReplaceAllString(m[1], "") != "" {
				errs = append(errs, `Please remove any inline style="`+m[1]+`" from `+t.Name)
			}
		}
		for _, m := range inlineClassRe.FindAllStringSubmatch(val, -1) {
			if allowedClassReplacer.Replace(m[1]) != "" {
				errs = append(errs, `Please remove any inline class="`+m[1]+`" from `+t.Name)
			}
		}
		for _, m := range eventAttrRe.FindAllStringSubmatch(val, -1) {
			errs = append(errs, "No "+m[1]+" allowed in: "+t.Name)
		}
		for range scriptTagRe.FindAllString(val, -1) {
			errs = append(errs, "No script tags allowed in: "+t.Name)
		}
		for _, m := range rawTagRe.FindAllString(val, -1) {
			errs = append(errs, "Please remove any custom HTML tags: "+m+": "+t.Name)
		}
	})
	return errs
}

// scanElements visits every scalar in the tree, tracking the element type of
// the nearest enclosing object that declares one.
func scanElements(n tree.Node, elementType string, emit func(key, val, elementType string)) {
	if et, ok := n.Field("elType"); ok {
		if s, ok := et.String(); ok && s != "" {
			elementType = s
		}
	}
	n.Walk(func(key string, child tree.Node) bool {
		if child.IsScalar() {
			emit(key, child.Text(), elementType)
		} else {
			scanElements(child, elementType, emit)
		}
		return false
	})
}

// ManifestOverrides stamps whether Elementor Pro is needed to use the
// template.
func (e *Elementor) ManifestOverrides(t *kit.Template, desc kit.TemplateDescriptor) kit.TemplateDescriptor {
	pro := t.Metadata.ProRequired
	desc.ProRequired = &pro
	return desc
}

// AddArchiveFiles stages the importer help document.
func (e *Elementor) AddArchiveFiles(staging Staging) error {
	help, err := elementorAssets.ReadFile("assets/elementor/help.html")
	if err != nil {
		return err
	}
	return staging.AddBytes("help.html", help)
}

// SiteHealth checks the hosting environment for the builder plugin and the
// companion theme.
func (e *Elementor) SiteHealth() (*Health, error) {
	env, err := e.Store.Environment()
	if err != nil {
		return nil, err
	}
	health := &Health{}
	if env.BuilderVersions[BuilderElementor] == "" {
		health.Errors = append(health.Errors, `Please install the "Elementor" Plugin to continue.`)
	} else {
		health.Successes = append(health.Successes, `The "Elementor" plugin is installed.`)
	}
	if env.ActiveTheme != "hello-elementor" {
		health.Errors = append(health.Errors, `Please ensure the "Hello Elementor" theme is installed and active on this site.`)
	} else {
		health.Successes = append(health.Successes, `The "Hello Elementor" theme is active.`)
	}
	return health, nil
}

// globalStylesSource surfaces the active kit document as a pseudo template
// carrying the site-wide theme styles. Always sorted first.
type globalStylesSource struct {
	Store    store.Store
	Options  kit.OptionsStore
	Settings *kit.Settings
}

func (s *globalStylesSource) Templates(onlyIncluded bool) ([]kit.Template, error) {
	if s.Options == nil {
		return nil, nil
	}
	v, ok := s.Options.Get(store.OptionActiveKit)
	if !ok {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, nil
	}
	doc, err := s.Store.Document(id)
	if err != nil {
		if kiterrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	meta := catalog.TemplateMetaOf(doc)
	if s.Settings.FullSiteExport() {
		meta.IncludeInZip = true
	}
	meta.TemplateType = "global-styles"
	meta.AdditionalInformation = []string{
		"These are the global theme styles configured through the Elementor Theme Styles area.",
	}
	if onlyIncluded && !meta.IncludeInZip {
		return nil, nil
	}
	return []kit.Template{{
		ID:           id,
		Name:         "Global Kit Styles",
		ZipFileName:  "templates/global.json",
		IncludeInZip: meta.IncludeInZip,
		Metadata:     meta,
		PreviewURL:   doc.PreviewURL,
		Order:        -1,
		Source:       kit.SourceGlobalStyles,
	}}, nil
}

// landingPagesSource enumerates landing-page documents. They import as
// "page" library entries.
type landingPagesSource struct {
	Store    store.Store
	Settings *kit.Settings
}

func (s *landingPagesSource) Templates(onlyIncluded bool) ([]kit.Template, error) {
	docs, err := s.Store.DocumentsByType(store.TypeLandingPage)
	if err != nil {
		return nil, err
	}
	var templates []kit.Template
	for _, doc := range docs {
		meta := catalog.TemplateMetaOf(doc)
		if s.Settings.FullSiteExport() {
			meta.IncludeInZip = true
		}
		meta.LibraryType = "page"
		if onlyIncluded && !meta.IncludeInZip {
			continue
		}
		templates = append(templates, kit.Template{
			ID:           doc.ID,
			Name:         doc.Title,
			ZipFileName:  "templates/" + kit.SanitizeFilename(doc.Title) + ".json",
			IncludeInZip: meta.IncludeInZip,
			Metadata:     meta,
			PreviewURL:   doc.PreviewURL,
			Order:        doc.MenuOrder,
			Source:       kit.SourceLandingPage,
		})
	}
	return templates, nil
}

// themeBuilderSource enumerates Elementor Pro theme-builder templates with a
// recognized library term. Inactive unless Elementor Pro is installed.
type themeBuilderSource struct {
	Store    store.Store
	Settings *kit.Settings
}

var termTitle = cases.Title(language.English)

func (s *themeBuilderSource) Templates(onlyIncluded bool) ([]kit.Template, error) {
	env, err := s.Store.Environment()
	if err != nil {
		return nil, err
	}
	if env.BuilderVersions["elementor-pro"] == "" {
		return nil, nil
	}
	docs, err := s.Store.DocumentsByType(store.TypeBuilderLibrary)
	if err != nil {
		return nil, err
	}

	var templates []kit.Template
	for _, doc := range docs {
		term := doc.Term(store.TaxonomyLibraryType)
		if !themeBuilderTypes[term] {
			continue
		}
		meta := catalog.TemplateMetaOf(doc)
		if s.Settings.FullSiteExport() {
			meta.IncludeInZip = true
		}
		meta.LibraryType = term
		meta.ProRequired = true

		info := []string{
			`This is a "` + termTitle.String(strings.ReplaceAll(term, "-", " ")) + `" template for Elementor Pro.`,
		}
		if conds := conditionsOf(doc); len(conds) > 0 {
			meta.ProConditions = conds
			info = append(info, "This template will display on: "+strings.Join(conds, " & ")+".")
		}
		meta.AdditionalInformation = info

		if onlyIncluded && !meta.IncludeInZip {
			continue
		}
		templates = append(templates, kit.Template{
			ID:           doc.ID,
			Name:         doc.Title,
			ZipFileName:  "templates/" + kit.SanitizeFilename(doc.Title) + ".json",
			IncludeInZip: meta.IncludeInZip,
			Metadata:     meta,
			PreviewURL:   doc.PreviewURL,
			Order:        doc.MenuOrder,
			Source:       kit.SourceThemeBuilder,
		})
	}
	return templates, nil
}

// conditionsOf decodes the display conditions saved against a theme-builder
// template.
func conditionsOf(doc *store.Document) []string {
	raw, ok := doc.Meta[store.MetaConditions]
	if !ok {
		return nil
	}
	var conds []string
	if err := json.Unmarshal(raw, &conds); err != nil {
		return nil
	}
	return conds
}
