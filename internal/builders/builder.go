// Package builders supplies the page-builder-specific behavior the export
// pipeline is parameterized over: export-payload extraction, catalog
// sources, structural compliance rules, manifest augmentation and extra
// archive files. One concrete implementation exists per supported builder;
// shared default behavior lives in Base, which the variants compose.
package builders

import (
	"github.com/conneroisu/kitpack/internal/catalog"
	kiterrors "github.com/conneroisu/kitpack/internal/errors"
	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/logging"
	"github.com/conneroisu/kitpack/internal/store"
	"github.com/conneroisu/kitpack/internal/tree"
)

// Page builder identifiers.
const (
	BuilderElementor = "elementor"
	BuilderGutenberg = "gutenberg"
)

// Staging receives files destined for the export archive. The archive
// packager implements it.
type Staging interface {
	AddBytes(archivePath string, data []byte) error
	AddFile(archivePath, localFile string) error
}

// Health carries environment-compatibility check results.
type Health struct {
	Errors    []string
	Successes []string
}

// Builder is the capability set a page-builder variant must implement.
type Builder interface {
	// PageBuilderID returns the manifest's page_builder value.
	PageBuilderID() string

	// Sources returns the builder's extra catalog enumeration sources,
	// appended after the base template content type.
	Sources() []catalog.Source

	// TemplateTree returns a template's raw builder tree, or ok=false when
	// the template has none.
	TemplateTree(templateID int64) (tree.Node, bool, error)

	// TemplateExportData produces the JSON payload written into the
	// archive for one template. Failing to produce one is a build error
	// and aborts the whole build.
	TemplateExportData(tmpl *kit.Template) (map[string]interface{}, error)

	// TemplateScreenshot resolves a template's preview image. Absence is a
	// not-found error, which callers treat as "no screenshot available".
	TemplateScreenshot(templateID int64) (*kit.Screenshot, error)

	// TemplateMetaFields returns the ordered wizard fields for templates.
	// The first field's "section" option group also drives manifest
	// categorization.
	TemplateMetaFields() []kit.FieldSpec

	// ImageMetaFields returns the ordered wizard fields for images.
	ImageMetaFields() []kit.FieldSpec

	// DetectStructuralErrors runs builder-specific compliance rules over
	// included templates. Composed with the base rule set, never replacing it.
	DetectStructuralErrors(templates []kit.Template) ([]string, error)

	// ManifestOverrides lets the builder augment a template descriptor.
	// Augmentation only: base fields must survive.
	ManifestOverrides(tmpl *kit.Template, desc kit.TemplateDescriptor) kit.TemplateDescriptor

	// AddArchiveFiles stages builder-contributed fixed files (help
	// documents and the like).
	AddArchiveFiles(staging Staging) error

	// SiteHealth reports environment-compatibility checks.
	SiteHealth() (*Health, error)
}

// ForSettings returns the builder variant the kit settings name.
func ForSettings(settings *kit.Settings, st store.Store, logger logging.Logger) (Builder, error) {
	switch settings.PageBuilder {
	case "":
		return nil, kiterrors.ErrNoPageBuilder()
	case BuilderElementor:
		return NewElementor(st, settings, logger), nil
	case BuilderGutenberg:
		return NewGutenberg(st, settings, logger), nil
	default:
		return nil, kiterrors.ErrUnknownPageBuilder(settings.PageBuilder)
	}
}

// NewCatalog assembles the template catalog for a builder: the base
// template content type first, then the builder's own sources.
func NewCatalog(b Builder, st store.Store, settings *kit.Settings) *catalog.Catalog {
	sources := append([]catalog.Source{
		&catalog.CPTSource{Store: st, Settings: settings},
	}, b.Sources()...)
	return catalog.New(sources...)
}
