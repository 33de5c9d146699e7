// Package kit defines the core value types of the template-kit export
// pipeline: kit settings, catalog templates, discovered images, the
// validation report and the manifest document written into every archive.
package kit

// ExportType selects between a regular template kit and a full-site
// Elementor kit export.
type ExportType string

const (
	ExportTypeTemplateKit  ExportType = "template-kit"
	ExportTypeElementorKit ExportType = "elementor-kit"
)

// SourceKind identifies which enumeration source produced a template.
type SourceKind string

const (
	SourceTemplate     SourceKind = "template"
	SourceGlobalStyles SourceKind = "global-styles"
	SourceLandingPage  SourceKind = "landing-page"
	SourceThemeBuilder SourceKind = "theme-builder"
	SourceContentPost  SourceKind = "content-post"
)

// RequiredPlugin describes one plugin dependency recorded in the manifest.
type RequiredPlugin struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Author  string `json:"author"`
	File    string `json:"file"`
}

// TemplateMeta is the per-template metadata mapping persisted against the
// underlying document and echoed into the manifest.
type TemplateMeta struct {
	TemplateType          string   `json:"template_type,omitempty"`
	IncludeInZip          bool     `json:"include_in_zip,omitempty"`
	ProRequired           bool     `json:"elementor_pro_required,omitempty"`
	LibraryType           string   `json:"elementor_library_type,omitempty"`
	ProConditions         []string `json:"elementor_pro_conditions,omitempty"`
	AdditionalInformation []string `json:"additional_template_information,omitempty"`
	WPPageTemplate        string   `json:"wp_page_template,omitempty"`
}

// Template is one include-able unit of design content, normalized from any
// of the catalog's enumeration sources.
type Template struct {
	ID           int64
	Name         string
	ZipFileName  string
	IncludeInZip bool
	Metadata     TemplateMeta
	PreviewURL   string
	Order        int
	Source       SourceKind
}

// ImageLicense holds the user-entered licensing metadata for an image.
type ImageLicense struct {
	ImageSource   string `json:"image_source"`
	PersonOrPlace string `json:"person_or_place"`
	ImageURLs     string `json:"image_urls"`
}

// Image-source values the validator knows about.
const (
	ImageSourceLicensed    = "envato_elements"
	ImageSourceSelfCreated = "self_created"
	ImageSourceCC0         = "cc0"
	ImageSourceUnsure      = "unsure"
)

// MaxImageFileSize is the largest source image allowed in a kit. Most
// hosting installs default to a 1MB upload limit.
const MaxImageFileSize = 1000000

// ImageRecord is one distinct image attachment referenced by the kit.
type ImageRecord struct {
	ID           int64
	ThumbnailURL string
	FileName     string
	FileSize     int64
	Dimensions   [2]int
	UsedOn       map[int64]string // template id -> template name
	License      ImageLicense
}

// Screenshot describes a template's preview image as staged for the archive.
type Screenshot struct {
	LocalFile   string
	URL         string
	ZipFileName string
}

// FieldType enumerates the wizard form-field kinds a builder can declare.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
)

// FieldOption is one selectable value; options may carry children to form
// an option group.
type FieldOption struct {
	Value    string
	Label    string
	Children []FieldOption
}

// FieldSpec declares one wizard form field. The ordered field lists drive
// both wizard rendering and manifest categorization.
type FieldSpec struct {
	Name    string
	Label   string
	Type    FieldType
	Options []FieldOption
}

// Group returns the children of the option group with the given value, or
// nil when no such group exists.
func (f FieldSpec) Group(value string) []FieldOption {
	for _, opt := range f.Options {
		if opt.Value == value {
			return opt.Children
		}
	}
	return nil
}
