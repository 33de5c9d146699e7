package kit

// Manifest is the declarative document describing kit contents for a
// downstream importer. Field names are part of the interchange format and
// must not change.
type Manifest struct {
	ManifestVersion string               `json:"manifest_version"`
	Title           string               `json:"title"`
	PageBuilder     string               `json:"page_builder"`
	KitVersion      string               `json:"kit_version"`
	Templates       []TemplateDescriptor `json:"templates"`
	RequiredPlugins []RequiredPlugin     `json:"required_plugins"`
	Images          []ImageDescriptor    `json:"images"`
}

// TemplateDescriptor is one manifest entry for an included template.
type TemplateDescriptor struct {
	Name        string       `json:"name"`
	Screenshot  string       `json:"screenshot"`
	Source      string       `json:"source"`
	PreviewURL  string       `json:"preview_url"`
	Type        string       `json:"type"`
	Category    string       `json:"category"`
	Metadata    TemplateMeta `json:"metadata"`
	ProRequired *bool        `json:"elementor_pro_required,omitempty"`
}

// ImageTemplateRef names one included template an image appears on.
type ImageTemplateRef struct {
	Source string `json:"source"`
	Name   string `json:"name"`
}

// ImageDescriptor is one manifest entry for a referenced image.
type ImageDescriptor struct {
	Filename      string             `json:"filename"`
	ThumbnailURL  string             `json:"thumbnail_url"`
	Templates     []ImageTemplateRef `json:"templates"`
	Filesize      int64              `json:"filesize"`
	Dimensions    [2]int             `json:"dimensions"`
	ImageSource   string             `json:"image_source"`
	PersonOrPlace string             `json:"person_or_place"`
	ImageURLs     string             `json:"image_urls"`
}

// Manifest template categories.
const (
	CategoryPage    = "page"
	CategorySection = "section"
)
