// Package store defines the small interfaces the export core needs from the
// hosting CMS: a document store, an attachment store and a namespaced
// options store. One file-backed JSON implementation is provided for the
// CLI and for tests; a real CMS integration would supply its own.
package store

import (
	"encoding/json"
	"strconv"
)

// Document content types the pipeline knows about.
const (
	TypeKitTemplate     = "kit_template"
	TypeLandingPage     = "e-landing-page"
	TypeBuilderLibrary  = "elementor_library"
	TypePost            = "post"
	TypePage            = "page"
	TaxonomyLibraryType = "elementor_library_type"
)

// Document meta keys.
const (
	MetaTemplateKit     = "kit_template_meta"
	MetaImageLicense    = "kit_image_license"
	MetaThumbnailID     = "_thumbnail_id"
	MetaElementorData   = "_elementor_data"
	MetaPageSettings    = "_elementor_page_settings"
	MetaConditions      = "_elementor_conditions"
	MetaWPPageTemplate  = "_wp_page_template"
	MetaPostContent     = "post_content"
	OptionActiveKit     = "elementor_active_kit"
)

// Document is one stored content entry (template, landing page, post, ...).
type Document struct {
	ID         int64                      `json:"id"`
	Title      string                     `json:"title"`
	Type       string                     `json:"type"`
	MenuOrder  int                        `json:"menu_order"`
	PreviewURL string                     `json:"preview_url"`
	Terms      map[string][]string        `json:"terms,omitempty"`
	Meta       map[string]json.RawMessage `json:"meta,omitempty"`
}

// MetaString decodes a string-valued meta entry, returning "" when the key
// is absent or not a string.
func (d *Document) MetaString(key string) string {
	raw, ok := d.Meta[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// MetaInt64 decodes a numeric meta entry, accepting both JSON numbers and
// numeric strings. Returns 0 when absent or malformed.
func (d *Document) MetaInt64(key string) int64 {
	raw, ok := d.Meta[key]
	if !ok {
		return 0
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, perr := strconv.ParseInt(s, 10, 64); perr == nil {
			return parsed
		}
	}
	return 0
}

// Term returns the first term slug for a taxonomy, or "".
func (d *Document) Term(taxonomy string) string {
	slugs := d.Terms[taxonomy]
	if len(slugs) == 0 {
		return ""
	}
	return slugs[0]
}

// Attachment is one resolved image attachment.
type Attachment struct {
	ID           int64                      `json:"id"`
	File         string                     `json:"file"`
	URL          string                     `json:"url"`
	ThumbnailURL string                     `json:"thumbnail_url"`
	Width        int                        `json:"width"`
	Height       int                        `json:"height"`
	FileSize     int64                      `json:"filesize"`
	Meta         map[string]json.RawMessage `json:"meta,omitempty"`
}

// InstalledPlugin is one plugin present on the hosting site.
type InstalledPlugin struct {
	File    string `json:"file"`
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Author  string `json:"author"`
	Active  bool   `json:"active"`
}

// Environment captures hosting-site facts consumed by health checks and the
// wizard's plugin step.
type Environment struct {
	SiteURL              string            `json:"site_url"`
	ActiveTheme          string            `json:"active_theme"`
	CoreUpdatePending    bool              `json:"core_update_pending"`
	PluginUpdatesPending []string          `json:"plugin_updates_pending,omitempty"`
	InstalledPlugins     []InstalledPlugin `json:"installed_plugins,omitempty"`
	BuilderVersions      map[string]string `json:"builder_versions,omitempty"`
}

// Store is the document/attachment access the export core consumes.
// Enumeration order is the stored order and is stable across calls.
type Store interface {
	DocumentsByType(docType string) ([]*Document, error)
	Document(id int64) (*Document, error)
	SetDocumentMeta(id int64, key string, value json.RawMessage) error
	UpdateDocument(id int64, title string, menuOrder int) error

	// Attachment resolves an id to an image attachment. Ids that do not
	// resolve (deleted, not an image) return a not-found error.
	Attachment(id int64) (*Attachment, error)
	SetAttachmentMeta(id int64, key string, value json.RawMessage) error

	Environment() (*Environment, error)
}
