package builders

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/conneroisu/kitpack/internal/catalog"
	kiterrors "github.com/conneroisu/kitpack/internal/errors"
	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/logging"
	"github.com/conneroisu/kitpack/internal/store"
	"github.com/conneroisu/kitpack/internal/tree"
)

// Base carries behavior shared by every builder variant. Variants embed it
// and override the methods they specialize.
type Base struct {
	Store    store.Store
	Settings *kit.Settings
	Logger   logging.Logger
}

// Sources returns no extra catalog sources by default.
func (b *Base) Sources() []catalog.Source {
	return nil
}

// TemplateTree reports no builder tree by default.
func (b *Base) TemplateTree(templateID int64) (tree.Node, bool, error) {
	return tree.Node{}, false, nil
}

// TemplateScreenshot resolves a template's featured image. The archive path
// extension is sniffed from the file content rather than trusted from the
// attachment record.
func (b *Base) TemplateScreenshot(templateID int64) (*kit.Screenshot, error) {
	doc, err := b.Store.Document(templateID)
	if err != nil {
		return nil, err
	}
	thumbID := doc.MetaInt64(store.MetaThumbnailID)
	if thumbID == 0 {
		return nil, kiterrors.ErrNoScreenshot(doc.Title)
	}
	att, err := b.Store.Attachment(thumbID)
	if err != nil {
		return nil, err
	}
	ext, err := imageExtension(att.File)
	if err != nil {
		return nil, kiterrors.ErrNoScreenshot(doc.Title)
	}
	return &kit.Screenshot{
		LocalFile:   att.File,
		URL:         att.URL,
		ZipFileName: "screenshots/" + kit.SanitizeFilename(doc.Title) + "." + ext,
	}, nil
}

// imageExtension sniffs a file's content and maps it to the archive
// extension. Only PNG and JPEG screenshots are accepted.
func imageExtension(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := f.Read(head)
	switch http.DetectContentType(head[:n]) {
	case "image/png":
		return "png", nil
	case "image/jpeg":
		return "jpg", nil
	}
	return "", kiterrors.NewNotFoundError(kiterrors.ErrCodeNoScreenshot, "unsupported screenshot type: "+path)
}

// TemplateMetaFields declares the include flag every variant offers.
func (b *Base) TemplateMetaFields() []kit.FieldSpec {
	return []kit.FieldSpec{
		{
			Name:  "include_in_zip",
			Label: "Include Template in Export ZIP",
			Type:  kit.FieldTypeCheckbox,
		},
	}
}

// ImageMetaFields declares the licensing fields collected per image.
func (b *Base) ImageMetaFields() []kit.FieldSpec {
	return []kit.FieldSpec{
		{
			Name:  "image_source",
			Label: "Where is this image from?",
			Type:  kit.FieldTypeSelect,
			Options: []kit.FieldOption{
				{Value: "", Label: " - Select Image Source - "},
				{Value: kit.ImageSourceLicensed, Label: "Envato Elements"},
				{Value: kit.ImageSourceSelfCreated, Label: "Self Created"},
				{Value: kit.ImageSourceCC0, Label: "CC0 / Public Domain"},
				{Value: kit.ImageSourceUnsure, Label: "Unsure"},
			},
		},
		{
			Name:  "person_or_place",
			Label: "Does this image contain an identifiable person, place or brand?",
			Type:  kit.FieldTypeSelect,
			Options: []kit.FieldOption{
				{Value: "", Label: " - Select - "},
				{Value: "yes", Label: "Yes"},
				{Value: "no", Label: "No"},
			},
		},
		{
			Name:  "image_urls",
			Label: "Source image URL:",
			Type:  kit.FieldTypeText,
		},
	}
}

// DetectStructuralErrors applies no extra rules by default.
func (b *Base) DetectStructuralErrors(templates []kit.Template) ([]string, error) {
	return nil, nil
}

// ManifestOverrides leaves the base descriptor untouched by default.
func (b *Base) ManifestOverrides(tmpl *kit.Template, desc kit.TemplateDescriptor) kit.TemplateDescriptor {
	return desc
}

// AddArchiveFiles stages nothing by default.
func (b *Base) AddArchiveFiles(staging Staging) error {
	return nil
}

// SiteHealth reports no checks by default.
func (b *Base) SiteHealth() (*Health, error) {
	return &Health{}, nil
}

// SaveTemplateMeta persists a template's metadata mapping against its
// document.
func (b *Base) SaveTemplateMeta(templateID int64, meta kit.TemplateMeta) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return b.Store.SetDocumentMeta(templateID, store.MetaTemplateKit, raw)
}
