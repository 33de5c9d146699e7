package builders

import (
	"encoding/json"
	"strconv"

	"github.com/conneroisu/kitpack/internal/catalog"
	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/store"
)

// TemplateOptions is one template's wizard input: field values keyed by the
// builder's declared field names, plus optional thumbnail and title/order
// updates.
type TemplateOptions struct {
	Fields      map[string]string
	ThumbnailID int64
	Name        string
	MenuOrder   int
	Rename      bool
}

// SaveTemplateOptions writes wizard input back to a template's document.
// Only fields the builder declares are persisted; unknown keys are ignored.
func SaveTemplateOptions(b Builder, st store.Store, templateID int64, opts TemplateOptions) error {
	doc, err := st.Document(templateID)
	if err != nil {
		return err
	}
	meta := catalog.TemplateMetaOf(doc)
	for _, field := range b.TemplateMetaFields() {
		val := opts.Fields[field.Name]
		switch field.Name {
		case "template_type":
			meta.TemplateType = val
		case "include_in_zip":
			meta.IncludeInZip = parseCheckbox(val)
		case "elementor_pro_required":
			meta.ProRequired = parseCheckbox(val)
		}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if err := st.SetDocumentMeta(templateID, store.MetaTemplateKit, raw); err != nil {
		return err
	}

	if opts.ThumbnailID > 0 {
		thumb, err := json.Marshal(opts.ThumbnailID)
		if err != nil {
			return err
		}
		if err := st.SetDocumentMeta(templateID, store.MetaThumbnailID, thumb); err != nil {
			return err
		}
	}

	if opts.Rename {
		return st.UpdateDocument(templateID, opts.Name, opts.MenuOrder)
	}
	return nil
}

// SaveImageData writes one image's licensing fields back to its attachment.
// Only fields the builder declares are persisted.
func SaveImageData(b Builder, st store.Store, attachmentID int64, fields map[string]string) error {
	var license kit.ImageLicense
	for _, field := range b.ImageMetaFields() {
		val := fields[field.Name]
		switch field.Name {
		case "image_source":
			license.ImageSource = val
		case "person_or_place":
			license.PersonOrPlace = val
		case "image_urls":
			license.ImageURLs = val
		}
	}
	raw, err := json.Marshal(license)
	if err != nil {
		return err
	}
	return st.SetAttachmentMeta(attachmentID, store.MetaImageLicense, raw)
}

func parseCheckbox(val string) bool {
	if val == "" {
		return false
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return val == "1" || val == "on" || val == "yes"
	}
	return b
}
