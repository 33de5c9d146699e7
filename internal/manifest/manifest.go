// Package manifest assembles the manifest.json document describing a kit:
// kit header fields, one descriptor per included template and the licensing
// metadata of every referenced image.
package manifest

import (
	"strings"

	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/version"
)

// TemplateDescriber is the slice of builder behavior the manifest needs.
type TemplateDescriber interface {
	PageBuilderID() string
	TemplateScreenshot(templateID int64) (*kit.Screenshot, error)
	TemplateMetaFields() []kit.FieldSpec
	ManifestOverrides(tmpl *kit.Template, desc kit.TemplateDescriptor) kit.TemplateDescriptor
}

// Build assembles the manifest from the kit settings, the full template
// catalog and the discovered image records. Only templates flagged for the
// archive get a descriptor; images referenced solely by excluded templates
// are dropped.
func Build(settings *kit.Settings, templates []kit.Template, images []kit.ImageRecord, b TemplateDescriber) *kit.Manifest {
	m := &kit.Manifest{
		ManifestVersion: version.Version,
		Title:           settings.KitName,
		PageBuilder:     b.PageBuilderID(),
		KitVersion:      settings.KitVersion,
		Templates:       []kit.TemplateDescriptor{},
		RequiredPlugins: settings.RequiredPlugins,
		Images:          []kit.ImageDescriptor{},
	}

	sectionTypes := sectionTypesOf(b)
	for i := range templates {
		t := &templates[i]
		if !t.IncludeInZip {
			continue
		}
		desc := kit.TemplateDescriptor{
			Name:       t.Name,
			Source:     t.ZipFileName,
			PreviewURL: t.PreviewURL,
			Type:       typeOf(t.Metadata),
			Category:   categoryOf(t.Metadata, sectionTypes),
			Metadata:   t.Metadata,
		}
		// Absence is fine here: validation already reports missing
		// screenshots, the manifest just leaves the path empty.
		if shot, err := b.TemplateScreenshot(t.ID); err == nil {
			desc.Screenshot = shot.ZipFileName
		}
		m.Templates = append(m.Templates, b.ManifestOverrides(t, desc))
	}

	for _, img := range images {
		var refs []kit.ImageTemplateRef
		for i := range templates {
			t := &templates[i]
			if !t.IncludeInZip {
				continue
			}
			if _, used := img.UsedOn[t.ID]; used {
				refs = append(refs, kit.ImageTemplateRef{Source: t.ZipFileName, Name: t.Name})
			}
		}
		if len(refs) == 0 {
			continue
		}
		m.Images = append(m.Images, kit.ImageDescriptor{
			Filename:      img.FileName,
			ThumbnailURL:  img.ThumbnailURL,
			Templates:     refs,
			Filesize:      img.FileSize,
			Dimensions:    img.Dimensions,
			ImageSource:   img.License.ImageSource,
			PersonOrPlace: img.License.PersonOrPlace,
			ImageURLs:     img.License.ImageURLs,
		})
	}
	return m
}

// sectionTypesOf extracts the set of template types published as sections
// from the builder's template-type option group.
func sectionTypesOf(b TemplateDescriber) map[string]bool {
	types := map[string]bool{}
	for _, field := range b.TemplateMetaFields() {
		if field.Name != "template_type" {
			continue
		}
		for _, opt := range field.Group("section") {
			types[opt.Value] = true
		}
	}
	return types
}

// typeOf resolves the library type published in the manifest.
func typeOf(meta kit.TemplateMeta) string {
	if meta.LibraryType != "" {
		return meta.LibraryType
	}
	if meta.TemplateType != "" && strings.Contains(meta.TemplateType, "page") {
		return "page"
	}
	return "section"
}

// categoryOf buckets a template as a full page or a section.
func categoryOf(meta kit.TemplateMeta, sectionTypes map[string]bool) string {
	if sectionTypes[meta.TemplateType] {
		return kit.CategorySection
	}
	return kit.CategoryPage
}
