// Package catalog enumerates candidate templates from heterogeneous sources
// and normalizes them into one ordered list. Sources contribute in a fixed
// order; the final list is sorted by template order with a stable sort, so
// equal-order templates keep their source enumeration order.
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/store"
)

// Source contributes templates from one enumeration origin.
type Source interface {
	Templates(onlyIncluded bool) ([]kit.Template, error)
}

// Catalog merges template sources into the kit's ordered template list.
type Catalog struct {
	sources []Source
}

// New builds a catalog over the given sources, first to last.
func New(sources ...Source) *Catalog {
	return &Catalog{sources: sources}
}

// List gathers templates from every source and stable-sorts them ascending
// by order. When onlyIncluded is set, templates not marked for the archive
// are omitted at the source, not filtered afterwards.
func (c *Catalog) List(onlyIncluded bool) ([]kit.Template, error) {
	var templates []kit.Template
	for _, src := range c.sources {
		batch, err := src.Templates(onlyIncluded)
		if err != nil {
			return nil, err
		}
		templates = append(templates, batch...)
	}

	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].Order < templates[j].Order
	})

	dedupeZipFileNames(templates)
	return templates, nil
}

// dedupeZipFileNames keeps archive paths unique within one build. Identical
// titles would otherwise collide, so later duplicates get their document id
// folded into the name.
func dedupeZipFileNames(templates []kit.Template) {
	seen := make(map[string]bool, len(templates))
	for i := range templates {
		name := templates[i].ZipFileName
		if seen[name] {
			name = fmt.Sprintf("%s-%d.json", trimJSONSuffix(name), templates[i].ID)
			templates[i].ZipFileName = name
		}
		seen[name] = true
	}
}

func trimJSONSuffix(name string) string {
	const suffix = ".json"
	if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
		return name[:len(name)-len(suffix)]
	}
	return name
}

// TemplateMetaOf decodes the per-template metadata attached to a document.
// Missing or malformed metadata behaves like an empty mapping.
func TemplateMetaOf(doc *store.Document) kit.TemplateMeta {
	var meta kit.TemplateMeta
	if raw, ok := doc.Meta[store.MetaTemplateKit]; ok {
		_ = json.Unmarshal(raw, &meta)
	}
	return meta
}

// CPTSource enumerates the exporter's own template content type. It is
// always the catalog's first source.
type CPTSource struct {
	Store    store.Store
	Settings *kit.Settings
}

// Templates lists every stored kit template in document order.
func (s *CPTSource) Templates(onlyIncluded bool) ([]kit.Template, error) {
	docs, err := s.Store.DocumentsByType(store.TypeKitTemplate)
	if err != nil {
		return nil, err
	}

	var templates []kit.Template
	for _, doc := range docs {
		meta := TemplateMetaOf(doc)
		if s.Settings.FullSiteExport() {
			// Full-site exports validate everything, so every template is
			// flagged for the archive.
			meta.IncludeInZip = true
		}
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
			Source:       kit.SourceTemplate,
		})
	}
	return templates, nil
}

// ContentPostsSource bundles every ordinary post and page. Only active for
// full-site exports, where each entry is unconditionally included and its
// archive path carries the content-type slug as a prefix.
type ContentPostsSource struct {
	Store    store.Store
	Settings *kit.Settings
}

// Templates lists all posts and pages when exporting a full-site kit.
func (s *ContentPostsSource) Templates(onlyIncluded bool) ([]kit.Template, error) {
	if !s.Settings.FullSiteExport() {
		return nil, nil
	}

	var templates []kit.Template
	for _, docType := range []string{store.TypePost, store.TypePage} {
		docs, err := s.Store.DocumentsByType(docType)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			templates = append(templates, kit.Template{
				ID:           doc.ID,
				Name:         doc.Title,
				ZipFileName:  "templates/" + docType + "-" + kit.SanitizeFilename(doc.Title) + ".json",
				IncludeInZip: true,
				Metadata:     kit.TemplateMeta{LibraryType: "page"},
				PreviewURL:   doc.PreviewURL,
				Order:        doc.MenuOrder,
				Source:       kit.SourceContentPost,
			})
		}
	}
	return templates, nil
}
