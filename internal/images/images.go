// Package images discovers every image attachment referenced by a kit's
// templates. Discovery walks each template's builder tree, collects
// candidate attachment ids, and keeps only ids that resolve to a real image
// attachment. Collection is deliberately over-broad: any positive integer
// field literally named "id" is a candidate, and the existence check filters
// the false positives.
package images

import (
	"encoding/json"
	"path/filepath"

	kiterrors "github.com/conneroisu/kitpack/internal/errors"
	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/store"
	"github.com/conneroisu/kitpack/internal/tree"
)

// TreeSource supplies a template's raw builder tree. The second return
// value is false when the template has no tree, which skips it.
type TreeSource interface {
	TemplateTree(templateID int64) (tree.Node, bool, error)
}

// Set is an insertion-ordered collection of image records keyed by
// attachment id. Iteration order is first-discovery order, which is an
// explicit contract: the manifest image list preserves it.
type Set struct {
	order []int64
	byID  map[int64]*kit.ImageRecord
}

// NewSet returns an empty image set.
func NewSet() *Set {
	return &Set{byID: map[int64]*kit.ImageRecord{}}
}

// Get returns the record for an attachment id, or nil.
func (s *Set) Get(id int64) *kit.ImageRecord {
	return s.byID[id]
}

// Add appends a record. Ids already present are ignored: first-seen wins.
func (s *Set) Add(rec *kit.ImageRecord) {
	if _, ok := s.byID[rec.ID]; ok {
		return
	}
	s.byID[rec.ID] = rec
	s.order = append(s.order, rec.ID)
}

// Records returns all records in first-discovery order.
func (s *Set) Records() []*kit.ImageRecord {
	recs := make([]*kit.ImageRecord, 0, len(s.order))
	for _, id := range s.order {
		recs = append(recs, s.byID[id])
	}
	return recs
}

// Len returns the number of distinct images.
func (s *Set) Len() int {
	return len(s.order)
}

// Extractor finds the images a set of templates references.
type Extractor struct {
	Store store.Store
	Trees TreeSource
}

// FindAll walks every template's builder tree and returns the distinct
// images referenced across the kit, each recording which templates use it.
// Ids that do not resolve to an image attachment are silently dropped.
func (e *Extractor) FindAll(templates []kit.Template) (*Set, error) {
	set := NewSet()
	for i := range templates {
		tmpl := &templates[i]
		root, ok, err := e.Trees.TemplateTree(tmpl.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for _, id := range dedupe(CollectImageIDs(root)) {
			rec := set.Get(id)
			if rec == nil {
				rec, err = e.resolve(id)
				if err != nil {
					return nil, err
				}
				if rec == nil {
					continue
				}
				set.Add(rec)
			}
			rec.UsedOn[tmpl.ID] = tmpl.Name
		}
	}
	return set, nil
}

// resolve turns a candidate id into an image record, or nil when the id is
// stale or not an image attachment.
func (e *Extractor) resolve(id int64) (*kit.ImageRecord, error) {
	att, err := e.Store.Attachment(id)
	if err != nil {
		if kiterrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	license := licenseOf(att)
	if license == (kit.ImageLicense{}) {
		tagged, err := AutoTagLicensed(e.Store, att)
		if err != nil {
			return nil, err
		}
		if tagged != nil {
			license = *tagged
		}
	}

	fileName := ""
	if att.File != "" {
		fileName = filepath.Base(att.File)
	}

	return &kit.ImageRecord{
		ID:           att.ID,
		ThumbnailURL: att.ThumbnailURL,
		FileName:     fileName,
		FileSize:     att.FileSize,
		// Missing or malformed size metadata degrades to 0x0 rather than
		// erroring; the validator reports it.
		Dimensions: [2]int{att.Width, att.Height},
		UsedOn:     map[int64]string{},
		License:    license,
	}, nil
}

// CollectImageIDs gathers candidate image ids from a builder tree: carousel
// widget items, image fields with positive ids, and any scalar field named
// "id" with a positive integer value.
func CollectImageIDs(root tree.Node) []int64 {
	var ids []int64
	root.Walk(func(key string, n tree.Node) bool {
		switch n.Kind() {
		case tree.KindObject:
			if carousel, ok := carouselItems(n); ok {
				ids = append(ids, carousel...)
				return false
			}
			if img, ok := n.Field("image"); ok {
				if idNode, ok := img.Field("id"); ok {
					if id, ok := idNode.PositiveInt(); ok {
						ids = append(ids, id)
						return false
					}
				}
			}
			return true
		case tree.KindArray:
			return true
		default:
			if key == "id" {
				if id, ok := n.PositiveInt(); ok {
					ids = append(ids, id)
				}
			}
			return true
		}
	})
	return ids
}

// carouselItems returns the item ids of a carousel-style widget node.
func carouselItems(n tree.Node) ([]int64, bool) {
	if _, ok := n.Field("widgetType"); !ok {
		return nil, false
	}
	settings, ok := n.Field("settings")
	if !ok {
		return nil, false
	}
	carousel, ok := settings.Field("carousel")
	if !ok {
		return nil, false
	}
	items, ok := carousel.Array()
	if !ok || len(items) == 0 {
		return nil, false
	}

	var ids []int64
	for _, item := range items {
		if idNode, ok := tree.FromValue(item).Field("id"); ok {
			if id, ok := idNode.PositiveInt(); ok {
				ids = append(ids, id)
			}
		}
	}
	return ids, true
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// licenseOf decodes the licensing metadata stored against an attachment.
func licenseOf(att *store.Attachment) kit.ImageLicense {
	var license kit.ImageLicense
	if raw, ok := att.Meta[store.MetaImageLicense]; ok {
		_ = json.Unmarshal(raw, &license)
	}
	return license
}

// SaveLicense persists user-entered licensing metadata for an attachment.
func SaveLicense(st store.Store, attachmentID int64, license kit.ImageLicense) error {
	raw, err := json.Marshal(license)
	if err != nil {
		return err
	}
	return st.SetAttachmentMeta(attachmentID, store.MetaImageLicense, raw)
}
