package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	kiterrors "github.com/conneroisu/kitpack/internal/errors"
)

// siteFile is the on-disk shape of a file-backed site store.
type siteFile struct {
	Options     map[string]string `json:"options"`
	Environment Environment       `json:"environment"`
	Documents   []*Document       `json:"documents"`
	Attachments []*Attachment     `json:"attachments"`
}

// FileStore implements Store and the options store over a single JSON file.
// Documents keep file order, which gives the catalog its stable enumeration
// order. Every mutation is written straight back to disk.
type FileStore struct {
	path string
	site siteFile
}

// OpenFileStore loads a site file. A missing file yields an empty store
// that is created on first write.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path: path,
		site: siteFile{Options: map[string]string{}},
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, kiterrors.NewIOError(kiterrors.ErrCodeStoreUnavailable, "cannot read site store "+path, err)
	}
	if err := json.Unmarshal(data, &fs.site); err != nil {
		return nil, kiterrors.NewIOError(kiterrors.ErrCodeStoreUnavailable, "malformed site store "+path, err)
	}
	if fs.site.Options == nil {
		fs.site.Options = map[string]string{}
	}
	return fs, nil
}

// Path returns the backing file path.
func (fs *FileStore) Path() string {
	return fs.path
}

// Dir returns the directory holding the site file. Attachment file entries
// are resolved relative to it.
func (fs *FileStore) Dir() string {
	return filepath.Dir(fs.path)
}

func (fs *FileStore) save() error {
	data, err := json.MarshalIndent(fs.site, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal site store: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0o644); err != nil {
		return kiterrors.NewIOError(kiterrors.ErrCodeStoreUnavailable, "cannot write site store "+fs.path, err)
	}
	return nil
}

// DocumentsByType returns documents of one type in stored order.
func (fs *FileStore) DocumentsByType(docType string) ([]*Document, error) {
	var docs []*Document
	for _, doc := range fs.site.Documents {
		if doc.Type == docType {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// Document returns a document by id.
func (fs *FileStore) Document(id int64) (*Document, error) {
	for _, doc := range fs.site.Documents {
		if doc.ID == id {
			return doc, nil
		}
	}
	return nil, kiterrors.NewNotFoundError(kiterrors.ErrCodeDocumentMissing, fmt.Sprintf("no document with id %d", id))
}

// SetDocumentMeta writes one meta entry and persists the store.
func (fs *FileStore) SetDocumentMeta(id int64, key string, value json.RawMessage) error {
	doc, err := fs.Document(id)
	if err != nil {
		return err
	}
	if doc.Meta == nil {
		doc.Meta = map[string]json.RawMessage{}
	}
	doc.Meta[key] = value
	return fs.save()
}

// UpdateDocument updates a document's title and menu order.
func (fs *FileStore) UpdateDocument(id int64, title string, menuOrder int) error {
	doc, err := fs.Document(id)
	if err != nil {
		return err
	}
	doc.Title = title
	doc.MenuOrder = menuOrder
	return fs.save()
}

// Attachment resolves an image attachment by id. The returned attachment's
// File is made absolute against the store directory.
func (fs *FileStore) Attachment(id int64) (*Attachment, error) {
	for _, att := range fs.site.Attachments {
		if att.ID == id {
			resolved := *att
			if resolved.File != "" && !filepath.IsAbs(resolved.File) {
				resolved.File = filepath.Join(fs.Dir(), resolved.File)
			}
			return &resolved, nil
		}
	}
	return nil, kiterrors.NewNotFoundError(kiterrors.ErrCodeDocumentMissing, fmt.Sprintf("no attachment with id %d", id))
}

// SetAttachmentMeta writes one attachment meta entry and persists the store.
func (fs *FileStore) SetAttachmentMeta(id int64, key string, value json.RawMessage) error {
	for _, att := range fs.site.Attachments {
		if att.ID == id {
			if att.Meta == nil {
				att.Meta = map[string]json.RawMessage{}
			}
			att.Meta[key] = value
			return fs.save()
		}
	}
	return kiterrors.NewNotFoundError(kiterrors.ErrCodeDocumentMissing, fmt.Sprintf("no attachment with id %d", id))
}

// Environment returns the recorded hosting-site facts.
func (fs *FileStore) Environment() (*Environment, error) {
	env := fs.site.Environment
	return &env, nil
}

// Get implements the options store read.
func (fs *FileStore) Get(key string) (string, bool) {
	v, ok := fs.site.Options[key]
	return v, ok
}

// Set implements the options store write.
func (fs *FileStore) Set(key, value string) error {
	fs.site.Options[key] = value
	return fs.save()
}

// AddDocument and AddAttachment build fixtures; they are exported for tests
// and the demo data generator.
func (fs *FileStore) AddDocument(doc *Document) error {
	fs.site.Documents = append(fs.site.Documents, doc)
	return fs.save()
}

func (fs *FileStore) AddAttachment(att *Attachment) error {
	fs.site.Attachments = append(fs.site.Attachments, att)
	return fs.save()
}
