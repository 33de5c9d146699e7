// Package testutils provides fixture helpers shared by package tests: a
// throwaway file-backed site store and attachment image files.
package testutils

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/store"
)

// NewSiteStore opens an empty file-backed store under t.TempDir.
func NewSiteStore(t *testing.T) *store.FileStore {
	t.Helper()
	fs, err := store.OpenFileStore(filepath.Join(t.TempDir(), "site.json"))
	require.NoError(t, err)
	return fs
}

// NewSiteStoreWithEnv opens a store seeded with hosting-environment facts.
func NewSiteStoreWithEnv(t *testing.T, env store.Environment) *store.FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.json")
	data, err := json.Marshal(map[string]interface{}{"environment": env})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	fs, err := store.OpenFileStore(path)
	require.NoError(t, err)
	return fs
}

// MustJSON marshals a value for use as document or attachment meta.
func MustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

// AddTemplate stores a kit template document with the given metadata and
// returns its id.
func AddTemplate(t *testing.T, fs *store.FileStore, id int64, title string, meta kit.TemplateMeta, extra map[string]json.RawMessage) int64 {
	t.Helper()
	doc := &store.Document{
		ID:    id,
		Title: title,
		Type:  store.TypeKitTemplate,
		Meta:  map[string]json.RawMessage{store.MetaTemplateKit: MustJSON(t, meta)},
	}
	for k, v := range extra {
		doc.Meta[k] = v
	}
	require.NoError(t, fs.AddDocument(doc))
	return id
}

// WritePNG writes a small valid PNG next to the site store and returns its
// path relative to the store directory.
func WritePNG(t *testing.T, fs *store.FileStore, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(fs.Dir(), name), buf.Bytes(), 0o644))
	return name
}

// AddImage stores an attachment backed by a real PNG file and returns its id.
func AddImage(t *testing.T, fs *store.FileStore, id int64, name string, size int64, meta map[string]json.RawMessage) int64 {
	t.Helper()
	file := WritePNG(t, fs, name)
	require.NoError(t, fs.AddAttachment(&store.Attachment{
		ID:           id,
		File:         file,
		URL:          "https://example.test/wp-content/uploads/" + name,
		ThumbnailURL: "https://example.test/wp-content/uploads/thumb-" + name,
		Width:        4,
		Height:       4,
		FileSize:     size,
		Meta:         meta,
	}))
	return id
}
