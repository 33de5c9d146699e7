package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kiterrors "github.com/conneroisu/kitpack/internal/errors"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := OpenFileStore(filepath.Join(t.TempDir(), "site.json"))
	require.NoError(t, err)
	return fs
}

func TestOpenMissingFileIsEmptyStore(t *testing.T) {
	fs := tempStore(t)

	docs, err := fs.DocumentsByType(TypeKitTemplate)
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, ok := fs.Get("kit_name")
	assert.False(t, ok)
}

func TestOpenMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := OpenFileStore(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed site store")
}

func TestMutationsPersist(t *testing.T) {
	fs := tempStore(t)
	require.NoError(t, fs.AddDocument(&Document{ID: 1, Title: "Home", Type: TypeKitTemplate}))
	require.NoError(t, fs.SetDocumentMeta(1, MetaThumbnailID, json.RawMessage(`42`)))
	require.NoError(t, fs.UpdateDocument(1, "Home Page", 3))
	require.NoError(t, fs.Set("kit_name", "Spring Garden"))

	// Reopen from disk and check everything round-tripped.
	reopened, err := OpenFileStore(fs.Path())
	require.NoError(t, err)

	doc, err := reopened.Document(1)
	require.NoError(t, err)
	assert.Equal(t, "Home Page", doc.Title)
	assert.Equal(t, 3, doc.MenuOrder)
	assert.Equal(t, int64(42), doc.MetaInt64(MetaThumbnailID))

	name, ok := reopened.Get("kit_name")
	assert.True(t, ok)
	assert.Equal(t, "Spring Garden", name)
}

func TestDocumentNotFound(t *testing.T) {
	fs := tempStore(t)

	_, err := fs.Document(99)
	assert.True(t, kiterrors.IsNotFound(err))

	err = fs.SetDocumentMeta(99, MetaThumbnailID, json.RawMessage(`1`))
	assert.True(t, kiterrors.IsNotFound(err))

	_, err = fs.Attachment(99)
	assert.True(t, kiterrors.IsNotFound(err))

	err = fs.SetAttachmentMeta(99, MetaImageLicense, json.RawMessage(`{}`))
	assert.True(t, kiterrors.IsNotFound(err))
}

func TestAttachmentFileResolvedAgainstStoreDir(t *testing.T) {
	fs := tempStore(t)
	require.NoError(t, fs.AddAttachment(&Attachment{ID: 5, File: "uploads/hero.png"}))

	att, err := fs.Attachment(5)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fs.Dir(), "uploads/hero.png"), att.File)

	abs := filepath.Join(t.TempDir(), "hero.png")
	require.NoError(t, fs.AddAttachment(&Attachment{ID: 6, File: abs}))
	att, err = fs.Attachment(6)
	require.NoError(t, err)
	assert.Equal(t, abs, att.File)
}

func TestDocumentMetaHelpers(t *testing.T) {
	doc := &Document{
		Meta: map[string]json.RawMessage{
			"as_number":  json.RawMessage(`7`),
			"as_string":  json.RawMessage(`"7"`),
			"not_number": json.RawMessage(`"seven"`),
			"text":       json.RawMessage(`"hello"`),
		},
		Terms: map[string][]string{TaxonomyLibraryType: {"header", "footer"}},
	}

	assert.Equal(t, int64(7), doc.MetaInt64("as_number"))
	assert.Equal(t, int64(7), doc.MetaInt64("as_string"))
	assert.Zero(t, doc.MetaInt64("not_number"))
	assert.Zero(t, doc.MetaInt64("absent"))

	assert.Equal(t, "hello", doc.MetaString("text"))
	assert.Equal(t, "", doc.MetaString("as_number"))

	assert.Equal(t, "header", doc.Term(TaxonomyLibraryType))
	assert.Equal(t, "", doc.Term("missing"))
}
