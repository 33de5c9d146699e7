package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/kitpack/internal/builders"
	kiterrors "github.com/conneroisu/kitpack/internal/errors"
	"github.com/conneroisu/kitpack/internal/images"
	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/logging"
	"github.com/conneroisu/kitpack/internal/store"
	"github.com/conneroisu/kitpack/internal/testutils"
	"github.com/conneroisu/kitpack/internal/validate"
)

func TestBuildZipRequiresKitName(t *testing.T) {
	fs := testutils.NewSiteStore(t)
	settings := &kit.Settings{KitName: "   ", KitVersion: "1.0.0", PageBuilder: builders.BuilderElementor}
	b, err := builders.ForSettings(settings, fs, logging.NopLogger{})
	require.NoError(t, err)
	p := &Packager{Builder: b, Logger: logging.NopLogger{}}

	_, err = p.BuildZip(context.Background(), settings, nil, nil)
	require.Error(t, err)
	assert.True(t, kiterrors.IsBuildError(err))
	assert.Contains(t, err.Error(), "missing template kit name")
}

// exportFixture builds a complete valid kit: three templates with builder
// data and screenshots, one licensed image.
func exportFixture(t *testing.T) (*kit.Settings, builders.Builder, []kit.Template, *images.Set, *store.FileStore) {
	t.Helper()
	fs := testutils.NewSiteStore(t)
	settings := &kit.Settings{
		KitName:     "Spring Garden",
		KitVersion:  "1.0.0",
		ExportType:  kit.ExportTypeTemplateKit,
		PageBuilder: builders.BuilderElementor,
		RequiredPlugins: []kit.RequiredPlugin{
			{Name: "Elementor", Slug: "elementor", File: "elementor/elementor.php"},
		},
	}

	imgID := testutils.AddImage(t, fs, 100, "hero.png", 2048, map[string]json.RawMessage{
		store.MetaImageLicense: testutils.MustJSON(t, kit.ImageLicense{
			ImageSource: kit.ImageSourceSelfCreated, PersonOrPlace: "no",
		}),
	})

	names := []string{"Home", "About", "Contact"}
	for i, name := range names {
		id := int64(i + 1)
		shotID := testutils.AddImage(t, fs, 200+id, fmt.Sprintf("shot-%d.png", id), 512, nil)
		data, err := json.Marshal(fmt.Sprintf(`[{"elType": "section", "settings": {"image": {"id": %d}}}]`, imgID))
		require.NoError(t, err)
		testutils.AddTemplate(t, fs, id, name,
			kit.TemplateMeta{TemplateType: "single-page", IncludeInZip: true},
			map[string]json.RawMessage{
				store.MetaElementorData: data,
				store.MetaThumbnailID:   testutils.MustJSON(t, shotID),
			})
	}

	b, err := builders.ForSettings(settings, fs, logging.NopLogger{})
	require.NoError(t, err)
	templates, err := builders.NewCatalog(b, fs, settings).List(true)
	require.NoError(t, err)
	require.Len(t, templates, 3)

	extractor := &images.Extractor{Store: fs, Trees: b}
	set, err := extractor.FindAll(templates)
	require.NoError(t, err)

	return settings, b, templates, set, fs
}

func TestExportEndToEnd(t *testing.T) {
	settings, b, templates, set, fs := exportFixture(t)

	v := &validate.Validator{
		Settings:    settings,
		Screenshots: b,
		Structural:  b,
		Images:      &images.Extractor{Store: fs, Trees: b},
	}
	report, err := v.Detect(templates)
	require.NoError(t, err)
	require.True(t, report.Empty(), "kit should be clean: %v", report)

	var records []kit.ImageRecord
	for _, rec := range set.Records() {
		records = append(records, *rec)
	}

	p := &Packager{Builder: b, Logger: logging.NopLogger{}}
	result, err := p.BuildZip(context.Background(), settings, templates, records)
	require.NoError(t, err)
	assert.Equal(t, "template-kit-spring-garden-1.0.0.zip", result.Filename)

	zr, err := zip.NewReader(bytes.NewReader(result.Data), int64(len(result.Data)))
	require.NoError(t, err)

	byName := map[string]*zip.File{}
	for _, f := range zr.File {
		byName[f.Name] = f
	}
	for _, want := range []string{
		"templates/home.json",
		"templates/about.json",
		"templates/contact.json",
		"screenshots/home.png",
		"screenshots/about.png",
		"screenshots/contact.png",
		"manifest.json",
		"help.html",
	} {
		assert.Contains(t, byName, want)
	}

	rc, err := byName["manifest.json"].Open()
	require.NoError(t, err)
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)

	var m kit.Manifest
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "Spring Garden", m.Title)
	assert.Equal(t, "elementor", m.PageBuilder)
	assert.Len(t, m.Templates, 3)
	require.Len(t, m.Images, 1)
	assert.Equal(t, "hero.png", m.Images[0].Filename)
	assert.Len(t, m.Images[0].Templates, 3)
}

func TestBuildZipSkipsMissingScreenshot(t *testing.T) {
	settings, b, templates, _, fs := exportFixture(t)

	// Drop one thumbnail so its screenshot cannot resolve.
	require.NoError(t, fs.SetDocumentMeta(1, store.MetaThumbnailID, json.RawMessage(`0`)))

	p := &Packager{Builder: b, Logger: logging.NopLogger{}}
	result, err := p.BuildZip(context.Background(), settings, templates, nil)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(result.Data), int64(len(result.Data)))
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["templates/home.json"])
	assert.False(t, names["screenshots/home.png"])
	assert.True(t, names["screenshots/about.png"])
}

// failingScreenshots simulates a store outage during screenshot resolution.
type failingScreenshots struct {
	builders.Builder
}

func (f failingScreenshots) TemplateScreenshot(int64) (*kit.Screenshot, error) {
	return nil, kiterrors.NewIOError(kiterrors.ErrCodeStoreUnavailable, "reading attachment", io.ErrUnexpectedEOF)
}

func TestBuildZipScreenshotIOFailureAborts(t *testing.T) {
	settings, b, templates, _, _ := exportFixture(t)

	p := &Packager{Builder: failingScreenshots{b}, Logger: logging.NopLogger{}}
	_, err := p.BuildZip(context.Background(), settings, templates, nil)
	require.Error(t, err)
	assert.False(t, kiterrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "reading attachment")
}

func TestBuildZipExportFailureAborts(t *testing.T) {
	settings, b, templates, _, _ := exportFixture(t)
	templates = append(templates, kit.Template{ID: 404, Name: "Ghost", IncludeInZip: true,
		ZipFileName: "templates/ghost.json"})

	p := &Packager{Builder: b, Logger: logging.NopLogger{}}
	_, err := p.BuildZip(context.Background(), settings, templates, nil)
	require.Error(t, err)
	assert.True(t, kiterrors.IsBuildError(err))
}
