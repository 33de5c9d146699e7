package catalog

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/store"
	"github.com/conneroisu/kitpack/internal/testutils"
)

type staticSource []kit.Template

func (s staticSource) Templates(onlyIncluded bool) ([]kit.Template, error) {
	var out []kit.Template
	for _, t := range s {
		if onlyIncluded && !t.IncludeInZip {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func TestListSortsByOrderStably(t *testing.T) {
	a := staticSource{
		{ID: 1, Name: "One", ZipFileName: "templates/one.json", Order: 2, IncludeInZip: true},
		{ID: 2, Name: "Two", ZipFileName: "templates/two.json", Order: 1, IncludeInZip: true},
	}
	b := staticSource{
		{ID: 3, Name: "Three", ZipFileName: "templates/three.json", Order: 1, IncludeInZip: true},
	}

	templates, err := New(a, b).List(true)
	require.NoError(t, err)

	var ids []int64
	for _, tmpl := range templates {
		ids = append(ids, tmpl.ID)
	}
	// Equal orders keep source enumeration order: 2 before 3.
	assert.Equal(t, []int64{2, 3, 1}, ids)
}

func TestListDedupesZipFileNames(t *testing.T) {
	src := staticSource{
		{ID: 10, Name: "About", ZipFileName: "templates/about.json", IncludeInZip: true},
		{ID: 11, Name: "About", ZipFileName: "templates/about.json", IncludeInZip: true},
		{ID: 12, Name: "About", ZipFileName: "templates/about.json", IncludeInZip: true},
	}

	templates, err := New(src).List(true)
	require.NoError(t, err)
	require.Len(t, templates, 3)

	assert.Equal(t, "templates/about.json", templates[0].ZipFileName)
	assert.Equal(t, "templates/about-11.json", templates[1].ZipFileName)
	assert.Equal(t, "templates/about-12.json", templates[2].ZipFileName)
}

func TestListSortProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("list is ascending by order", prop.ForAll(
		func(orders []int) bool {
			src := make(staticSource, len(orders))
			for i, o := range orders {
				src[i] = kit.Template{
					ID:           int64(i + 1),
					Name:         "t",
					ZipFileName:  "templates/t.json",
					Order:        o,
					IncludeInZip: true,
				}
			}
			templates, err := New(src).List(true)
			if err != nil {
				return false
			}
			for i := 1; i < len(templates); i++ {
				if templates[i-1].Order > templates[i].Order {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(-5, 5)),
	))

	properties.TestingRun(t)
}

func newCPTFixture(t *testing.T) store.Store {
	t.Helper()
	fs := testutils.NewSiteStore(t)

	meta := func(include bool) json.RawMessage {
		raw, err := json.Marshal(kit.TemplateMeta{TemplateType: "single-home", IncludeInZip: include})
		require.NoError(t, err)
		return raw
	}
	require.NoError(t, fs.AddDocument(&store.Document{
		ID: 1, Title: "Home", Type: store.TypeKitTemplate, MenuOrder: 1,
		Meta: map[string]json.RawMessage{store.MetaTemplateKit: meta(true)},
	}))
	require.NoError(t, fs.AddDocument(&store.Document{
		ID: 2, Title: "Draft Footer", Type: store.TypeKitTemplate, MenuOrder: 2,
		Meta: map[string]json.RawMessage{store.MetaTemplateKit: meta(false)},
	}))
	require.NoError(t, fs.AddDocument(&store.Document{
		ID: 3, Title: "Blog Post", Type: store.TypePost, MenuOrder: 0,
	}))
	return fs
}

func TestCPTSourceRespectsInclusion(t *testing.T) {
	st := newCPTFixture(t)
	src := &CPTSource{Store: st, Settings: &kit.Settings{ExportType: kit.ExportTypeTemplateKit}}

	all, err := src.Templates(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "templates/home.json", all[0].ZipFileName)
	assert.Equal(t, kit.SourceTemplate, all[0].Source)

	included, err := src.Templates(true)
	require.NoError(t, err)
	require.Len(t, included, 1)
	assert.Equal(t, "Home", included[0].Name)
}

func TestCPTSourceFullSiteForcesInclusion(t *testing.T) {
	st := newCPTFixture(t)
	src := &CPTSource{Store: st, Settings: &kit.Settings{ExportType: kit.ExportTypeElementorKit}}

	included, err := src.Templates(true)
	require.NoError(t, err)
	assert.Len(t, included, 2)
	for _, tmpl := range included {
		assert.True(t, tmpl.IncludeInZip)
	}
}

func TestContentPostsSource(t *testing.T) {
	st := newCPTFixture(t)

	off := &ContentPostsSource{Store: st, Settings: &kit.Settings{ExportType: kit.ExportTypeTemplateKit}}
	templates, err := off.Templates(false)
	require.NoError(t, err)
	assert.Empty(t, templates)

	on := &ContentPostsSource{Store: st, Settings: &kit.Settings{ExportType: kit.ExportTypeElementorKit}}
	templates, err = on.Templates(true)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "templates/post-blog-post.json", templates[0].ZipFileName)
	assert.Equal(t, "page", templates[0].Metadata.LibraryType)
	assert.Equal(t, kit.SourceContentPost, templates[0].Source)
}
