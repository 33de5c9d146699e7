package kit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memOptions map[string]string

func (m memOptions) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m memOptions) Set(key, value string) error {
	m[key] = value
	return nil
}

func TestLoadSettingsDefaults(t *testing.T) {
	s := LoadSettings(memOptions{})

	assert.Empty(t, s.KitName)
	assert.Equal(t, DefaultKitVersion, s.KitVersion)
	assert.Empty(t, s.PageBuilder)
	assert.False(t, s.FullSiteExport())
	assert.NotNil(t, s.PluginStatusCache)
}

func TestSettingsRoundTrip(t *testing.T) {
	opts := memOptions{}
	s := &Settings{
		KitName:     "Spring Garden",
		KitVersion:  "1.2.0",
		ExportType:  ExportTypeElementorKit,
		PageBuilder: "elementor",
		RequiredPlugins: []RequiredPlugin{
			{Name: "Elementor", File: "elementor/elementor.php", Slug: "elementor", Version: "3.18.0"},
		},
		PluginStatusCache: map[string]bool{"elementor": true},
	}
	require.NoError(t, s.Save(opts))

	got := LoadSettings(opts)
	assert.Equal(t, s.KitName, got.KitName)
	assert.Equal(t, s.KitVersion, got.KitVersion)
	assert.Equal(t, s.ExportType, got.ExportType)
	assert.Equal(t, s.PageBuilder, got.PageBuilder)
	assert.Equal(t, s.RequiredPlugins, got.RequiredPlugins)
	assert.Equal(t, s.PluginStatusCache, got.PluginStatusCache)
	assert.True(t, got.FullSiteExport())
}

func TestLoadSettingsMalformedPluginList(t *testing.T) {
	opts := memOptions{
		OptionKitName:         "Broken",
		OptionRequiredPlugins: "{not json",
	}

	s := LoadSettings(opts)
	assert.Equal(t, "Broken", s.KitName)
	assert.Empty(t, s.RequiredPlugins)
}

func TestReport(t *testing.T) {
	r := Report{}
	assert.True(t, r.Empty())
	assert.Zero(t, r.Count())

	r.Add(CategoryKit, "missing name")
	r.Append(CategoryTemplates, []string{"a", "b"})
	r.Append(CategoryImages, nil)

	assert.False(t, r.Empty())
	assert.Equal(t, 3, r.Count())
	assert.Equal(t, []string{"a", "b"}, r[CategoryTemplates])
	assert.NotContains(t, r, CategoryImages)
}
