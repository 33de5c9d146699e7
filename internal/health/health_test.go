package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/kitpack/internal/builders"
	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/logging"
	"github.com/conneroisu/kitpack/internal/store"
	"github.com/conneroisu/kitpack/internal/testutils"
)

func TestPublicDomain(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com", true},
		{"https://kits.example.dev", true},
		{"http://localhost:8080", false},
		{"http://mysite.test", false},
		{"http://mysite.local", false},
		{"http://192.168.1.10", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PublicDomain(tt.url), tt.url)
	}
}

func TestCheckWithoutBuilder(t *testing.T) {
	env := &store.Environment{
		SiteURL:              "http://localhost:8080",
		CoreUpdatePending:    true,
		PluginUpdatesPending: []string{"WooCommerce"},
	}

	report, err := Check(env, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Please ensure your website is publicly accessible (i.e. not localhost). Users will need to access your website to preview any templates and import any images.",
		"Please update WordPress to the latest version.",
		"Please update plugin to latest version: WooCommerce",
		"Please choose a Page/Site Builder from the available drop down options.",
	}, report.Errors)
	assert.Empty(t, report.Successes)
}

func TestCheckMergesBuilderFindings(t *testing.T) {
	fs := testutils.NewSiteStoreWithEnv(t, store.Environment{
		SiteURL:         "https://example.com",
		ActiveTheme:     "hello-elementor",
		BuilderVersions: map[string]string{"elementor": "3.18.0"},
	})
	b, err := builders.ForSettings(&kit.Settings{PageBuilder: builders.BuilderElementor}, fs, logging.NopLogger{})
	require.NoError(t, err)
	env, err := fs.Environment()
	require.NoError(t, err)

	report, err := Check(env, b)
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	assert.Equal(t, []string{
		"WordPress is up-to-date.",
		`The "Elementor" plugin is installed.`,
		`The "Hello Elementor" theme is active.`,
	}, report.Successes)
}
