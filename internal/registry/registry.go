// Package registry checks plugin dependencies against the WordPress.org
// plugin directory. Kits may only require plugins the directory knows about,
// with a short allow-list of commercial exceptions. Lookup results are
// cached in the wizard state so the directory is hit once per slug.
package registry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/logging"
	"github.com/conneroisu/kitpack/internal/store"
)

// DefaultEndpoint is the plugin directory's information API.
const DefaultEndpoint = "https://api.wordpress.org/plugins/info/1.2/"

// Plugins never listed on the directory but still allowed as dependencies.
var allowedOffDirectory = map[string]bool{
	"elementor-pro": true,
}

// The export tool itself can never be a kit dependency.
var deniedSlugs = map[string]bool{
	"template-kit-export": true,
}

// Full-site Elementor kits only import cleanly alongside these plugins.
var elementorKitSlugs = map[string]bool{
	"elementor":     true,
	"elementor-pro": true,
	"woocommerce":   true,
}

// PluginOption is one installed plugin offered (or refused) as a kit
// dependency.
type PluginOption struct {
	Plugin  store.InstalledPlugin
	Allowed bool
	Reason  string
}

// Client queries the plugin directory.
type Client struct {
	HTTPClient *http.Client
	Endpoint   string
	Logger     logging.Logger
}

// NewClient builds a directory client with a conservative timeout.
func NewClient(logger logging.Logger) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Endpoint:   DefaultEndpoint,
		Logger:     logger,
	}
}

// EligiblePlugins classifies every active installed plugin as an allowed or
// refused dependency for the given kit settings. Directory lookups populate
// settings.PluginStatusCache; the caller persists the settings afterwards.
func (c *Client) EligiblePlugins(ctx context.Context, settings *kit.Settings, env *store.Environment) []PluginOption {
	if settings.PluginStatusCache == nil {
		settings.PluginStatusCache = map[string]bool{}
	}
	var options []PluginOption
	for _, plugin := range env.InstalledPlugins {
		if !plugin.Active || deniedSlugs[plugin.Slug] {
			continue
		}
		if settings.FullSiteExport() && !elementorKitSlugs[plugin.Slug] {
			options = append(options, PluginOption{
				Plugin: plugin,
				Reason: "Sorry this plugin can not be included as a dependency. Elementor Kits are only compatible with Elementor, Elementor Pro and WooCommerce plugins.",
			})
			continue
		}
		if c.pluginListed(ctx, plugin.Slug, settings.PluginStatusCache) {
			options = append(options, PluginOption{Plugin: plugin, Allowed: true})
			continue
		}
		options = append(options, PluginOption{
			Plugin: plugin,
			Reason: "Sorry this plugin can not be included as a dependency. Please use plugins from WordPress.org as per the Template Kit guidelines.",
		})
	}
	return options
}

// pluginListed reports whether the directory knows the slug, consulting the
// cache first. A failed lookup counts as not listed and is not cached, so a
// transient outage does not poison the wizard state.
func (c *Client) pluginListed(ctx context.Context, slug string, cache map[string]bool) bool {
	if allowedOffDirectory[slug] {
		return true
	}
	if listed, ok := cache[slug]; ok {
		return listed
	}
	listed, err := c.lookup(ctx, slug)
	if err != nil {
		c.Logger.Warn(ctx, err, "plugin directory lookup failed", "slug", slug)
		return false
	}
	cache[slug] = listed
	return listed
}

func (c *Client) lookup(ctx context.Context, slug string) (bool, error) {
	query := url.Values{}
	query.Set("action", "plugin_information")
	query.Set("request[slug]", slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return false, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, err
	}
	var info struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return false, err
	}
	return info.Error == "", nil
}
