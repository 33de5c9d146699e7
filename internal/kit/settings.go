package kit

import "encoding/json"

// Option-store keys used by the wizard state.
const (
	OptionExportType        = "export_type"
	OptionKitName           = "kit_name"
	OptionKitVersion        = "kit_version"
	OptionPageBuilder       = "page_builder"
	OptionRequiredPlugins   = "required_plugins"
	OptionPluginStatusCache = "plugins_api_status_cache"
)

// DefaultKitVersion is used until the author supplies a version.
const DefaultKitVersion = "1.0.0"

// OptionsStore is the namespaced key/value store backing wizard state.
// Complex values are JSON-encoded strings.
type OptionsStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Settings is the kit-wide wizard state, read from the options store at the
// UI boundary and passed through the pipeline as a value. Core algorithms
// never touch the persistent store directly.
type Settings struct {
	KitName           string
	KitVersion        string
	ExportType        ExportType
	PageBuilder       string
	RequiredPlugins   []RequiredPlugin
	PluginStatusCache map[string]bool
}

// LoadSettings reads the persisted wizard state. Missing keys fall back to
// zero values; the kit version defaults to DefaultKitVersion.
func LoadSettings(opts OptionsStore) *Settings {
	s := &Settings{
		KitVersion:        DefaultKitVersion,
		PluginStatusCache: map[string]bool{},
	}
	if v, ok := opts.Get(OptionKitName); ok {
		s.KitName = v
	}
	if v, ok := opts.Get(OptionKitVersion); ok && v != "" {
		s.KitVersion = v
	}
	if v, ok := opts.Get(OptionExportType); ok {
		s.ExportType = ExportType(v)
	}
	if v, ok := opts.Get(OptionPageBuilder); ok {
		s.PageBuilder = v
	}
	if v, ok := opts.Get(OptionRequiredPlugins); ok && v != "" {
		// A malformed value behaves like an empty plugin list.
		_ = json.Unmarshal([]byte(v), &s.RequiredPlugins)
	}
	if v, ok := opts.Get(OptionPluginStatusCache); ok && v != "" {
		_ = json.Unmarshal([]byte(v), &s.PluginStatusCache)
	}
	return s
}

// Save writes the wizard state back to the options store.
func (s *Settings) Save(opts OptionsStore) error {
	if err := opts.Set(OptionKitName, s.KitName); err != nil {
		return err
	}
	if err := opts.Set(OptionKitVersion, s.KitVersion); err != nil {
		return err
	}
	if err := opts.Set(OptionExportType, string(s.ExportType)); err != nil {
		return err
	}
	if err := opts.Set(OptionPageBuilder, s.PageBuilder); err != nil {
		return err
	}
	plugins, err := json.Marshal(s.RequiredPlugins)
	if err != nil {
		return err
	}
	if err := opts.Set(OptionRequiredPlugins, string(plugins)); err != nil {
		return err
	}
	cache, err := json.Marshal(s.PluginStatusCache)
	if err != nil {
		return err
	}
	return opts.Set(OptionPluginStatusCache, string(cache))
}

// FullSiteExport reports whether every enumerated template should be forced
// into the archive so compliance validation covers the whole site.
func (s *Settings) FullSiteExport() bool {
	return s.ExportType == ExportTypeElementorKit
}
