package cmd

import (
	"fmt"
	"os"

	"github.com/conneroisu/kitpack/internal/builders"
	"github.com/conneroisu/kitpack/internal/catalog"
	"github.com/conneroisu/kitpack/internal/config"
	"github.com/conneroisu/kitpack/internal/images"
	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/logging"
	"github.com/conneroisu/kitpack/internal/store"
)

// runtime wires the pipeline pieces every command needs: configuration, the
// structured logger, the site store and the persisted kit settings.
type runtime struct {
	cfg      *config.Config
	logger   logging.Logger
	store    *store.FileStore
	settings *kit.Settings
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(cfg.Logging.Level),
		Format:    cfg.Logging.Format,
		Output:    os.Stderr,
		Component: "cli",
	})

	st, err := store.OpenFileStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open site store %s: %w", cfg.Store.Path, err)
	}

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		settings: kit.LoadSettings(st),
	}, nil
}

// builder resolves the configured page-builder strategy.
func (r *runtime) builder() (builders.Builder, error) {
	return builders.ForSettings(r.settings, r.store, r.logger)
}

// catalog assembles the template catalog for a builder.
func (r *runtime) catalog(b builders.Builder) *catalog.Catalog {
	return builders.NewCatalog(b, r.store, r.settings)
}

// extractor builds the image extractor over a builder's trees.
func (r *runtime) extractor(b builders.Builder) *images.Extractor {
	return &images.Extractor{Store: r.store, Trees: b}
}

// imageRecords flattens an image set for the packager and manifest.
func imageRecords(set *images.Set) []kit.ImageRecord {
	records := set.Records()
	out := make([]kit.ImageRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, *rec)
	}
	return out
}
