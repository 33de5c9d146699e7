package builders

import (
	"embed"

	kiterrors "github.com/conneroisu/kitpack/internal/errors"
	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/logging"
	"github.com/conneroisu/kitpack/internal/store"
)

//go:embed assets/gutenberg
var gutenbergAssets embed.FS

// Gutenberg exports templates built with the block editor. Block markup is
// carried verbatim in the template document, so the export payload is the
// raw content plus metadata; there is no builder tree to validate.
type Gutenberg struct {
	Base
}

func NewGutenberg(st store.Store, settings *kit.Settings, logger logging.Logger) *Gutenberg {
	return &Gutenberg{Base: Base{Store: st, Settings: settings, Logger: logger}}
}

func (g *Gutenberg) PageBuilderID() string {
	return BuilderGutenberg
}

// TemplateExportData exports the raw block markup of one template.
func (g *Gutenberg) TemplateExportData(t *kit.Template) (map[string]interface{}, error) {
	doc, err := g.Store.Document(t.ID)
	if err != nil {
		return nil, kiterrors.ErrExportFailed(t.Name, err)
	}
	return map[string]interface{}{
		"title":    doc.Title,
		"metadata": t.Metadata,
		"content":  doc.MetaString(store.MetaPostContent),
	}, nil
}

// AddArchiveFiles stages the importer help document.
func (g *Gutenberg) AddArchiveFiles(staging Staging) error {
	help, err := gutenbergAssets.ReadFile("assets/gutenberg/help.html")
	if err != nil {
		return err
	}
	return staging.AddBytes("help.html", help)
}
