// Package archive packages a validated kit into its distributable ZIP:
// template export payloads, screenshots, manifest.json and any
// builder-contributed fixed files. All intermediate temp files live in one
// per-build directory that is removed on every exit path.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	"github.com/conneroisu/kitpack/internal/builders"
	kiterrors "github.com/conneroisu/kitpack/internal/errors"
	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/logging"
	"github.com/conneroisu/kitpack/internal/manifest"
)

// Result is a finished archive: the suggested download filename and the
// complete ZIP byte stream.
type Result struct {
	Filename string
	Data     []byte
}

// Packager builds kit archives for one builder variant.
type Packager struct {
	Builder builders.Builder
	Logger  logging.Logger
}

// BuildZip assembles the archive for every included template. A template
// whose export payload cannot be produced aborts the build; a template
// without a screenshot merely ships without one.
func (p *Packager) BuildZip(ctx context.Context, settings *kit.Settings, templates []kit.Template, images []kit.ImageRecord) (*Result, error) {
	kitName := strings.TrimSpace(settings.KitName)
	if kitName == "" {
		return nil, kiterrors.NewBuildError(kiterrors.ErrCodeMissingKitName, "missing template kit name", nil)
	}

	stage, err := newStaging()
	if err != nil {
		return nil, err
	}
	defer stage.Close()

	for i := range templates {
		t := &templates[i]
		if !t.IncludeInZip {
			continue
		}
		payload, err := p.Builder.TemplateExportData(t)
		if err != nil {
			return nil, err
		}
		data, err := json.MarshalIndent(payload, "", "    ")
		if err != nil {
			return nil, kiterrors.ErrExportFailed(t.Name, err)
		}
		if err := stage.AddBytes(t.ZipFileName, data); err != nil {
			return nil, err
		}

		shot, err := p.Builder.TemplateScreenshot(t.ID)
		if kiterrors.IsNotFound(err) {
			p.Logger.Warn(ctx, err, "template has no screenshot, archive will omit it",
				"template", t.Name)
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := stage.AddFile(shot.ZipFileName, shot.LocalFile); err != nil {
			return nil, err
		}
	}

	m := manifest.Build(settings, templates, images, p.Builder)
	manifestData, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return nil, kiterrors.NewBuildError(kiterrors.ErrCodeArchiveFailed, "encoding manifest", err)
	}
	if err := stage.AddBytes("manifest.json", manifestData); err != nil {
		return nil, err
	}

	if err := p.Builder.AddArchiveFiles(stage); err != nil {
		return nil, kiterrors.NewBuildError(kiterrors.ErrCodeArchiveFailed, "staging builder files", err)
	}

	data, err := stage.Zip()
	if err != nil {
		return nil, err
	}
	p.Logger.Info(ctx, "kit archive built",
		"templates", len(m.Templates),
		"images", len(m.Images),
		"bytes", len(data))
	return &Result{
		Filename: "template-kit-" + kit.SanitizeFilename(kitName+"-"+settings.KitVersion) + ".zip",
		Data:     data,
	}, nil
}

// staging tracks archive entries as temp files under one build directory.
type staging struct {
	dir     string
	entries []stagedEntry
}

type stagedEntry struct {
	name string
	path string
}

var _ builders.Staging = (*staging)(nil)

func newStaging() (*staging, error) {
	dir, err := os.MkdirTemp("", "template-kit-export-")
	if err != nil {
		return nil, kiterrors.NewIOError(kiterrors.ErrCodeArchiveFailed, "creating staging directory", err)
	}
	return &staging{dir: dir}, nil
}

// AddBytes stages an in-memory entry under the given archive path.
func (s *staging) AddBytes(archivePath string, data []byte) error {
	path := filepath.Join(s.dir, uuid.NewString())
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return kiterrors.NewIOError(kiterrors.ErrCodeArchiveFailed, "staging "+archivePath, err)
	}
	s.entries = append(s.entries, stagedEntry{name: archivePath, path: path})
	return nil
}

// AddFile stages an existing local file under the given archive path.
func (s *staging) AddFile(archivePath, localFile string) error {
	if _, err := os.Stat(localFile); err != nil {
		return kiterrors.NewIOError(kiterrors.ErrCodeArchiveFailed, "staging "+archivePath, err)
	}
	s.entries = append(s.entries, stagedEntry{name: archivePath, path: localFile})
	return nil
}

// Zip writes all staged entries into a ZIP stream, in staging order.
func (s *staging) Zip() ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, e := range s.entries {
		w, err := zw.Create(e.name)
		if err != nil {
			return nil, kiterrors.NewBuildError(kiterrors.ErrCodeArchiveFailed, "adding "+e.name, err)
		}
		f, err := os.Open(e.path)
		if err != nil {
			return nil, kiterrors.NewIOError(kiterrors.ErrCodeArchiveFailed, "reading "+e.name, err)
		}
		_, err = io.Copy(w, f)
		f.Close()
		if err != nil {
			return nil, kiterrors.NewBuildError(kiterrors.ErrCodeArchiveFailed, "compressing "+e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, kiterrors.NewBuildError(kiterrors.ErrCodeArchiveFailed, "finalizing archive", err)
	}
	return buf.Bytes(), nil
}

// Close removes the staging directory and everything in it.
func (s *staging) Close() {
	os.RemoveAll(s.dir)
}
