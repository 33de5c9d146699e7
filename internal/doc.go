// Package internal contains the core implementation packages for kitpack.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the kitpack CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - kit: core value types (settings, templates, images, report, manifest)
//   - store: document/attachment/options access to the hosting site
//   - catalog: template enumeration from heterogeneous sources
//   - tree: builder-tree JSON model with a generic depth-first visitor
//   - images: image discovery, licensing metadata and auto-tagging
//   - validate: the kit compliance rule set
//   - builders: per-page-builder behavior (Elementor, Gutenberg)
//   - manifest: manifest.json assembly
//   - archive: ZIP packaging with staged temp files
//   - registry: WordPress.org plugin directory lookups with caching
//   - health: pre-export environment checks
//   - markup: marketplace item-page attribution markup
//   - wizard: the interactive five-step export flow
//   - config, logging, errors, version: ambient infrastructure
//
// # Inter-Package Communication
//
// Packages communicate through small consumer-side interfaces:
//
//   - catalog.Source is implemented by the base content type and each
//     builder's extra sources
//   - validate consumes ScreenshotSource, StructuralChecker and
//     ImageSource, all satisfied by a builders.Builder plus the extractor
//   - manifest.TemplateDescriber and builders.Staging decouple manifest
//     assembly and archive staging from concrete builder types
//   - store.Store is the only seam to the hosting CMS; the file-backed
//     implementation serves the CLI and tests alike
//
// Validation failures are values (kit.Report), never errors: every rule
// runs and every problem is reported in one pass.
package internal
