// Package validate runs the kit compliance rule set: kit-level settings
// rules, template-level rules, image licensing rules, and whatever
// structural rules the active page builder contributes. Problems are
// collected into a kit.Report and never returned as errors.
package validate

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	kiterrors "github.com/conneroisu/kitpack/internal/errors"
	"github.com/conneroisu/kitpack/internal/images"
	"github.com/conneroisu/kitpack/internal/kit"
)

// MinIncludedTemplates is the smallest kit the marketplace accepts.
const MinIncludedTemplates = 3

// ScreenshotSource resolves a template's preview image. Absence is
// signalled with a not-found error, which the validator turns into a
// report entry.
type ScreenshotSource interface {
	TemplateScreenshot(templateID int64) (*kit.Screenshot, error)
}

// StructuralChecker contributes builder-specific compliance rules. The
// returned strings are appended to the templates category, never replacing
// the base rule set.
type StructuralChecker interface {
	DetectStructuralErrors(templates []kit.Template) ([]string, error)
}

// ImageSource discovers the kit's referenced images.
type ImageSource interface {
	FindAll(templates []kit.Template) (*images.Set, error)
}

// Validator evaluates the full rule set for one kit.
type Validator struct {
	Settings    *kit.Settings
	Screenshots ScreenshotSource
	Structural  StructuralChecker
	Images      ImageSource
}

// Detect runs every rule against the given catalog listing and returns the
// collected report. A template or image lacking expected structure yields
// no error for that rule rather than failing the whole report.
func (v *Validator) Detect(templates []kit.Template) (kit.Report, error) {
	report := kit.Report{}

	report.Append(kit.CategoryKit, v.kitErrors())
	if err := v.templateErrors(report, templates); err != nil {
		return nil, err
	}
	if err := v.imageErrors(report, templates); err != nil {
		return nil, err
	}

	return report, nil
}

// kitErrors checks the kit-wide wizard state.
func (v *Validator) kitErrors() []string {
	var msgs []string

	nameMsg := "Please enter a Template Kit name longer than 5 characters"
	if err := validation.Validate(v.Settings.KitName,
		validation.Required.Error(nameMsg),
		validation.Length(5, 0).Error(nameMsg),
	); err != nil {
		msgs = append(msgs, err.Error())
	}
	if err := validation.Validate(v.Settings.PageBuilder,
		validation.Required.Error("Please choose a valid Page Builder for this Template Kit"),
	); err != nil {
		msgs = append(msgs, err.Error())
	}
	if err := validation.Validate(v.Settings.RequiredPlugins,
		validation.Required.Error("Please choose required plugins for this Template Kit"),
	); err != nil {
		msgs = append(msgs, err.Error())
	}

	return msgs
}

// templateErrors checks included templates and appends builder structural
// rules.
func (v *Validator) templateErrors(report kit.Report, templates []kit.Template) error {
	included := 0
	for i := range templates {
		tmpl := &templates[i]
		if !tmpl.IncludeInZip {
			continue
		}
		included++

		// Full-site kits carry their screenshots inside the builder's own
		// export, so only regular template kits require one per template.
		if !v.Settings.FullSiteExport() {
			if _, err := v.Screenshots.TemplateScreenshot(tmpl.ID); err != nil {
				if !kiterrors.IsNotFound(err) {
					return err
				}
				report.Add(kit.CategoryTemplates, "Please include a screenshot for: "+tmpl.Name)
			}
		}
	}

	if included < MinIncludedTemplates {
		report.Add(kit.CategoryTemplates,
			fmt.Sprintf("Please include at least %d templates in this Template Kit", MinIncludedTemplates))
	}

	if v.Structural != nil {
		structural, err := v.Structural.DetectStructuralErrors(templates)
		if err != nil {
			return err
		}
		report.Append(kit.CategoryTemplates, structural)
	}

	return nil
}

// imageErrors checks licensing metadata and file health for every
// discovered image, regardless of template inclusion.
func (v *Validator) imageErrors(report kit.Report, templates []kit.Template) error {
	set, err := v.Images.FindAll(templates)
	if err != nil {
		return err
	}

	for _, img := range set.Records() {
		license := img.License
		switch {
		case license.ImageSource == "" || license.PersonOrPlace == "":
			report.Add(kit.CategoryImages, "Please provide details for image: "+img.FileName)
		case license.PersonOrPlace == "yes" && license.ImageSource != kit.ImageSourceLicensed:
			report.Add(kit.CategoryImages, "Sorry we only allow personally identifiable images from Envato Elements: "+img.FileName)
		case license.ImageSource == kit.ImageSourceUnsure:
			report.Add(kit.CategoryImages, "Unknown is not allowed. Please specify a valid image source for: "+img.FileName)
		case (license.ImageSource == kit.ImageSourceLicensed || license.ImageSource == kit.ImageSourceCC0) && license.ImageURLs == "":
			report.Add(kit.CategoryImages, "Please enter the source image URL for "+img.FileName)
		}

		if img.FileSize == 0 {
			report.Add(kit.CategoryImages, "Sorry we cannot read the file: "+img.FileName)
		} else if img.FileSize > kit.MaxImageFileSize {
			report.Add(kit.CategoryImages,
				fmt.Sprintf("This source image is too large (%.2f MB). Reduce it to less than 1MB: %s",
					float64(img.FileSize)/1048576, img.FileName))
		}

		if img.FileName == "" {
			report.Add(kit.CategoryImages, "Sorry we cannot find an image filename.")
		}
	}

	return nil
}
