package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kiterrors "github.com/conneroisu/kitpack/internal/errors"
	"github.com/conneroisu/kitpack/internal/images"
	"github.com/conneroisu/kitpack/internal/kit"
)

type fakeScreenshots map[int64]bool

func (f fakeScreenshots) TemplateScreenshot(templateID int64) (*kit.Screenshot, error) {
	if f[templateID] {
		return &kit.Screenshot{ZipFileName: "screenshots/t.png"}, nil
	}
	return nil, kiterrors.ErrNoScreenshot("t")
}

type fakeStructural []string

func (f fakeStructural) DetectStructuralErrors(templates []kit.Template) ([]string, error) {
	return f, nil
}

type fakeImages []*kit.ImageRecord

func (f fakeImages) FindAll(templates []kit.Template) (*images.Set, error) {
	set := images.NewSet()
	for _, rec := range f {
		set.Add(rec)
	}
	return set, nil
}

func validSettings() *kit.Settings {
	return &kit.Settings{
		KitName:     "Spring Garden",
		KitVersion:  "1.0.0",
		ExportType:  kit.ExportTypeTemplateKit,
		PageBuilder: "elementor",
		RequiredPlugins: []kit.RequiredPlugin{
			{Name: "Elementor", Slug: "elementor"},
		},
	}
}

func threeTemplates() []kit.Template {
	return []kit.Template{
		{ID: 1, Name: "Home", IncludeInZip: true},
		{ID: 2, Name: "About", IncludeInZip: true},
		{ID: 3, Name: "Contact", IncludeInZip: true},
	}
}

func newValidator(settings *kit.Settings) *Validator {
	return &Validator{
		Settings:    settings,
		Screenshots: fakeScreenshots{1: true, 2: true, 3: true},
		Structural:  fakeStructural(nil),
		Images:      fakeImages(nil),
	}
}

func TestDetectCleanKit(t *testing.T) {
	report, err := newValidator(validSettings()).Detect(threeTemplates())
	require.NoError(t, err)
	assert.True(t, report.Empty(), "unexpected problems: %v", report)
}

func TestKitNameLength(t *testing.T) {
	const nameMsg = "Please enter a Template Kit name longer than 5 characters"

	short := validSettings()
	short.KitName = "Four"
	report, err := newValidator(short).Detect(threeTemplates())
	require.NoError(t, err)
	assert.Contains(t, report[kit.CategoryKit], nameMsg)

	exact := validSettings()
	exact.KitName = "Fives"
	report, err = newValidator(exact).Detect(threeTemplates())
	require.NoError(t, err)
	assert.NotContains(t, report[kit.CategoryKit], nameMsg)

	empty := validSettings()
	empty.KitName = ""
	report, err = newValidator(empty).Detect(threeTemplates())
	require.NoError(t, err)
	assert.Contains(t, report[kit.CategoryKit], nameMsg)
}

func TestKitSettingsRules(t *testing.T) {
	s := validSettings()
	s.PageBuilder = ""
	s.RequiredPlugins = nil

	report, err := newValidator(s).Detect(threeTemplates())
	require.NoError(t, err)
	assert.Contains(t, report[kit.CategoryKit], "Please choose a valid Page Builder for this Template Kit")
	assert.Contains(t, report[kit.CategoryKit], "Please choose required plugins for this Template Kit")
}

func TestMinimumIncludedTemplates(t *testing.T) {
	templates := threeTemplates()
	templates[2].IncludeInZip = false

	report, err := newValidator(validSettings()).Detect(templates)
	require.NoError(t, err)
	assert.Contains(t, report[kit.CategoryTemplates],
		"Please include at least 3 templates in this Template Kit")
}

func TestMissingScreenshot(t *testing.T) {
	v := newValidator(validSettings())
	v.Screenshots = fakeScreenshots{1: true, 2: true}

	report, err := v.Detect(threeTemplates())
	require.NoError(t, err)
	assert.Contains(t, report[kit.CategoryTemplates], "Please include a screenshot for: Contact")
}

func TestFullSiteSkipsScreenshots(t *testing.T) {
	s := validSettings()
	s.ExportType = kit.ExportTypeElementorKit
	v := newValidator(s)
	v.Screenshots = fakeScreenshots{}

	report, err := v.Detect(threeTemplates())
	require.NoError(t, err)
	assert.Empty(t, report[kit.CategoryTemplates])
}

func TestStructuralErrorsAppended(t *testing.T) {
	v := newValidator(validSettings())
	v.Structural = fakeStructural{"Please remove Custom CSS from the widget in template: Home"}

	report, err := v.Detect(threeTemplates())
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"Please remove Custom CSS from the widget in template: Home"},
		report[kit.CategoryTemplates])
}

func TestImageRules(t *testing.T) {
	tests := []struct {
		name string
		rec  kit.ImageRecord
		want []string
	}{
		{
			name: "missing details",
			rec:  kit.ImageRecord{ID: 1, FileName: "a.png", FileSize: 10},
			want: []string{"Please provide details for image: a.png"},
		},
		{
			name: "personally identifiable outside licensed source",
			rec: kit.ImageRecord{ID: 2, FileName: "b.png", FileSize: 10,
				License: kit.ImageLicense{ImageSource: kit.ImageSourceCC0, PersonOrPlace: "yes", ImageURLs: "https://example.test"}},
			want: []string{"Sorry we only allow personally identifiable images from Envato Elements: b.png"},
		},
		{
			name: "unsure source",
			rec: kit.ImageRecord{ID: 3, FileName: "c.png", FileSize: 10,
				License: kit.ImageLicense{ImageSource: kit.ImageSourceUnsure, PersonOrPlace: "no"}},
			want: []string{"Unknown is not allowed. Please specify a valid image source for: c.png"},
		},
		{
			name: "licensed without url",
			rec: kit.ImageRecord{ID: 4, FileName: "d.png", FileSize: 10,
				License: kit.ImageLicense{ImageSource: kit.ImageSourceLicensed, PersonOrPlace: "no"}},
			want: []string{"Please enter the source image URL for d.png"},
		},
		{
			name: "unreadable file",
			rec: kit.ImageRecord{ID: 5, FileName: "e.png", FileSize: 0,
				License: kit.ImageLicense{ImageSource: kit.ImageSourceSelfCreated, PersonOrPlace: "no"}},
			want: []string{"Sorry we cannot read the file: e.png"},
		},
		{
			name: "oversized file",
			rec: kit.ImageRecord{ID: 6, FileName: "f.png", FileSize: 2 * 1048576,
				License: kit.ImageLicense{ImageSource: kit.ImageSourceSelfCreated, PersonOrPlace: "no"}},
			want: []string{"This source image is too large (2.00 MB). Reduce it to less than 1MB: f.png"},
		},
		{
			name: "self created is clean",
			rec: kit.ImageRecord{ID: 7, FileName: "g.png", FileSize: 10,
				License: kit.ImageLicense{ImageSource: kit.ImageSourceSelfCreated, PersonOrPlace: "no"}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newValidator(validSettings())
			rec := tt.rec
			v.Images = fakeImages{&rec}

			report, err := v.Detect(threeTemplates())
			require.NoError(t, err)
			assert.Equal(t, tt.want, report[kit.CategoryImages])
		})
	}
}
