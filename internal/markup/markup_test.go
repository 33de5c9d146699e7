package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conneroisu/kitpack/internal/kit"
)

func licensed(id int64, url string) kit.ImageRecord {
	return kit.ImageRecord{
		ID:      id,
		License: kit.ImageLicense{ImageSource: kit.ImageSourceLicensed, ImageURLs: url},
	}
}

func TestItemPageNoLicensedImages(t *testing.T) {
	images := []kit.ImageRecord{
		{ID: 1, License: kit.ImageLicense{ImageSource: kit.ImageSourceSelfCreated}},
		{ID: 2, License: kit.ImageLicense{ImageSource: kit.ImageSourceLicensed}}, // no URL
	}
	assert.Equal(t,
		"(no Envato Elements images found, not generating default markup)",
		ItemPage(MarketThemeForest, images))
}

func TestItemPageThemeForest(t *testing.T) {
	images := []kit.ImageRecord{
		licensed(1, "https://elements.envato.com/image-AAAAAAA"),
		licensed(2, "https://elements.envato.com/image-BBBBBBB"),
		licensed(3, "https://elements.envato.com/image-AAAAAAA"), // duplicate URL
	}

	out := ItemPage(MarketThemeForest, images)
	assert.True(t, strings.HasPrefix(out, "This Template Kit uses demo images from Envato Elements."))
	assert.Contains(t, out, "<ul>\n")
	assert.Contains(t, out, "<li>https://elements.envato.com/image-AAAAAAA</li>\n")
	assert.Contains(t, out, "<li>https://elements.envato.com/image-BBBBBBB</li>\n")
	assert.True(t, strings.HasSuffix(out, "</ul>\n"))
	assert.Equal(t, 1, strings.Count(out, "image-AAAAAAA"))

	// Discovery order survives into the list.
	assert.Less(t,
		strings.Index(out, "image-AAAAAAA"),
		strings.Index(out, "image-BBBBBBB"))
}

func TestItemPageElements(t *testing.T) {
	out := ItemPage(MarketElements, []kit.ImageRecord{
		licensed(1, "https://elements.envato.com/image-AAAAAAA"),
	})
	assert.Contains(t, out, "* https://elements.envato.com/image-AAAAAAA\n")
	assert.NotContains(t, out, "<li>")
	assert.NotContains(t, out, "<ul>")
}
