package images

import (
	"regexp"

	"github.com/conneroisu/kitpack/internal/kit"
	"github.com/conneroisu/kitpack/internal/store"
)

// Images licensed from the stock-image provider carry a 7-character
// uppercase item token in their filename, e.g.
// coastline-with-palm-trees-P6WLLHN.jpg.
var licensedToken = regexp.MustCompile(`[\w-]([A-Z0-9]{7})(-\d+)?\.(png|jpg)`)

const licensedItemURLPrefix = "https://elements.envato.com/image-"

// AutoTagLicensed recognizes licensed stock images by their filename token
// and persists derived licensing metadata, so authors do not have to enter
// it by hand. Returns the derived license, or nil when the filename does
// not carry a token.
func AutoTagLicensed(st store.Store, att *store.Attachment) (*kit.ImageLicense, error) {
	matches := licensedToken.FindStringSubmatch(att.File)
	if matches == nil {
		return nil, nil
	}

	license := kit.ImageLicense{
		ImageSource: kit.ImageSourceLicensed,
		ImageURLs:   licensedItemURLPrefix + matches[1],
	}
	if err := SaveLicense(st, att.ID, license); err != nil {
		return nil, err
	}
	return &license, nil
}
