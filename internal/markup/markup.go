// Package markup renders the licensed-image attribution block authors paste
// onto their marketplace item page.
package markup

import (
	"strings"

	"github.com/conneroisu/kitpack/internal/kit"
)

// Markets with distinct output formats.
const (
	MarketElements    = "elements"
	MarketThemeForest = "themeforest"
)

const attributionIntro = "This Template Kit uses demo images from Envato Elements. You will need to license these images from Envato Elements to use them on your website, or you can substitute them with your own."

// ItemPage renders the attribution markup for a market: plain text with
// starred lines for Elements, an HTML list for everything else. Only images
// licensed from Envato Elements with a recorded source URL are listed, each
// URL once, in discovery order.
func ItemPage(market string, images []kit.ImageRecord) string {
	var urls []string
	seen := map[string]bool{}
	for _, img := range images {
		if img.License.ImageSource != kit.ImageSourceLicensed || img.License.ImageURLs == "" {
			continue
		}
		if seen[img.License.ImageURLs] {
			continue
		}
		seen[img.License.ImageURLs] = true
		urls = append(urls, img.License.ImageURLs)
	}
	if len(urls) == 0 {
		return "(no Envato Elements images found, not generating default markup)"
	}

	plain := market == MarketElements
	var out strings.Builder
	out.WriteString(attributionIntro)
	if plain {
		out.WriteString("\n")
	} else {
		out.WriteString("<br/><br/>\n<ul>\n")
	}
	for _, u := range urls {
		if plain {
			out.WriteString("* " + u + "\n")
		} else {
			out.WriteString("<li>" + u + "</li>\n")
		}
	}
	if plain {
		out.WriteString("\n")
	} else {
		out.WriteString("</ul>\n")
	}
	return out.String()
}
