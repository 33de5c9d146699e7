package kit

import (
	"regexp"
	"strings"
)

var unsafeFilenameRuns = regexp.MustCompile(`[^a-z0-9.]+`)

// SanitizeFilename lowercases a name and collapses every run of characters
// outside [a-z0-9.] into a single hyphen. Literal dots survive, so version
// strings like "1.0.0" keep their shape.
func SanitizeFilename(name string) string {
	return unsafeFilenameRuns.ReplaceAllString(strings.ToLower(name), "-")
}
