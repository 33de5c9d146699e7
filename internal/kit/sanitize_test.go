package kit

import (
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase passthrough", "simple", "simple"},
		{"uppercase folded", "My Kit", "my-kit"},
		{"punctuation run collapses", "My Kit! v1.0", "my-kit-v1.0"},
		{"version dots survive", "my-kit-1.0.3", "my-kit-1.0.3"},
		{"runs collapse", "a   b///c", "a-b-c"},
		{"unicode collapses", "café kit", "caf-kit"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestSanitizeFilenameProperties(t *testing.T) {
	safe := regexp.MustCompile(`^[a-z0-9.-]*$`)

	properties := gopter.NewProperties(nil)

	properties.Property("output contains only safe characters", prop.ForAll(
		func(s string) bool {
			return safe.MatchString(SanitizeFilename(s))
		},
		gen.AnyString(),
	))

	properties.Property("sanitizing is idempotent", prop.ForAll(
		func(s string) bool {
			once := SanitizeFilename(s)
			return SanitizeFilename(once) == once
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
