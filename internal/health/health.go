// Package health runs the pre-export environment checks: the site must be
// publicly reachable, fully updated and running the chosen page builder's
// required stack.
package health

import (
	"fmt"
	"regexp"

	"github.com/conneroisu/kitpack/internal/builders"
	"github.com/conneroisu/kitpack/internal/store"
)

// Report lists failed and passed checks in evaluation order.
type Report struct {
	Errors    []string
	Successes []string
}

var privateHostPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.test$`),
	regexp.MustCompile(`\.local$`),
	regexp.MustCompile(`localhost`),
	regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`),
}

// PublicDomain reports whether a site URL looks reachable from the outside.
// Local TLDs, localhost and bare IP addresses all fail.
func PublicDomain(siteURL string) bool {
	for _, p := range privateHostPatterns {
		if p.MatchString(siteURL) {
			return false
		}
	}
	return true
}

// Check composes the site-level checks with the builder's own. A nil builder
// (none chosen yet) is itself a finding.
func Check(env *store.Environment, b builders.Builder) (*Report, error) {
	report := &Report{}

	if !PublicDomain(env.SiteURL) {
		report.Errors = append(report.Errors, "Please ensure your website is publicly accessible (i.e. not localhost). Users will need to access your website to preview any templates and import any images.")
	}

	if env.CoreUpdatePending {
		report.Errors = append(report.Errors, "Please update WordPress to the latest version.")
	} else {
		report.Successes = append(report.Successes, "WordPress is up-to-date.")
	}

	for _, name := range env.PluginUpdatesPending {
		report.Errors = append(report.Errors, fmt.Sprintf("Please update plugin to latest version: %s", name))
	}

	if b == nil {
		report.Errors = append(report.Errors, "Please choose a Page/Site Builder from the available drop down options.")
		return report, nil
	}
	builderHealth, err := b.SiteHealth()
	if err != nil {
		return nil, err
	}
	report.Errors = append(report.Errors, builderHealth.Errors...)
	report.Successes = append(report.Successes, builderHealth.Successes...)
	return report, nil
}
