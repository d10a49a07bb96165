package jeedom

import (
	"fmt"

	"github.com/hashicorp/go-version"
)

// MinSummaryVersion is the first controller release whose summary::global
// result is keyed by category.
const MinSummaryVersion = "4.1"

var minSummaryVersion = version.Must(version.NewVersion(MinSummaryVersion))

// SupportsSummary reports whether a controller at version v returns the
// keyed global summary. Pre-release suffixes are ignored.
func SupportsSummary(v string) (bool, error) {
	parsed, err := version.NewVersion(v)
	if err != nil {
		return false, fmt.Errorf("invalid controller version %q: %w", v, err)
	}
	return parsed.Core().GreaterThanOrEqual(minSummaryVersion), nil
}
