// Package bar renders aggregated alert counters as a status bar string.
package bar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/jeedom-status/internal/alerts"
	"github.com/fyrsmithlabs/jeedom-status/internal/category"
	"github.com/fyrsmithlabs/jeedom-status/internal/glyph"
)

// Idle is printed when nothing needs attention.
const Idle = "Jeedom"

// Unavailable is printed when the controller cannot be reached.
const Unavailable = "Jeedom N/A"

// Options controls rendering.
type Options struct {
	Theme  glyph.Theme
	Format Format

	// IgnoreBatteryWarning hides the battery warning segment and lets a
	// warning-only state render as idle.
	IgnoreBatteryWarning bool

	// DashboardURL is the controller base URL the Mac dropdown links to.
	DashboardURL string
}

// Render builds the bar text for c.
func Render(c alerts.Counters, opts Options) string {
	if c.Idle(opts.IgnoreBatteryWarning) {
		return Idle
	}

	p := painterFor(opts.Format)
	segments := make([]string, 0, category.Count+2)

	for _, cat := range category.Summary() {
		if n := c.Get(cat); n > 0 {
			segments = append(segments, counted(n, cat, opts.Theme))
		}
	}

	if c.Updates > 0 {
		segments = append(segments, p.paint(glyph.NotificationCount(c.Updates), toneAlert))
	}
	if c.Notifications > 0 {
		segments = append(segments, p.paint(glyph.NotificationCount(c.Notifications), toneNotice))
	}

	if c.BatteryWarning > 0 && !opts.IgnoreBatteryWarning {
		segments = append(segments, p.paint(counted(c.BatteryWarning, category.Battery, opts.Theme), toneNotice))
	}
	if c.BatteryDanger > 0 {
		segments = append(segments, p.paint(counted(c.BatteryDanger, category.Battery, opts.Theme), toneAlert))
	}

	return envelope(strings.Join(segments, " "), c, opts)
}

func counted(n uint32, cat category.Category, t glyph.Theme) string {
	return strconv.FormatUint(uint64(n), 10) + glyph.For(cat, t)
}

func envelope(body string, c alerts.Counters, opts Options) string {
	switch opts.Format {
	case Mac:
		return macDropdown(body, c, opts.DashboardURL)
	case I3Blocks:
		return body + "\n" + body
	case I3StatusRust:
		return body
	default:
		return body + "\n"
	}
}

// macDropdown appends the xbar menu: a separator and one link per pending kind
// of notification.
func macDropdown(body string, c alerts.Counters, url string) string {
	if c.Updates == 0 && c.Notifications == 0 {
		return body
	}

	lines := []string{body, "---"}
	if c.Updates > 0 {
		lines = append(lines, fmt.Sprintf("Updates %d | color=red href=%s/index.php?v=d&p=update", c.Updates, url))
	}
	if c.Notifications > 0 {
		lines = append(lines, fmt.Sprintf("Messages %d | color=orange href=%s/index.php?v=d&p=message", c.Notifications, url))
	}
	return strings.Join(lines, "\n")
}
