// Package glyph maps alert categories to the symbols shown in the bar.
//
// Each theme is a fixed table indexed by category. Tables are package level
// arrays and are never modified.
package glyph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/jeedom-status/internal/category"
)

// Theme selects a glyph table.
type Theme int

const (
	// Text uses one ASCII letter per category.
	Text Theme = iota
	// Jeedom uses the private-use code points of the Jeedom icon fonts.
	Jeedom
	// Nerd uses Nerd Fonts icons.
	Nerd
	// Emoji uses Unicode emoji.
	Emoji
)

var themeNames = [...]string{
	Text:   "text",
	Jeedom: "jeedom",
	Nerd:   "nerd",
	Emoji:  "emoji",
}

// Themes returns every theme name, in declaration order.
func Themes() []string {
	out := make([]string, len(themeNames))
	copy(out, themeNames[:])
	return out
}

// ParseTheme returns the theme with the given name, ignoring case.
func ParseTheme(name string) (Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range themeNames {
		if n == name {
			return Theme(i), nil
		}
	}
	return Text, fmt.Errorf("unknown theme %q, expected one of %s", name, strings.Join(themeNames[:], ", "))
}

// String implements fmt.Stringer.
func (t Theme) String() string {
	if t < Text || t > Emoji {
		return fmt.Sprintf("theme(%d)", int(t))
	}
	return themeNames[t]
}

// Set implements pflag.Value.
func (t *Theme) Set(s string) error {
	v, err := ParseTheme(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Type implements pflag.Value.
func (t *Theme) Type() string {
	return "style"
}

type table [category.Count]string

var tables = [...]table{
	Text: {
		category.Security:    "S",
		category.Motion:      "M",
		category.Door:        "D",
		category.Windows:     "W",
		category.Shutter:     "U",
		category.Light:       "G",
		category.Outlet:      "O",
		category.Temperature: "R",
		category.Humidity:    "H",
		category.Luminosity:  "L",
		category.Power:       "P",
		category.Alarm:       "A",
		category.Battery:     "B",
		category.Updates:     "U",
	},
	// Luminosity comes from the Nature font, power from Font Awesome and
	// humidity/updates from the Jeedomapp font.
	Jeedom: {
		category.Security:    "\ue601",
		category.Motion:      "\ue612",
		category.Door:        "\ue61d",
		category.Windows:     "\ue60a",
		category.Shutter:     "\ue627",
		category.Light:       "\ue611",
		category.Outlet:      "\ue61e",
		category.Temperature: "\ue622",
		category.Humidity:    "\ue90f",
		category.Luminosity:  "\ue601",
		category.Power:       "\uf0e7",
		category.Alarm:       "\ue60e",
		category.Battery:     "\ue602",
		category.Updates:     "\ue91d",
	},
	Nerd: {
		category.Security:    "\ufc8d",
		category.Motion:      "\ufc0c",
		category.Door:        "\ufd18",
		category.Windows:     "\uf17a",
		category.Shutter:     "S",
		category.Light:       "\uf834",
		category.Outlet:      "\uf1e6",
		category.Temperature: "\uf2c7",
		category.Humidity:    "\ue373",
		category.Luminosity:  "\ufaa7",
		category.Power:       "\uf0e7",
		category.Alarm:       "\uf023",
		category.Battery:     "\uf244",
		category.Updates:     "\uf62e",
	},
	Emoji: {
		category.Security:    "\U0001f6a8",
		category.Motion:      "\U0001f3c3",
		category.Door:        "\U0001f6aa",
		category.Windows:     "\U0001f5bc",
		category.Shutter:     "↕",
		category.Light:       "\U0001f4a1",
		category.Outlet:      "\U0001f50c",
		category.Temperature: "\U0001f321",
		category.Humidity:    "\U0001f4a7",
		category.Luminosity:  "\U0001f506",
		category.Power:       "⚡",
		category.Alarm:       "\U0001f512",
		category.Battery:     "\U0001f50b",
		category.Updates:     "\U0001f534",
	},
}

// For returns the glyph of a category under a theme. Both are closed enums;
// values outside them are a programming error and panic.
func For(c category.Category, t Theme) string {
	return tables[t][c]
}

const (
	circledZero = '⓪'
	circledOne  = '①'

	// MaxCircled is the largest count with a circled-number glyph.
	MaxCircled = 20
)

// NotificationCount returns the glyph for a notification count: a circled number
// up to MaxCircled, the decimal form above it.
func NotificationCount(n uint32) string {
	switch {
	case n == 0:
		return string(circledZero)
	case n <= MaxCircled:
		return string(rune(circledOne + rune(n) - 1))
	default:
		return strconv.FormatUint(uint64(n), 10)
	}
}
