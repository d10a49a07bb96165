package bar

import (
	"fmt"
	"strings"
)

// Format is a status bar output convention.
type Format int

const (
	// Mac targets xbar/SwiftBar: ANSI colours plus a dropdown with links.
	Mac Format = iota
	// I3Blocks prints the full and short text on two lines, with Pango markup.
	I3Blocks
	// I3StatusRust prints one line with Pango markup.
	I3StatusRust
	// None prints plain text followed by a newline.
	None
)

var formatNames = [...]string{
	Mac:          "mac",
	I3Blocks:     "i3blocks",
	I3StatusRust: "i3status-rust",
	None:         "none",
}

// Formats returns every format name, in declaration order.
func Formats() []string {
	out := make([]string, len(formatNames))
	copy(out, formatNames[:])
	return out
}

// ParseFormat returns the format with the given name, ignoring case.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range formatNames {
		if n == name {
			return Format(i), nil
		}
	}
	return Mac, fmt.Errorf("unknown bar format %q, expected one of %s", name, strings.Join(formatNames[:], ", "))
}

// String implements fmt.Stringer.
func (f Format) String() string {
	if f < Mac || f > None {
		return fmt.Sprintf("format(%d)", int(f))
	}
	return formatNames[f]
}

// Set implements pflag.Value.
func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string {
	return "type"
}
