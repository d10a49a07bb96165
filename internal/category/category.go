// Package category defines the closed set of alert categories shown in the bar.
//
// The first twelve categories mirror the controller's global summary; Battery and
// Updates are derived from the device and message lists. The declaration order is
// the rendering order.
package category

import "fmt"

// Category identifies one alert class.
type Category int

// Summary categories, in rendering order.
const (
	Security Category = iota
	Motion
	Door
	Windows
	Shutter
	Light
	Outlet
	Temperature
	Humidity
	Luminosity
	Power
	Alarm

	// Derived categories, not part of the controller summary.
	Battery
	Updates
)

const (
	// SummaryCount is the number of controller summary categories.
	SummaryCount = int(Alarm) + 1
	// Count is the total number of categories.
	Count = int(Updates) + 1
)

var keys = [Count]string{
	Security:    "security",
	Motion:      "motion",
	Door:        "door",
	Windows:     "windows",
	Shutter:     "shutter",
	Light:       "light",
	Outlet:      "outlet",
	Temperature: "temperature",
	Humidity:    "humidity",
	Luminosity:  "luminosity",
	Power:       "power",
	Alarm:       "alarm",
	Battery:     "battery",
	Updates:     "updates",
}

// Summary returns the controller summary categories in rendering order.
func Summary() []Category {
	out := make([]Category, SummaryCount)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Key returns the JSON key used by the controller for this category.
func (c Category) Key() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return keys[c]
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return c.Key()
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c >= Security && c <= Updates
}

// IsSummary reports whether c comes from the controller global summary.
func (c Category) IsSummary() bool {
	return c >= Security && c <= Alarm
}

// Optional reports whether the controller may omit this summary category.
// Older controllers have no alarm summary.
func (c Category) Optional() bool {
	return c == Alarm
}
