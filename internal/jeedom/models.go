// Package jeedom talks to a Jeedom controller over its JSON-RPC API and
// decodes the responses into typed models.
//
// The controller is inconsistent about value shapes: counters arrive as
// integers or strings, and an empty device status block arrives as []
// instead of {}. Those fields are typed with flexjson so the leniency stays
// local to them.
package jeedom

import (
	"encoding/json"
	"fmt"

	"github.com/fyrsmithlabs/jeedom-status/internal/category"
	"github.com/fyrsmithlabs/jeedom-status/internal/flexjson"
)

// JSON-RPC methods used by the status bar.
const (
	MethodPing          = "ping"
	MethodVersion       = "version"
	MethodGlobalSummary = "summary::global"
	MethodDevices       = "eqLogic::all"
	MethodNotifications = "message::all"
)

// UpdatePlugin is the plugin name of notifications announcing available updates.
const UpdatePlugin = "update"

// SummaryEntry is one category of the global summary.
type SummaryEntry struct {
	Key   string          `json:"key"`
	Name  string          `json:"name"`
	Unit  string          `json:"unit"`
	Value flexjson.Number `json:"value"`
}

// GlobalSummary is the result of summary::global.
//
// Alarm is a user-defined category that older controllers do not report.
type GlobalSummary struct {
	Security    SummaryEntry  `json:"security"`
	Motion      SummaryEntry  `json:"motion"`
	Door        SummaryEntry  `json:"door"`
	Windows     SummaryEntry  `json:"windows"`
	Shutter     SummaryEntry  `json:"shutter"`
	Light       SummaryEntry  `json:"light"`
	Outlet      SummaryEntry  `json:"outlet"`
	Temperature SummaryEntry  `json:"temperature"`
	Humidity    SummaryEntry  `json:"humidity"`
	Luminosity  SummaryEntry  `json:"luminosity"`
	Power       SummaryEntry  `json:"power"`
	Alarm       *SummaryEntry `json:"alarm,omitempty"`
}

// globalSummaryFields avoids recursing into GlobalSummary.UnmarshalJSON.
type globalSummaryFields GlobalSummary

// UnmarshalJSON implements json.Unmarshaler. Every category except alarm is required.
func (s *GlobalSummary) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	for _, c := range category.Summary() {
		if c.Optional() {
			continue
		}
		if _, ok := keys[c.Key()]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingCategory, c.Key())
		}
	}

	var fields globalSummaryFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*s = GlobalSummary(fields)
	return nil
}

// Entry returns the entry for a summary category. The second result is false
// for an absent alarm category or a category outside the summary.
func (s *GlobalSummary) Entry(c category.Category) (SummaryEntry, bool) {
	switch c {
	case category.Security:
		return s.Security, true
	case category.Motion:
		return s.Motion, true
	case category.Door:
		return s.Door, true
	case category.Windows:
		return s.Windows, true
	case category.Shutter:
		return s.Shutter, true
	case category.Light:
		return s.Light, true
	case category.Outlet:
		return s.Outlet, true
	case category.Temperature:
		return s.Temperature, true
	case category.Humidity:
		return s.Humidity, true
	case category.Luminosity:
		return s.Luminosity, true
	case category.Power:
		return s.Power, true
	case category.Alarm:
		if s.Alarm == nil {
			return SummaryEntry{}, false
		}
		return *s.Alarm, true
	default:
		return SummaryEntry{}, false
	}
}

// Device is one element of eqLogic::all. Only the status block is decoded;
// names, ids and configuration are left to the controller.
type Device struct {
	Status flexjson.Record[DeviceStatus] `json:"status"`
}

// DeviceStatus carries a device's battery level and alert flags.
// The flags are counters the controller sets to 1 when raised.
type DeviceStatus struct {
	BatteryDanger  flexjson.Number `json:"batterydanger"`
	BatteryWarning flexjson.Number `json:"batterywarning"`
	Battery        flexjson.Number `json:"battery"`
}

// Notification is one element of message::all.
type Notification struct {
	Plugin string `json:"plugin"`
}

// IsUpdate reports whether the notification announces available updates.
func (n Notification) IsUpdate() bool {
	return n.Plugin == UpdatePlugin
}
