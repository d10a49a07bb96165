// Package alerts reduces controller responses to the counters shown in the bar.
package alerts

import (
	"fmt"

	"github.com/fyrsmithlabs/jeedom-status/internal/category"
	"github.com/fyrsmithlabs/jeedom-status/internal/jeedom"
)

// Default battery thresholds, in percent.
const (
	DefaultDangerThreshold  uint32 = 5
	DefaultWarningThreshold uint32 = 20
)

// unreportedBatteryLevel stands in for a missing battery level so that only the
// explicit flags can raise an alert for that device.
const unreportedBatteryLevel uint32 = 100

// Thresholds are the battery levels at or below which a device whose flag is
// lowered still counts as danger or warning.
type Thresholds struct {
	Danger  uint32
	Warning uint32
}

// DefaultThresholds returns danger 5 and warning 20.
func DefaultThresholds() Thresholds {
	return Thresholds{Danger: DefaultDangerThreshold, Warning: DefaultWarningThreshold}
}

// Validate checks the thresholds are percentages with danger <= warning.
func (t Thresholds) Validate() error {
	if t.Warning > 100 {
		return fmt.Errorf("warning threshold %d must be <= 100", t.Warning)
	}
	if t.Danger > t.Warning {
		return fmt.Errorf("danger threshold %d exceeds warning threshold %d", t.Danger, t.Warning)
	}
	return nil
}

// Counters is the result of one aggregation.
type Counters struct {
	// Summary is indexed by summary category.
	Summary [category.SummaryCount]uint32

	BatteryWarning uint32
	BatteryDanger  uint32
	Notifications  uint32
	Updates        uint32
}

// Get returns the counter of a summary category, or zero for any other category.
func (c Counters) Get(cat category.Category) uint32 {
	if !cat.IsSummary() {
		return 0
	}
	return c.Summary[cat]
}

// Idle reports whether nothing needs attention. A pending battery warning is
// disregarded when ignoreBatteryWarning is set.
func (c Counters) Idle(ignoreBatteryWarning bool) bool {
	for _, n := range c.Summary {
		if n != 0 {
			return false
		}
	}
	if c.BatteryWarning != 0 && !ignoreBatteryWarning {
		return false
	}
	return c.BatteryDanger == 0 && c.Notifications == 0 && c.Updates == 0
}

// AggregateSummary copies each summary value, using zero for absent values.
func AggregateSummary(s *jeedom.GlobalSummary) Counters {
	var c Counters
	if s == nil {
		return c
	}
	for _, cat := range category.Summary() {
		if entry, ok := s.Entry(cat); ok {
			c.Summary[cat] = entry.Value.Or(0)
		}
	}
	return c
}

// AggregateDevices counts devices with a low battery. A device lands in at most
// one bucket, danger first.
func AggregateDevices(devices []jeedom.Device, t Thresholds) (warning, danger uint32) {
	for _, d := range devices {
		status, ok := d.Status.Get()
		if !ok {
			continue
		}
		level := status.Battery.Or(unreportedBatteryLevel)

		if raised, present := status.BatteryDanger.Flag(); present {
			if raised || level <= t.Danger {
				danger++
				continue
			}
		}
		if raised, present := status.BatteryWarning.Flag(); present {
			if raised || level <= t.Warning {
				warning++
			}
		}
	}
	return warning, danger
}

// AggregateNotifications counts all notifications and, among them, the update
// announcements.
func AggregateNotifications(notifications []jeedom.Notification) (total, updates uint32) {
	for _, n := range notifications {
		total++
		if n.IsUpdate() {
			updates++
		}
	}
	return total, updates
}

// Aggregate combines the three reductions into one set of counters.
func Aggregate(s *jeedom.GlobalSummary, devices []jeedom.Device, notifications []jeedom.Notification, t Thresholds) Counters {
	c := AggregateSummary(s)
	c.BatteryWarning, c.BatteryDanger = AggregateDevices(devices, t)
	c.Notifications, c.Updates = AggregateNotifications(notifications)
	return c
}
