package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/jeedom-status/internal/category"
	"github.com/fyrsmithlabs/jeedom-status/internal/flexjson"
	"github.com/fyrsmithlabs/jeedom-status/internal/jeedom"
)

func num(v uint32) flexjson.Number { return flexjson.NewNumber(v) }

func device(danger, warning, battery flexjson.Number) jeedom.Device {
	return jeedom.Device{Status: flexjson.NewRecord(jeedom.DeviceStatus{
		BatteryDanger:  danger,
		BatteryWarning: warning,
		Battery:        battery,
	})}
}

var absent flexjson.Number

func TestAggregateDevices_TieBreak(t *testing.T) {
	tests := []struct {
		name        string
		device      jeedom.Device
		wantWarning uint32
		wantDanger  uint32
	}{
		{
			name:       "danger flag raised",
			device:     device(num(1), num(1), num(3)),
			wantDanger: 1,
		},
		{
			name:       "danger flag raised without level",
			device:     device(num(1), absent, absent),
			wantDanger: 1,
		},
		{
			name:       "level at danger threshold",
			device:     device(num(0), num(0), num(5)),
			wantDanger: 1,
		},
		{
			name:        "level just above danger threshold",
			device:      device(num(0), num(0), num(6)),
			wantWarning: 1,
		},
		{
			name:        "warning flag raised",
			device:      device(num(0), num(1), num(80)),
			wantWarning: 1,
		},
		{
			name:        "warning flag raised without danger flag",
			device:      device(absent, num(1), absent),
			wantWarning: 1,
		},
		{
			name:        "level at warning threshold",
			device:      device(num(0), num(0), num(20)),
			wantWarning: 1,
		},
		{
			name:   "level above warning threshold",
			device: device(num(0), num(0), num(21)),
		},
		{
			name:   "low level but no flags reported",
			device: device(absent, absent, num(2)),
		},
		{
			name:        "low level with only warning flag reported",
			device:      device(absent, num(0), num(2)),
			wantWarning: 1,
		},
		{
			name:   "level absent counts as full",
			device: device(num(0), num(0), absent),
		},
		{
			name:       "nonzero flag counts as raised",
			device:     device(num(7), num(0), num(90)),
			wantDanger: 1,
		},
		{
			name:   "status block absent",
			device: jeedom.Device{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning, danger := AggregateDevices([]jeedom.Device{tt.device}, DefaultThresholds())
			assert.Equal(t, tt.wantWarning, warning, "warning")
			assert.Equal(t, tt.wantDanger, danger, "danger")
			assert.LessOrEqual(t, warning+danger, uint32(1), "at most one bucket")
		})
	}
}

func TestAggregateDevices_CustomThresholds(t *testing.T) {
	devices := []jeedom.Device{
		device(num(0), num(0), num(10)),
		device(num(0), num(0), num(40)),
		device(num(0), num(0), num(41)),
	}

	warning, danger := AggregateDevices(devices, Thresholds{Danger: 10, Warning: 40})
	assert.Equal(t, uint32(1), warning)
	assert.Equal(t, uint32(1), danger)
}

func TestAggregateDevices_Sample(t *testing.T) {
	body, err := jeedom.Sample(jeedom.MethodDevices)
	require.NoError(t, err)
	devices, err := jeedom.DecodeDevices(body)
	require.NoError(t, err)

	warning, danger := AggregateDevices(devices, DefaultThresholds())
	assert.Equal(t, uint32(1), warning)
	assert.Equal(t, uint32(1), danger)
}

func TestAggregateNotifications(t *testing.T) {
	tests := []struct {
		name        string
		plugins     []string
		wantTotal   uint32
		wantUpdates uint32
	}{
		{name: "none"},
		{name: "messages only", plugins: []string{"mobile", "zwavejs"}, wantTotal: 2},
		{name: "mixed", plugins: []string{"update", "mobile", "update"}, wantTotal: 3, wantUpdates: 2},
		{name: "plugin match is exact", plugins: []string{"Update", "updates"}, wantTotal: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list []jeedom.Notification
			for _, p := range tt.plugins {
				list = append(list, jeedom.Notification{Plugin: p})
			}

			total, updates := AggregateNotifications(list)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantUpdates, updates)
		})
	}
}

func TestAggregateSummary(t *testing.T) {
	s := &jeedom.GlobalSummary{
		Door:        jeedom.SummaryEntry{Value: num(1)},
		Light:       jeedom.SummaryEntry{Value: num(4)},
		Temperature: jeedom.SummaryEntry{},
		Alarm:       &jeedom.SummaryEntry{Value: num(2)},
	}

	c := AggregateSummary(s)
	assert.Equal(t, uint32(1), c.Get(category.Door))
	assert.Equal(t, uint32(4), c.Get(category.Light))
	assert.Equal(t, uint32(0), c.Get(category.Temperature), "absent is zero")
	assert.Equal(t, uint32(2), c.Get(category.Alarm))
	assert.Equal(t, uint32(0), c.Get(category.Battery), "not a summary category")

	assert.Equal(t, Counters{}, AggregateSummary(nil))
}

func TestAggregate_Sample(t *testing.T) {
	summaryBody, err := jeedom.Sample(jeedom.MethodGlobalSummary)
	require.NoError(t, err)
	summary, err := jeedom.DecodeGlobalSummary(summaryBody)
	require.NoError(t, err)

	devicesBody, err := jeedom.Sample(jeedom.MethodDevices)
	require.NoError(t, err)
	devices, err := jeedom.DecodeDevices(devicesBody)
	require.NoError(t, err)

	notificationsBody, err := jeedom.Sample(jeedom.MethodNotifications)
	require.NoError(t, err)
	notifications, err := jeedom.DecodeNotifications(notificationsBody)
	require.NoError(t, err)

	c := Aggregate(summary, devices, notifications, DefaultThresholds())

	var want Counters
	want.Summary[category.Motion] = 1
	want.Summary[category.Door] = 1
	want.Summary[category.Light] = 3
	want.Summary[category.Outlet] = 2
	want.BatteryWarning = 1
	want.BatteryDanger = 1
	want.Notifications = 2
	want.Updates = 1
	assert.Equal(t, want, c)
}

func TestCounters_Idle(t *testing.T) {
	var zero Counters
	assert.True(t, zero.Idle(false))
	assert.True(t, zero.Idle(true))

	warningOnly := Counters{BatteryWarning: 1}
	assert.False(t, warningOnly.Idle(false))
	assert.True(t, warningOnly.Idle(true))

	assert.False(t, Counters{BatteryDanger: 1}.Idle(true))
	assert.False(t, Counters{Updates: 1, Notifications: 1}.Idle(false))

	var summary Counters
	summary.Summary[category.Power] = 1
	assert.False(t, summary.Idle(true))
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())
	assert.NoError(t, Thresholds{Danger: 20, Warning: 20}.Validate())
	assert.ErrorContains(t, Thresholds{Danger: 5, Warning: 101}.Validate(), "must be <= 100")
	assert.ErrorContains(t, Thresholds{Danger: 30, Warning: 20}.Validate(), "exceeds warning threshold")
}
