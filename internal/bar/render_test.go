package bar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/jeedom-status/internal/alerts"
	"github.com/fyrsmithlabs/jeedom-status/internal/category"
	"github.com/fyrsmithlabs/jeedom-status/internal/glyph"
	"github.com/fyrsmithlabs/jeedom-status/internal/jeedom"
)

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
)

func counters(mutate func(*alerts.Counters)) alerts.Counters {
	var c alerts.Counters
	mutate(&c)
	return c
}

func TestRender_Idle(t *testing.T) {
	for _, theme := range []glyph.Theme{glyph.Text, glyph.Jeedom, glyph.Nerd, glyph.Emoji} {
		for _, format := range []Format{Mac, I3Blocks, I3StatusRust, None} {
			got := Render(alerts.Counters{}, Options{Theme: theme, Format: format, DashboardURL: "http://jeedom"})
			assert.Equal(t, "Jeedom", got, "%s/%s", theme, format)
		}
	}
}

func TestRender_IgnoredWarningIsIdle(t *testing.T) {
	c := alerts.Counters{BatteryWarning: 3}

	assert.Equal(t, Idle, Render(c, Options{Format: None, IgnoreBatteryWarning: true}))
	assert.Equal(t, "3B\n", Render(c, Options{Format: None}))
}

func TestRender_SingleDoor(t *testing.T) {
	c := counters(func(c *alerts.Counters) { c.Summary[category.Door] = 1 })

	assert.Equal(t, "1D\n", Render(c, Options{Theme: glyph.Text, Format: None}))
}

func TestRender_SummaryOrder(t *testing.T) {
	c := counters(func(c *alerts.Counters) {
		c.Summary[category.Alarm] = 1
		c.Summary[category.Power] = 2
		c.Summary[category.Security] = 3
		c.Summary[category.Light] = 4
	})

	assert.Equal(t, "3S 4G 2P 1A\n", Render(c, Options{Format: None}))
}

func TestRender_Plain(t *testing.T) {
	c := counters(func(c *alerts.Counters) {
		c.Summary[category.Motion] = 2
		c.Updates = 1
		c.Notifications = 3
		c.BatteryWarning = 4
		c.BatteryDanger = 1
	})

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "text",
			opts: Options{Theme: glyph.Text, Format: None},
			want: "2M ① ③ 4B 1B\n",
		},
		{
			name: "ignore battery warning",
			opts: Options{Theme: glyph.Text, Format: None, IgnoreBatteryWarning: true},
			want: "2M ① ③ 1B\n",
		},
		{
			name: "emoji",
			opts: Options{Theme: glyph.Emoji, Format: None},
			want: "2\U0001f3c3 ① ③ 4\U0001f50b 1\U0001f50b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(c, tt.opts))
		})
	}
}

func TestRender_Pango(t *testing.T) {
	c := counters(func(c *alerts.Counters) {
		c.Summary[category.Door] = 1
		c.Updates = 1
		c.Notifications = 2
		c.BatteryWarning = 1
		c.BatteryDanger = 1
	})

	body := "1D" +
		" <span color='red'><span font='Jeedom'>①</span></span>" +
		" <span color='yellow'><span font='Jeedom'>②</span></span>" +
		" <span color='yellow'><span font='Jeedom'>1B</span></span>" +
		" <span color='red'><span font='Jeedom'>1B</span></span>"

	assert.Equal(t, body, Render(c, Options{Format: I3StatusRust}))
	assert.Equal(t, body+"\n"+body, Render(c, Options{Format: I3Blocks}))
}

func TestRender_Mac(t *testing.T) {
	c := counters(func(c *alerts.Counters) {
		c.Summary[category.Light] = 3
		c.Updates = 1
		c.Notifications = 2
		c.BatteryDanger = 1
	})

	got := Render(c, Options{Format: Mac, DashboardURL: "http://jeedom.local"})
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)

	body := lines[0]
	assert.True(t, strings.HasPrefix(body, "3G "), body)
	assert.Contains(t, body, ansiRed+"①")
	assert.Contains(t, body, ansiYellow+"②")
	assert.Contains(t, body, ansiRed+"1B")

	assert.Equal(t, "---", lines[1])
	assert.Equal(t, "Updates 1 | color=red href=http://jeedom.local/index.php?v=d&p=update", lines[2])
	assert.Equal(t, "Messages 2 | color=orange href=http://jeedom.local/index.php?v=d&p=message", lines[3])
}

func TestRender_MacWithoutNotifications(t *testing.T) {
	c := counters(func(c *alerts.Counters) {
		c.Summary[category.Windows] = 2
		c.BatteryWarning = 1
	})

	got := Render(c, Options{Format: Mac, DashboardURL: "http://jeedom.local"})
	assert.NotContains(t, got, "\n")
	assert.NotContains(t, got, "---")
	assert.True(t, strings.HasPrefix(got, "2W "))
	assert.Contains(t, got, ansiYellow+"1B")
}

func TestRender_MacMessagesOnly(t *testing.T) {
	c := alerts.Counters{Notifications: 1}

	got := Render(c, Options{Format: Mac, DashboardURL: "https://jeedom.example.com"})
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "---", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Messages 1 "))
}

func TestRender_ManyNotifications(t *testing.T) {
	c := alerts.Counters{Notifications: 21}
	assert.Equal(t, "21\n", Render(c, Options{Format: None}))
}

func TestRender_Sample(t *testing.T) {
	load := func(method string) []byte {
		body, err := jeedom.Sample(method)
		require.NoError(t, err)
		return body
	}
	summary, err := jeedom.DecodeGlobalSummary(load(jeedom.MethodGlobalSummary))
	require.NoError(t, err)
	devices, err := jeedom.DecodeDevices(load(jeedom.MethodDevices))
	require.NoError(t, err)
	notifications, err := jeedom.DecodeNotifications(load(jeedom.MethodNotifications))
	require.NoError(t, err)

	c := alerts.Aggregate(summary, devices, notifications, alerts.DefaultThresholds())

	assert.Equal(t, "1M 1D 3G 2O ① ② 1B 1B\n", Render(c, Options{Format: None}))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "mac", want: Mac},
		{in: "i3blocks", want: I3Blocks},
		{in: "I3STATUS-RUST", want: I3StatusRust},
		{in: "none", want: None},
		{in: "polybar", wantErr: true},
		{in: "autodetect", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unknown bar format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.ToLower(tt.in), got.String())
		})
	}
}

func TestFormat_Set(t *testing.T) {
	var f Format
	require.NoError(t, f.Set("none"))
	assert.Equal(t, None, f)
	assert.Error(t, f.Set("xbar"))
	assert.Equal(t, "type", f.Type())
	assert.Equal(t, []string{"mac", "i3blocks", "i3status-rust", "none"}, Formats())
}

func TestRender_FromSummaryPayload(t *testing.T) {
	body := `{"jsonrpc":"2.0","id":"1","result":{` +
		`"security":{"value":0},"motion":{"value":0},"door":{"value":1},` +
		`"windows":{"value":0},"shutter":{"value":null},"light":{"value":"0"},` +
		`"outlet":{"value":0},"temperature":{"value":0},"humidity":{"value":0},` +
		`"luminosity":{"value":0},"power":{"value":0}}}`

	s, err := jeedom.DecodeGlobalSummary([]byte(body))
	require.NoError(t, err)

	c := alerts.Aggregate(s, nil, nil, alerts.DefaultThresholds())
	assert.Equal(t, "1D\n", Render(c, Options{Theme: glyph.Text, Format: None}))
}
