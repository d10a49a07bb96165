package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/jeedom-status/internal/alerts"
	"github.com/fyrsmithlabs/jeedom-status/internal/bar"
	"github.com/fyrsmithlabs/jeedom-status/internal/config"
	"github.com/fyrsmithlabs/jeedom-status/internal/glyph"
	"github.com/fyrsmithlabs/jeedom-status/internal/jeedom"
	"github.com/fyrsmithlabs/jeedom-status/internal/logging"
)

// fakeURL is the dashboard link shown in fake mode when no URL is configured.
const fakeURL = "http://jeedom.local"

// runStatus polls the controller once and prints the bar.
func runStatus(cmd *cobra.Command, cfg *config.Config) error {
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := logging.WithRequestID(cmd.Context(), uuid.NewString())
	ctx = logging.WithLogger(ctx, logger)
	out := cmd.OutOrStdout()

	client, err := connect(ctx, cfg, logger)
	if err != nil {
		logger.Warn(ctx, "jeedom unavailable", zap.Error(err))
		fmt.Fprintln(out, bar.Unavailable)
		return &reportedError{err: err}
	}

	counters, err := poll(ctx, client, cfg.Battery.Thresholds(), out)
	if err != nil {
		logger.Error(ctx, "jeedom request failed", zap.Error(err))
		return err
	}

	// Validate already accepted both names.
	format, _ := bar.ParseFormat(cfg.Bar.Type)
	theme, _ := glyph.ParseTheme(cfg.Bar.Style)

	fmt.Fprintln(out, bar.Render(counters, bar.Options{
		Theme:                theme,
		Format:               format,
		IgnoreBatteryWarning: cfg.Bar.IgnoreBatteryWarning,
		DashboardURL:         client.BaseURL(),
	}))
	return nil
}

// connect picks a reachable URL and checks the API answers.
func connect(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*jeedom.Client, error) {
	hc := &http.Client{Timeout: cfg.Jeedom.TimeoutOrDefault()}
	baseURL := cfg.Jeedom.URL
	apiKey := cfg.Jeedom.APIKey.Value()

	if cfg.Fake {
		hc.Transport = jeedom.SampleTransport()
		if baseURL == "" {
			baseURL = fakeURL
		}
		if apiKey == "" {
			apiKey = "fake"
		}
	} else {
		reachable, err := jeedom.NewProber(cfg.Jeedom.TimeoutOrDefault(), logger.Underlying()).
			Probe(ctx, cfg.Jeedom.URLs()...)
		if err != nil {
			return nil, err
		}
		baseURL = reachable
	}

	client, err := jeedom.NewClient(baseURL, apiKey,
		jeedom.WithHTTPClient(hc),
		jeedom.WithLogger(logger.Underlying().Named("jeedom")),
	)
	if err != nil {
		return nil, err
	}

	// A reachable port can still be a proxy in front of a stopped controller.
	if _, err := client.Ping(logging.WithMethod(ctx, jeedom.MethodPing)); err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}
	logger.Debug(ctx, "jeedom reachable", zap.String("url", client.BaseURL()))
	return client, nil
}

// poll fetches the three data categories in order. On failure it prints the
// category's error line and returns a reportedError.
func poll(ctx context.Context, client *jeedom.Client, t alerts.Thresholds, out io.Writer) (alerts.Counters, error) {
	summary, err := client.GlobalSummary(logging.WithMethod(ctx, jeedom.MethodGlobalSummary))
	if err != nil {
		return alerts.Counters{}, report(out, "Global summary", explainSummaryError(ctx, client, err))
	}

	devices, err := client.Devices(logging.WithMethod(ctx, jeedom.MethodDevices))
	if err != nil {
		return alerts.Counters{}, report(out, "Battery status", err)
	}

	notifications, err := client.Notifications(logging.WithMethod(ctx, jeedom.MethodNotifications))
	if err != nil {
		return alerts.Counters{}, report(out, "Notifications", err)
	}

	counters := alerts.Aggregate(summary, devices, notifications, t)
	logging.FromContext(ctx).Debug(ctx, "alerts aggregated",
		zap.Uint32("battery_warning", counters.BatteryWarning),
		zap.Uint32("battery_danger", counters.BatteryDanger),
		zap.Uint32("notifications", counters.Notifications),
		zap.Uint32("updates", counters.Updates),
		zap.Int("devices", len(devices)),
	)
	return counters, nil
}

func report(out io.Writer, label string, err error) error {
	fmt.Fprintf(out, "%s Jeedom error: %v\n", label, err)
	return &reportedError{err: fmt.Errorf("%s: %w", label, err)}
}

// explainSummaryError names the controller version when a summary lacks
// categories because the controller predates the keyed summary format.
func explainSummaryError(ctx context.Context, client *jeedom.Client, err error) error {
	if !errors.Is(err, jeedom.ErrMissingCategory) {
		return err
	}
	v, verr := client.Version(logging.WithMethod(ctx, jeedom.MethodVersion))
	if verr != nil {
		return err
	}
	if ok, _ := jeedom.SupportsSummary(v); ok {
		return err
	}
	return fmt.Errorf("%w: controller %s predates %s", err, v, jeedom.MinSummaryVersion)
}
