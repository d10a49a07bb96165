package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/jeedom-status/internal/bar"
	"github.com/fyrsmithlabs/jeedom-status/internal/config"
	"github.com/fyrsmithlabs/jeedom-status/internal/glyph"
	"github.com/fyrsmithlabs/jeedom-status/internal/logging"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath string
	envFile    string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "jeedom-status",
		Short: "Print a Jeedom alert summary for status bars",
		Long: `jeedom-status queries a Jeedom controller once and prints its global
summary, low batteries and pending notifications as a single status line.

Settings come from flags, then the environment (JEEDOM_URL, JEEDOM_API_KEY,
BAR_TYPE, ...), then ~/.config/jeedom-status/config.yaml.

Examples:
  # xbar / SwiftBar plugin
  jeedom-status -u http://jeedom.local -k $KEY

  # i3blocks with the Jeedom icon font and an external fallback URL
  jeedom-status -u http://jeedom.local -a https://jeedom.example.com -k $KEY -b i3blocks -s jeedom

  # Try the output without a controller
  jeedom-status --fake -b none -s emoji`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runStatus(cmd, cfg)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringP("url", "u", "", "Jeedom URL, like http://jeedom")
	f.StringP("alternateUrl", "a", "", "alternate Jeedom URL used when the first one is unreachable")
	f.StringP("apiKey", "k", "", "Jeedom API key or user hash key")
	f.StringP("barType", "b", "mac", fmt.Sprintf("bar type: %s", strings.Join(bar.Formats(), ", ")))
	f.StringP("barStyle", "s", "text", fmt.Sprintf("bar style: %s", strings.Join(glyph.Themes(), ", ")))
	f.BoolP("ignore-battery-warning", "w", false, "do not show battery warnings, only dangers")
	f.Duration("timeout", 10*time.Second, "timeout of each request to Jeedom")
	f.BoolP("fake", "f", false, "render sample data without connecting to Jeedom")
	f.SetNormalizeFunc(normalizeFlagName)

	pf := cmd.PersistentFlags()
	pf.BoolP("debug", "d", false, "log debug information to stderr")
	pf.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/jeedom-status/config.yaml)")
	pf.StringVar(&opts.envFile, "env-file", "", "dotenv file loaded before reading the environment")

	cmd.AddCommand(newVersionCmd(opts))
	return cmd
}

// normalizeFlagName accepts the misspelled --alertnateUrl of earlier releases.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "alertnateUrl" {
		name = "alternateUrl"
	}
	return pflag.NormalizedName(name)
}

// loadConfig layers flags set on the command line over the loaded config.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(config.Options{Path: opts.configPath, EnvFile: opts.envFile})
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, cmd.Flags()); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, f *pflag.FlagSet) error {
	strs := map[string]*string{
		"url":          &cfg.Jeedom.URL,
		"alternateUrl": &cfg.Jeedom.AlternateURL,
		"barType":      &cfg.Bar.Type,
		"barStyle":     &cfg.Bar.Style,
	}
	for name, dst := range strs {
		if f.Lookup(name) == nil || !f.Changed(name) {
			continue
		}
		v, err := f.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	bools := map[string]*bool{
		"ignore-battery-warning": &cfg.Bar.IgnoreBatteryWarning,
		"fake":                   &cfg.Fake,
		"debug":                  &cfg.Debug,
	}
	for name, dst := range bools {
		if f.Lookup(name) == nil || !f.Changed(name) {
			continue
		}
		v, err := f.GetBool(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if f.Lookup("apiKey") != nil && f.Changed("apiKey") {
		v, err := f.GetString("apiKey")
		if err != nil {
			return err
		}
		cfg.Jeedom.APIKey = config.Secret(v)
	}
	if f.Lookup("timeout") != nil && f.Changed("timeout") {
		v, err := f.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Jeedom.Timeout = config.Duration(v)
	}
	return nil
}

// newLogger builds the stderr logger; stdout is reserved for the bar.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*logging.Logger, error) {
	logCfg, err := logging.FromAppConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid log configuration: %w", err)
	}
	logCfg.Output = cmd.ErrOrStderr()

	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, err
	}

	logger.Debug(cmd.Context(), "configuration loaded",
		zap.String("url", cfg.Jeedom.URL),
		zap.String("alternate_url", cfg.Jeedom.AlternateURL),
		logging.Secret("api_key", cfg.Jeedom.APIKey),
		zap.String("bar_type", cfg.Bar.Type),
		zap.String("bar_style", cfg.Bar.Style),
		zap.Bool("ignore_battery_warning", cfg.Bar.IgnoreBatteryWarning),
		zap.Bool("fake", cfg.Fake),
	)
	return logger, nil
}
