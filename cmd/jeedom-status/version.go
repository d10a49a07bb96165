package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/jeedom-status/internal/config"
	"github.com/fyrsmithlabs/jeedom-status/internal/release"
)

func newVersionCmd(opts *rootOptions) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current version",
		Long: `Print the current version.

With --check, also query GitHub for the latest release and report whether
an update is available. GITHUB_TOKEN is used when set.

Examples:
  jeedom-status version
  jeedom-status version --check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, version)
			if !check {
				return nil
			}

			cfg, err := config.Load(config.Options{Path: opts.configPath, EnvFile: opts.envFile})
			if err != nil {
				return err
			}
			if err := applyFlags(cfg, cmd.Flags()); err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			checker, err := release.NewChecker(cmd.Context(), cfg.GitHub.ReleaseRepository,
				release.WithToken(cfg.GitHub.Token.Value()),
				release.WithBaseURL(cfg.GitHub.APIURL),
				release.WithLogger(logger.Underlying().Named("release")),
			)
			if err != nil {
				return err
			}

			status, err := checker.Check(cmd.Context(), version)
			if errors.Is(err, release.ErrInvalidVersion) {
				latest, lerr := checker.Latest(cmd.Context())
				if lerr != nil {
					return lerr
				}
				fmt.Fprintf(out, "Development build, latest release is %s: %s\n", latest.Version, latest.URL)
				return nil
			}
			if err != nil {
				return err
			}

			if status.UpdateAvailable() {
				fmt.Fprintf(out, "New version available: %s (%s)\n", status.Latest.Version, status.Latest.URL)
			} else {
				fmt.Fprintln(out, "Up to date")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}
