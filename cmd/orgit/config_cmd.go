package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/orgit/internal/config"
	"github.com/raphi011/orgit/internal/output"
	"github.com/raphi011/orgit/internal/ui/static"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage orgit configuration.

Config file: ~/.config/orgit/config.toml
Environment: ORGIT_GIT_BASE, ORGIT_ORG, ORGIT_CACHE_DIR
Flags override both.`,
		Example: `  orgit config init      # Create default config
  orgit config init -f   # Overwrite existing config
  orgit config show      # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Init(force)
			if err != nil {
				if !force {
					return fmt.Errorf("%w (use -f to overwrite)", err)
				}
				return err
			}
			output.FromContext(cmd.Context()).Plain("Created config file: " + path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			if jsonOutput {
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			path, err := config.Path()
			if err != nil {
				path = "(unknown)"
			}

			rows := static.KeyValueRows(
				"config file", path,
				"git_base", orNone(cfg.GitBase, "(not set)"),
				"org", cfg.Org,
				"repositories", orNone(strings.Join(cfg.Repositories, ","), "(all)"),
				"use_git_get", strconv.FormatBool(cfg.UseGitGet),
				"git_binary", cfg.GitBinary,
				"github.host", cfg.GitHub.Host,
				"github.api_url", cfg.GitHub.APIURL,
				"github.raw_url", cfg.GitHub.RawURL,
				"github.user_agent", cfg.GitHub.UserAgent,
				"marker.file", cfg.Marker.File,
				"marker.ref", orNone(cfg.Marker.Ref, "(default branch)"),
				"cache.enabled", strconv.FormatBool(cfg.Cache.Enabled),
				"cache.dir", orNone(cfg.Cache.Dir, "(default)"),
				"cache.ttl", cfg.Cache.TTL.String(),
				"http.timeout", cfg.HTTP.Timeout.String(),
				"http.retries", strconv.Itoa(cfg.HTTP.Retries),
			)
			out.Render(static.RenderTable([]string{"KEY", "VALUE"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func orNone(v, none string) string {
	if v == "" {
		return none
	}
	return v
}
