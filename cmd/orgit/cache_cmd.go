package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/orgit/internal/config"
	"github.com/raphi011/orgit/internal/output"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Short:   "Manage the HTTP cache",
		GroupID: GroupConfig,
		Long: `Manage the on-disk cache of GitHub responses.

The cache is used when --cache is given or cache.enabled is set.
Entries expire after cache.ttl (default 24h).`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openCache(config.FromContext(ctx))
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			output.FromContext(ctx).Success("Cleared " + store.Path())
			return nil
		},
	})

	return cmd
}
