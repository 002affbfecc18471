package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/orgit/internal/cache"
	"github.com/raphi011/orgit/internal/config"
	"github.com/raphi011/orgit/internal/doctor"
	"github.com/raphi011/orgit/internal/ui/progress"
	"github.com/raphi011/orgit/internal/ui/prompt"
)

func newDoctorCmd(a *app) *cobra.Command {
	var fix, yes bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose and repair the local checkout",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Diagnose and repair the local checkout.

Checks:
- The git binary is available
- use_git_get has a matching 'get' alias
- The effective configuration is valid and git_base is set
- The base and applications directories exist
- Libraries and applications are checked out in their own directories
- The HTTP cache file is readable (when the cache is enabled)

Moving repositories asks for confirmation on a terminal unless --yes is given.

Examples:
  orgit doctor          # Check for issues
  orgit doctor --fix    # Create missing directories, move misplaced repositories`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)

			var store *cache.Store
			if cfg.Cache.Enabled {
				var err error
				if store, err = openCache(cfg); err != nil {
					return err
				}
			}

			opts := doctor.Options{Config: cfg, Cache: store, Fix: fix}
			if !yes && a.interactive() {
				opts.Confirm = func(msg string) bool {
					res, err := prompt.Confirm(os.Stdin, a.stderr, msg)
					return err == nil && res.Confirmed
				}
			}

			_, err := doctor.Run(ctx, opts)
			return err
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Auto-fix recoverable issues")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Move repositories without asking")

	return cmd
}

// interactive reports whether both stdin and stderr are terminals.
func (a *app) interactive() bool {
	f, ok := a.stderr.(*os.File)
	return ok && progress.IsTerminal(f) && progress.IsTerminal(os.Stdin)
}
