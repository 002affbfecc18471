package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/orgit/internal/batch"
	"github.com/raphi011/orgit/internal/config"
	"github.com/raphi011/orgit/internal/doctor"
	"github.com/raphi011/orgit/internal/git"
	"github.com/raphi011/orgit/internal/log"
	"github.com/raphi011/orgit/internal/output"
)

// Command group IDs for organizing help output
const (
	GroupCore   = "core"
	GroupConfig = "config"
)

// needsGit marks commands that check for the git binary before running.
const needsGit = "needs-git"

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	gitBase      string
	org          string
	repositories []string
	useGitGet    bool
	cache        bool
	verbose      bool
	debug        bool
	quiet        bool
}

// app is the state shared by all commands of one invocation.
type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
	flags  globalFlags
}

// overrides returns the flag values the user set explicitly.
func (a *app) overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("git-base") {
		o.GitBase = &a.flags.gitBase
	}
	if flags.Changed("org") {
		o.Org = &a.flags.org
	}
	if flags.Changed("repositories") {
		o.Repositories = a.flags.repositories
	}
	if flags.Changed("use-git-get") {
		o.UseGitGet = &a.flags.useGitGet
	}
	if flags.Changed("cache") {
		o.Cache = &a.flags.cache
	}
	return o
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orgit",
		Short: "Bulk git operations across the repositories of a GitHub organization",
		Long: `orgit manages a local checkout of all repositories of one GitHub organization.

It lists the organization's repositories that carry a marker file, clones them
into a base directory (libraries at the top level, applications below
applications/) and runs checkout, pull, status, diff or arbitrary git commands
across every local repository, one after another.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
				return nil
			}

			if err := a.overrides(cmd).Apply(a.cfg); err != nil {
				return err
			}

			logger := log.New(a.stderr, a.flags.verbose, a.flags.quiet).WithDebug(a.flags.debug)
			ctx := cmd.Context()
			ctx = log.WithLogger(ctx, logger)
			ctx = output.WithPrinter(ctx, a.stdout)
			ctx = config.WithConfig(ctx, a.cfg)
			cmd.SetContext(ctx)

			if _, ok := cmd.Annotations[needsGit]; ok {
				return git.CheckBinary(a.cfg.GitBinary)
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.gitBase, "git-base", "", "Base checkout directory (default from config)")
	pf.StringVar(&a.flags.org, "org", config.DefaultOrg, "GitHub organization")
	pf.StringSliceVar(&a.flags.repositories, "repositories", nil, "Only act on these comma separated repositories")
	pf.BoolVar(&a.flags.useGitGet, "use-git-get", false, "Use the 'get' alias instead of 'pull' for updating")
	pf.BoolVar(&a.flags.cache, "cache", false, "Cache GitHub responses on disk")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Show git commands being executed and their output")
	pf.BoolVar(&a.flags.debug, "debug", false, "Show debug notices")
	pf.BoolVarP(&a.flags.quiet, "quiet", "q", false, "Suppress all log output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Repository Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	cmd.AddCommand(newGitCmd(a))
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCacheCmd())
	cmd.AddCommand(newDoctorCmd(a))

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	return cmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	a := &app{cfg: &loadedCfg, stdout: os.Stdout, stderr: os.Stderr}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if !errors.Is(err, batch.ErrSomeFailed) && !errors.Is(err, doctor.ErrIssuesFound) {
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, "Run 'orgit -h' for help")
		}
		cancel()
		os.Exit(1)
	}
}
