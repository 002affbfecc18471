package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/orgit/internal/batch"
	"github.com/raphi011/orgit/internal/cache"
	"github.com/raphi011/orgit/internal/config"
	"github.com/raphi011/orgit/internal/git"
	"github.com/raphi011/orgit/internal/log"
	"github.com/raphi011/orgit/internal/output"
	"github.com/raphi011/orgit/internal/remote"
	"github.com/raphi011/orgit/internal/storage"
	"github.com/raphi011/orgit/internal/ui/progress"
)

func newGitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "git ACTION [ARGS]",
		Short:   "Perform git actions on all repositories",
		GroupID: GroupCore,
		Long: `Perform git actions on all repositories.

Local actions work on every git checkout directly below the base directory
(libraries) and below <base>/applications (applications). Remote actions
list the organization on GitHub and only consider repositories that contain
the marker file.`,
		Example: `  orgit git list                          # Repositories available on GitHub
  orgit git clone                         # Clone everything that is missing
  orgit git checkout FRAMEWORK_6_0        # Switch all checkouts to a branch
  orgit git pull --use-git-get            # Update with the 'get' alias
  orgit git run "fetch --all" "status -s" # Run commands in every repository
  orgit --repositories=imp,Horde_Core git status`,
		Args:                       cobra.ArbitraryArgs,
		Annotations:                map[string]string{needsGit: ""},
		SuggestionsMinimumDistance: 2,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}

			// Unknown actions end up here; Dispatch reports them.
			r := batch.New(batch.Deps{Config: config.FromContext(cmd.Context())})
			err := r.Dispatch(cmd.Context(), args[0], args[1:])
			if suggestions := cmd.SuggestionsFor(args[0]); err != nil && len(suggestions) > 0 {
				return fmt.Errorf("%w\n\nDid you mean this?\n\t%s", err, strings.Join(suggestions, "\n\t"))
			}
			return err
		},
	}

	for _, def := range batch.Actions() {
		cmd.AddCommand(newActionCmd(a, def))
	}

	return cmd
}

func newActionCmd(a *app, def batch.Definition) *cobra.Command {
	return &cobra.Command{
		Use:         def.Usage,
		Short:       def.Short,
		Annotations: map[string]string{needsGit: ""},
		Args: func(cmd *cobra.Command, args []string) error {
			return def.CheckArgs(args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.newRunner(ctx, def.Name)
			if err != nil {
				return err
			}
			return r.Dispatch(ctx, string(def.Name), args)
		},
	}
}

// newRunner wires a batch runner from the command context.
// Only list and clone get a remote lister.
func (a *app) newRunner(ctx context.Context, action batch.Action) (*batch.Runner, error) {
	cfg := config.FromContext(ctx)
	logger := log.FromContext(ctx)

	d := batch.Deps{
		Config:   cfg,
		Executor: git.NewExecutor(cfg.GitBinary),
		Printer:  output.FromContext(ctx),
		Logger:   logger,
		Verbose:  a.flags.verbose,
	}

	if action == batch.ActionList || action == batch.ActionClone {
		lister, err := a.newLister(cfg, logger)
		if err != nil {
			return nil, err
		}
		d.Lister = lister
	}

	return batch.New(d), nil
}

func (a *app) newLister(cfg *config.Config, logger *log.Logger) (batch.Lister, error) {
	opts := remote.Options{
		APIURL:     cfg.GitHub.APIURL,
		RawURL:     cfg.GitHub.RawURL,
		UserAgent:  cfg.GitHub.UserAgent,
		MarkerFile: cfg.Marker.File,
		MarkerRef:  cfg.Marker.Ref,
		HTTPClient: remote.NewHTTPClient(cfg.HTTP.Timeout, cfg.HTTP.Retries, logger),
		Logger:     logger,
	}

	if cfg.Cache.Enabled {
		store, err := openCache(cfg)
		if err != nil {
			return nil, err
		}
		logger.Debug("Using HTTP cache", "path", store.Path())
		opts.Cache = store
	}

	var sp *progress.Spinner
	if a.showProgress() {
		sp = progress.NewSpinner(a.stderr, "Listing repositories on "+cfg.Org)
		opts.Progress = sp
	}

	l, err := remote.New(opts)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return l, nil
	}
	return &spinnerLister{lister: l, spinner: sp}, nil
}

// showProgress reports whether a spinner may draw on stderr.
func (a *app) showProgress() bool {
	if a.flags.verbose || a.flags.debug || a.flags.quiet {
		return false
	}
	f, ok := a.stderr.(*os.File)
	return ok && progress.IsTerminal(f)
}

// spinnerLister shows a spinner on stderr while the organization is listed.
type spinnerLister struct {
	lister  batch.Lister
	spinner *progress.Spinner
}

func (s *spinnerLister) List(ctx context.Context, org string) (remote.Repositories, error) {
	s.spinner.Start()
	defer s.spinner.Stop()
	return s.lister.List(ctx, org)
}

// openCache opens the HTTP cache in the configured or default directory.
func openCache(cfg *config.Config) (*cache.Store, error) {
	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = storage.CacheDir(); err != nil {
			return nil, fmt.Errorf("resolve cache directory: %w", err)
		}
	}
	return cache.Open(dir, cfg.Cache.TTL)
}
