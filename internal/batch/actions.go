package batch

import (
	"context"
	"fmt"

	"github.com/raphi011/orgit/internal/log"
)

// Action names a batch action.
type Action string

// Actions of the git command group.
const (
	ActionList     Action = "list"
	ActionClone    Action = "clone"
	ActionPull     Action = "pull"
	ActionCheckout Action = "checkout"
	ActionStatus   Action = "status"
	ActionDiff     Action = "diff"
	ActionRun      Action = "run"
)

// Handler executes an action with its positional arguments.
type Handler func(ctx context.Context, r *Runner, args []string) error

// Definition describes one entry of the action table.
type Definition struct {
	Name    Action
	Usage   string // usage line, e.g. "checkout BRANCH"
	Short   string
	MinArgs int
	MaxArgs int // -1 = unlimited
	Run     Handler
}

var actions = []Definition{
	{
		Name:  ActionList,
		Usage: "list",
		Short: "Lists available remote repositories.",
		Run: func(ctx context.Context, r *Runner, _ []string) error {
			_, err := r.List(ctx)
			return err
		},
	},
	{
		Name:  ActionClone,
		Usage: "clone",
		Short: "Clones all remote repositories locally.",
		Run: func(ctx context.Context, r *Runner, _ []string) error {
			_, err := r.Clone(ctx)
			return err
		},
	},
	{
		Name:  ActionPull,
		Usage: "pull",
		Short: "Update local repositories.",
		Run: func(ctx context.Context, r *Runner, _ []string) error {
			o, err := r.Pull(ctx)
			if err != nil {
				return err
			}
			return failures(o)
		},
	},
	{
		Name:    ActionCheckout,
		Usage:   "checkout BRANCH",
		Short:   "Checkout BRANCH on all local repositories.",
		MinArgs: 1,
		MaxArgs: 1,
		Run: func(ctx context.Context, r *Runner, args []string) error {
			o, err := r.Checkout(ctx, args[0])
			if err != nil {
				return err
			}
			return failures(o)
		},
	},
	{
		Name:  ActionStatus,
		Usage: "status",
		Short: "Display status of all local repositories.",
		Run: func(ctx context.Context, r *Runner, _ []string) error {
			return r.Status(ctx)
		},
	},
	{
		Name:  ActionDiff,
		Usage: "diff",
		Short: "Display a diff of all local repositories.",
		Run: func(ctx context.Context, r *Runner, _ []string) error {
			return r.Diff(ctx)
		},
	},
	{
		Name:    ActionRun,
		Usage:   `run "GIT COMMAND" ["GIT COMMAND" ...]`,
		Short:   "Run GIT COMMAND on all local repositories.",
		MinArgs: 1,
		MaxArgs: -1,
		Run: func(ctx context.Context, r *Runner, args []string) error {
			_, err := r.Run(ctx, args)
			return err
		},
	},
}

// Actions returns the action table in help order.
func Actions() []Definition {
	return append([]Definition(nil), actions...)
}

// Lookup returns the definition of the action called name.
func Lookup(name string) (Definition, bool) {
	for _, d := range actions {
		if string(d.Name) == name {
			return d, true
		}
	}
	return Definition{}, false
}

// CheckArgs validates the number of positional arguments.
func (d Definition) CheckArgs(args []string) error {
	if len(args) < d.MinArgs {
		return fmt.Errorf("%w: usage: %s", ErrMissingArgument, d.Usage)
	}
	if d.MaxArgs >= 0 && len(args) > d.MaxArgs {
		return fmt.Errorf("%w %q: usage: %s", ErrUnexpectedArgument, args[d.MaxArgs], d.Usage)
	}
	return nil
}

// Dispatch runs the action called name with args.
func (r *Runner) Dispatch(ctx context.Context, name string, args []string) error {
	d, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: unknown action %q", ErrUnknownAction, name)
	}
	if err := d.CheckArgs(args); err != nil {
		return err
	}

	ctx = log.WithLogger(ctx, r.log)
	r.log.Debug("Running action", "action", name, "args", len(args))
	return d.Run(ctx, r, args)
}
