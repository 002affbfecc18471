// Package cmd provides helpers for executing shell commands with proper error handling.
//
// [OutputContext] captures stderr and uses it as the error message, so a
// failing git query reports what git said. [CombinedContext]
// keeps stdout and stderr in one ordered stream and reports the exit code
// instead of failing, which is what bulk commands need to show git's output
// for every repository.
//
// # Usage
//
//	out, code, err := cmd.CombinedContext(ctx, repoDir, "git", "pull")
//	if err != nil {
//	    // git could not be started, or ctx was cancelled
//	}
//	if code != 0 {
//	    // git ran and reported a failure; out holds its messages
//	}
//
// Every invocation is echoed through the context logger in verbose mode.
package cmd
