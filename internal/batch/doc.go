// Package batch runs one action across every repository of the checkout tree.
//
// Actions are looked up in a table ([Actions]) and executed by a [Runner]
// that receives its collaborators explicitly: configuration, git executor,
// remote lister, printer and logger. Repositories are processed one after
// another; per-repository results are collected in an [Outcome].
//
// Local actions (checkout, pull, status, diff, run) work on the repositories
// found by [git.ScanAll]: libraries directly under the base directory first,
// then applications under base/applications. Remote actions (list, clone)
// work on the repositories reported by the lister.
package batch
