// Package git runs git in local repositories and finds those repositories.
//
// Git is driven through the git CLI (see the cmd package) so user settings
// such as credential helpers and aliases like "get" keep working.
//
// # Running commands
//
// [Executor.Execute] takes a sub-command line ("checkout develop",
// "log -1 --oneline"), splits it with [SplitWords] and runs it in a
// repository. Output is returned as lines with stdout and stderr merged.
// A non-zero exit is part of the [CommandResult]; only a process that cannot
// be started yields an error, a [*SpawnError].
//
// # Finding repositories
//
// [Scan] yields the direct children of a directory that contain a .git
// directory. [ScanAll] covers a [Layout]: libraries in the base directory and
// applications in its "applications" sub-directory, classified by
// [IsApplication].
package git
