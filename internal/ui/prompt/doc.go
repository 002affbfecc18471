// Package prompt provides a yes/no confirmation prompt.
//
// [Confirm] draws on stderr and reads keys from stdin. Callers should only
// prompt when both are terminals.
package prompt
