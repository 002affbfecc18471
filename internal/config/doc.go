// Package config handles loading and validation of orgit configuration.
//
// Configuration is read from ~/.config/orgit/config.toml.
//
// # Configuration Sources (highest priority first)
//
//   - Command line flags (--git-base, --org, --repositories, --use-git-get, --cache)
//   - ORGIT_GIT_BASE, ORGIT_ORG and ORGIT_CACHE_DIR env vars
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - git_base: directory holding the checkouts (must be absolute or ~/...)
//   - org: GitHub organization, "horde" by default
//   - [marker]: file a remote repository must contain to be listed
//   - [cache]: on-disk cache of organization listings
//   - [http]: timeout and retry count for GitHub requests
//
// Durations are TOML strings such as "24h" or "30s".
package config
