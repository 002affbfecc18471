package config

import "fmt"

// Overrides are command-line values. Nil fields leave the config untouched.
type Overrides struct {
	GitBase      *string
	Org          *string
	Repositories []string
	UseGitGet    *bool
	Cache        *bool
}

// Apply sets the non-nil overrides on cfg. GitBase is validated and
// expanded like the config file value.
func (o Overrides) Apply(cfg *Config) error {
	if o.GitBase != nil {
		if err := ValidatePath(*o.GitBase, "--git-base"); err != nil {
			return err
		}
		base, err := expandPath(*o.GitBase)
		if err != nil {
			return fmt.Errorf("expand --git-base: %w", err)
		}
		cfg.GitBase = base
	}
	if o.Org != nil {
		if *o.Org == "" {
			return fmt.Errorf("--org must not be empty")
		}
		cfg.Org = *o.Org
	}
	if o.Repositories != nil {
		cfg.Repositories = o.Repositories
	}
	if o.UseGitGet != nil {
		cfg.UseGitGet = *o.UseGitGet
	}
	if o.Cache != nil {
		cfg.Cache.Enabled = *o.Cache
	}
	return nil
}
