package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the optional application configuration file
type AppConfig struct {
	path string

	Pinned []PinnedUser `toml:"pinned"`
}

// PinnedUser is a user that is always resolved ahead of the directory
// sweep, guaranteeing inclusion in the subscription even when the
// directory exceeds the filter bound.
type PinnedUser struct {
	UserPrincipalName string `toml:"user_principal_name"`
}

// Validate checks if the PinnedUser is valid
func (p *PinnedUser) Validate() error {
	if p.UserPrincipalName == "" {
		return goerr.New("pinned user_principal_name is required")
	}
	return nil
}

func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "app-config",
			Usage:       "Path to application configuration file (TOML)",
			Sources:     cli.EnvVars("PANOPTES_APP_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	seen := make(map[string]bool)
	for _, p := range a.Pinned {
		if err := p.Validate(); err != nil {
			return goerr.Wrap(err, "invalid pinned user")
		}
		if seen[p.UserPrincipalName] {
			return goerr.New("duplicate pinned user", goerr.V("user_principal_name", p.UserPrincipalName))
		}
		seen[p.UserPrincipalName] = true
	}
	return nil
}

// Configure loads and validates the configuration file, returning the
// pinned principal names. No file configured means no pinned users.
func (a *AppConfig) Configure() ([]string, error) {
	if a.path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read app config", goerr.V("path", a.path))
	}

	if err := toml.Unmarshal(data, a); err != nil {
		return nil, goerr.Wrap(err, "failed to parse app config", goerr.V("path", a.path))
	}

	if err := a.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid app config", goerr.V("path", a.path))
	}

	names := make([]string, len(a.Pinned))
	for i, p := range a.Pinned {
		names[i] = p.UserPrincipalName
	}

	return names, nil
}
