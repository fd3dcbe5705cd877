// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions selects where configuration is read from. The zero value
// means the platform config directory.
type LoadOptions struct {
	// ConfigFilePath forces a specific config file; the file must exist.
	ConfigFilePath string
	// ConfigDirPath overrides the config directory lookup.
	ConfigDirPath string
}

// Provider loads a validated Config.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type tomlProvider struct{}

// NewProvider returns the TOML file provider.
func NewProvider() Provider {
	return &tomlProvider{}
}

func (p *tomlProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
