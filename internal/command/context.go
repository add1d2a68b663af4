package command

import (
	"context"
	"fmt"

	"github.com/osgameclones/osgc/internal/config"
)

type configKey struct{}

// WithConfig returns a new context with the configuration instance
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// GetConfig retrieves the configuration instance from the context
func GetConfig(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return nil
}

// RequireConfig retrieves the configuration and returns an error if not found
func RequireConfig(ctx context.Context) (*config.Config, error) {
	if ctx == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	cfg := GetConfig(ctx)
	if cfg == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return cfg, nil
}
