package blockx

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hengadev/blockx/universe"
)

type Option func(b *Builder) error

// WithUniverse sets the provider scanned for package and marker rules.
// Defaults to universe.Default.
func WithUniverse(p universe.Provider) Option {
	return func(b *Builder) error {
		if p == nil {
			return fmt.Errorf("%w: universe provider cannot be nil", ErrInvalidConfiguration)
		}
		b.provider = p
		return nil
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			return fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfiguration)
		}
		b.logger = logger
		return nil
	}
}

// WithMetrics registers the builder's collectors with reg. Collectors already
// registered by an earlier builder are reused.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(b *Builder) error {
		if reg == nil {
			return fmt.Errorf("%w: metrics registerer cannot be nil", ErrInvalidConfiguration)
		}
		m, err := newMetrics(reg)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		b.metrics = m
		return nil
	}
}
