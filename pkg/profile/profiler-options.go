package profile

import (
	log "github.com/rs/zerolog"

	"github.com/maxgio92/ioprofile/pkg/trace"
)

type ProfilerOptions struct {
	config     Config
	normalizer *trace.Normalizer

	logger log.Logger
}

type ProfilerOption func(*Profiler)

func WithConfig(cfg Config) ProfilerOption {
	return func(p *Profiler) {
		p.config = cfg
	}
}

// WithNormalizer sets the normalizer feeding the aggregator, so that the
// caller can read its progress and stats.
func WithNormalizer(n *trace.Normalizer) ProfilerOption {
	return func(p *Profiler) {
		p.normalizer = n
	}
}

func WithLogger(logger log.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.logger = logger.With().Str("component", "profiler").Logger()
	}
}
