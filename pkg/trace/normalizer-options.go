package trace

import (
	log "github.com/rs/zerolog"
)

type NormalizerOptions struct {
	sharedDescriptors bool

	logger log.Logger
}

type NormalizerOption func(*Normalizer)

// WithNormalizerSharedDescriptors makes every pid resolve descriptors in a
// single table.
func WithNormalizerSharedDescriptors(shared bool) NormalizerOption {
	return func(n *Normalizer) {
		n.sharedDescriptors = shared
	}
}

func WithNormalizerLogger(logger log.Logger) NormalizerOption {
	return func(n *Normalizer) {
		n.logger = logger.With().Str("component", "normalizer").Logger()
	}
}
