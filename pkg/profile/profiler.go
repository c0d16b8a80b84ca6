package profile

import (
	"context"
	"io"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/maxgio92/ioprofile/pkg/trace"
)

const eventsChBufSize = 1024

// Profiler runs the normalizer and the aggregator over one capture.
type Profiler struct {
	*ProfilerOptions
}

func NewProfiler(opts ...ProfilerOption) *Profiler {
	p := &Profiler{
		ProfilerOptions: &ProfilerOptions{
			config: DefaultConfig(),
			logger: log.Nop(),
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.normalizer == nil {
		p.normalizer = trace.NewNormalizer(trace.WithNormalizerLogger(p.logger))
	}

	return p
}

// Run normalizes the capture read from r and aggregates the resulting
// events into a report. The configuration is validated before anything
// is read.
func (p *Profiler) Run(ctx context.Context, r io.Reader) (*Report, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	agg, err := NewAggregator(p.config)
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	eventsCh := make(chan trace.Event, eventsChBufSize)

	// A single producer and a single consumer keep events in input order.
	g.Go(func() error {
		defer close(eventsCh)
		return p.normalizer.Run(ctx, r, func(e trace.Event) error {
			select {
			case eventsCh <- e:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})

	g.Go(func() error {
		for e := range eventsCh {
			agg.Add(e)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "failed to profile capture")
	}

	report := agg.Report()
	p.logger.Debug().
		Int("rows", len(report.Rows)).
		Strs("columns", report.Columns).
		Msg("report built")

	return report, nil
}

// Normalizer returns the normalizer used by Run.
func (p *Profiler) Normalizer() *trace.Normalizer {
	return p.normalizer
}
