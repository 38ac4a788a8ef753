package docpager

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoAggregator is returned by PaginateAggregate when the wrapped
	// executor cannot run aggregation pipelines.
	ErrNoAggregator = errors.New("executor does not support aggregation pipelines")
)

// Finder executes predicate lookups against one record collection.
//
// Find decodes the records selected by q into out, a pointer to a slice.
// Count returns the number of records matching the filter and collation of
// q; every other modifier is ignored.
type Finder interface {
	Find(ctx context.Context, q *FindQuery, out any) error
	Count(ctx context.Context, q *FindQuery) (int64, error)
}

// Aggregator executes aggregation pipelines against one record collection,
// decoding the output documents into out, a pointer to a slice.
type Aggregator interface {
	Aggregate(ctx context.Context, p *Pipeline, out any) error
}

// Paginator is the capability a paginated record model exposes.
type Paginator[T any] interface {
	// PaginateQuery returns one page of the records matching filter. A nil
	// filter matches every record.
	PaginateQuery(ctx context.Context, filter any, opts *Options) (*Result[T], error)
	// PaginateAggregate returns one page of the output of stages. Nil stages
	// form an empty pipeline.
	PaginateAggregate(ctx context.Context, stages mongo.Pipeline, opts *Options) (*Result[T], error)
}

// Model decorates a collection executor with pagination.
type Model[T any] struct {
	finder     Finder
	aggregator Aggregator
	settings   *Settings
	logger     *zerolog.Logger
}

type ModelOption func(*modelConfig)

type modelConfig struct {
	settings   *Settings
	logger     *zerolog.Logger
	aggregator Aggregator
}

// WithSettings makes the model read its global tier from settings instead of
// Global().
func WithSettings(settings *Settings) ModelOption {
	return func(c *modelConfig) {
		c.settings = settings
	}
}

// WithLogger sets the logger. By default the logger attached to the call
// context is used.
func WithLogger(logger zerolog.Logger) ModelOption {
	return func(c *modelConfig) {
		c.logger = &logger
	}
}

// WithAggregator sets the pipeline executor explicitly.
func WithAggregator(aggregator Aggregator) ModelOption {
	return func(c *modelConfig) {
		c.aggregator = aggregator
	}
}

// New wraps finder. If finder also implements Aggregator, pipeline
// pagination is available without WithAggregator.
func New[T any](finder Finder, opts ...ModelOption) *Model[T] {
	cfg := modelConfig{settings: Global()}
	if aggregator, ok := finder.(Aggregator); ok {
		cfg.aggregator = aggregator
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Model[T]{
		finder:     finder,
		aggregator: cfg.aggregator,
		settings:   cfg.settings,
		logger:     cfg.logger,
	}
}

// Settings returns the global tier the model resolves against.
func (m *Model[T]) Settings() *Settings {
	return m.settings
}

// PaginateQuery implements Paginator.
func (m *Model[T]) PaginateQuery(ctx context.Context, filter any, opts *Options) (*Result[T], error) {
	start := time.Now()
	r := m.settings.Resolve(opts)
	dataQuery, countQuery := buildFindQueries(filter, r)

	var (
		docs  []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.finder.Find(gctx, dataQuery, &docs)
	})
	g.Go(func() (err error) {
		total, err = m.finder.Count(gctx, countQuery)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m.log(ctx).Debug().
		Str("operation", "paginate_query").
		Int("page", r.Page).
		Int("limit", r.Limit).
		Int64("skip", r.Skip).
		Int("docs", len(docs)).
		Int64("total_docs", total).
		Dur("duration", time.Since(start)).
		Msg("page fetched")

	return BuildResult(docs, total, r.Page, r.Limit, r.Labels), nil
}

// PaginateAggregate implements Paginator.
func (m *Model[T]) PaginateAggregate(ctx context.Context, stages mongo.Pipeline, opts *Options) (*Result[T], error) {
	if m.aggregator == nil {
		return nil, ErrNoAggregator
	}

	start := time.Now()
	r := m.settings.Resolve(opts)
	dataPipeline, countPipeline := buildPipelines(stages, r)

	var (
		docs   []T
		counts []countResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.aggregator.Aggregate(gctx, dataPipeline, &docs)
	})
	g.Go(func() error {
		return m.aggregator.Aggregate(gctx, countPipeline, &counts)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int64
	if len(counts) > 0 {
		total = counts[0].Count
	}

	m.log(ctx).Debug().
		Str("operation", "paginate_aggregate").
		Int("stages", len(stages)).
		Int("page", r.Page).
		Int("limit", r.Limit).
		Int64("skip", r.Skip).
		Int("docs", len(docs)).
		Int64("total_docs", total).
		Dur("duration", time.Since(start)).
		Msg("page fetched")

	return BuildResult(docs, total, r.Page, r.Limit, r.Labels), nil
}

func (m *Model[T]) log(ctx context.Context) *zerolog.Logger {
	if m.logger != nil {
		return m.logger
	}

	return zerolog.Ctx(ctx)
}

var _ Paginator[any] = (*Model[any])(nil)
