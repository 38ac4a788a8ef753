// Package mongoexec runs docpager queries and pipelines against a MongoDB
// collection.
package mongoexec

import (
	"context"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Alp4ka/docpager"
)

// Collection is the subset of *mongo.Collection the executor needs.
type Collection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

// Hydrator is implemented by records that finish decoding themselves, e.g.
// deriving computed fields. AfterFind runs for every record returned by a
// non-lean find.
type Hydrator interface {
	AfterFind(ctx context.Context) error
}

// Executor implements docpager.Finder and docpager.Aggregator.
type Executor struct {
	coll Collection
}

func New(coll Collection) *Executor {
	return &Executor{coll: coll}
}

// NewModel wraps coll into a paginated model.
func NewModel[T any](coll Collection, opts ...docpager.ModelOption) *docpager.Model[T] {
	return docpager.New[T](New(coll), opts...)
}

// Find implements docpager.Finder. Queries with populated relations run as
// an aggregation joining every relation.
func (e *Executor) Find(ctx context.Context, q *docpager.FindQuery, out any) error {
	if len(q.GetPopulate()) > 0 {
		if err := e.Aggregate(ctx, populatePipeline(q), out); err != nil {
			return err
		}
		return hydrate(ctx, q.IsLean(), out)
	}

	cursor, err := e.coll.Find(ctx, filterOrAll(q.GetFilter()), findOptions(q))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, out); err != nil {
		return err
	}

	return hydrate(ctx, q.IsLean(), out)
}

// Count implements docpager.Finder.
func (e *Executor) Count(ctx context.Context, q *docpager.FindQuery) (int64, error) {
	opts := options.Count()
	if c := q.GetCollation(); c != nil {
		opts.SetCollation(toCollation(c))
	}

	return e.coll.CountDocuments(ctx, filterOrAll(q.GetFilter()), opts)
}

// Aggregate implements docpager.Aggregator.
func (e *Executor) Aggregate(ctx context.Context, p *docpager.Pipeline, out any) error {
	opts := options.Aggregate()
	if p.IsAllowDiskUse() {
		opts.SetAllowDiskUse(true)
	}
	if c := p.GetCollation(); c != nil {
		opts.SetCollation(toCollation(c))
	}

	cursor, err := e.coll.Aggregate(ctx, p.Stages(), opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, out)
}

func findOptions(q *docpager.FindQuery) *options.FindOptions {
	opts := options.Find()
	if c := q.GetCollation(); c != nil {
		opts.SetCollation(toCollation(c))
	}
	if q.IsAllowDiskUse() {
		opts.SetAllowDiskUse(true)
	}
	if sort := q.GetSort(); len(sort) > 0 {
		opts.SetSort(sort.ToBSON())
	}
	if skip := q.GetSkip(); skip > 0 {
		opts.SetSkip(skip)
	}
	if projection := q.GetSelect().ToProjection(); len(projection) > 0 {
		opts.SetProjection(projection)
	}
	if !q.IsUnlimited() {
		opts.SetLimit(int64(q.GetLimit()))
	}

	return opts
}

func populatePipeline(q *docpager.FindQuery) *docpager.Pipeline {
	p := docpager.NewPipeline(mongo.Pipeline{{{Key: "$match", Value: filterOrAll(q.GetFilter())}}}).
		WithAllowDiskUse(q.IsAllowDiskUse()).
		WithCollation(q.GetCollation()).
		WithSort(q.GetSort()).
		WithSkip(q.GetSkip()).
		WithLimit(q.GetLimit())

	for _, populate := range q.GetPopulate() {
		p = p.WithLookup(populate.Lookup())
		if !populate.Many {
			p = p.Append(bson.D{{Key: "$unwind", Value: bson.D{
				{Key: "path", Value: "$" + populate.Path},
				{Key: "preserveNullAndEmptyArrays", Value: true},
			}}})
		}
	}

	return p.WithProject(q.GetSelect().ToProjection())
}

func toCollation(c *docpager.Collation) *options.Collation {
	return &options.Collation{
		Locale:          c.Locale,
		CaseLevel:       c.CaseLevel,
		CaseFirst:       c.CaseFirst,
		Strength:        c.Strength,
		NumericOrdering: c.NumericOrdering,
	}
}

func filterOrAll(filter any) any {
	if filter == nil {
		return bson.D{}
	}

	return filter
}

// hydrate calls AfterFind on every decoded record of out, a pointer to a
// slice, unless lean is set.
func hydrate(ctx context.Context, lean bool, out any) error {
	if lean {
		return nil
	}

	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Slice {
		return nil
	}

	records := v.Elem()
	for i := 0; i < records.Len(); i++ {
		record := records.Index(i)
		if record.Kind() != reflect.Pointer {
			record = record.Addr()
		} else if record.IsNil() {
			continue
		}

		if h, ok := record.Interface().(Hydrator); ok {
			if err := h.AfterFind(ctx); err != nil {
				return err
			}
		}
	}

	return nil
}

var (
	_ docpager.Finder     = (*Executor)(nil)
	_ docpager.Aggregator = (*Executor)(nil)
	_ Collection          = (*mongo.Collection)(nil)
)
