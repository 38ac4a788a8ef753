package docpager

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// memCollection is an in-memory executor over plain documents. Filters are
// equality matches; pipelines support $match, $sort, $skip, $limit, $project
// and a count-all $group.
type memCollection struct {
	mu        sync.Mutex
	docs      []bson.M
	finds     []*FindQuery
	counts    []*FindQuery
	pipelines []*Pipeline
	err       error
}

func newMemCollection(docs ...bson.M) *memCollection {
	return &memCollection{docs: docs}
}

func (c *memCollection) Find(ctx context.Context, q *FindQuery, out any) error {
	c.mu.Lock()
	c.finds = append(c.finds, q)
	c.mu.Unlock()

	if c.err != nil {
		return c.err
	}

	docs := c.match(q.GetFilter())
	docs = sortDocs(docs, q.GetSort().ToBSON())
	docs = skipDocs(docs, q.GetSkip())
	if !q.IsUnlimited() {
		docs = limitDocs(docs, int64(q.GetLimit()))
	}
	docs = projectDocs(docs, q.GetSelect().ToProjection())

	return decodeAll(ctx, docs, out)
}

func (c *memCollection) Count(_ context.Context, q *FindQuery) (int64, error) {
	c.mu.Lock()
	c.counts = append(c.counts, q)
	c.mu.Unlock()

	if c.err != nil {
		return 0, c.err
	}

	return int64(len(c.match(q.GetFilter()))), nil
}

func (c *memCollection) Aggregate(ctx context.Context, p *Pipeline, out any) error {
	c.mu.Lock()
	c.pipelines = append(c.pipelines, p)
	c.mu.Unlock()

	if c.err != nil {
		return c.err
	}

	docs := c.match(nil)
	for _, stage := range p.Stages() {
		switch op := stage[0]; op.Key {
		case "$match":
			docs = filterDocs(docs, op.Value)
		case "$sort":
			docs = sortDocs(docs, op.Value.(bson.D))
		case "$skip":
			docs = skipDocs(docs, op.Value.(int64))
		case "$limit":
			docs = limitDocs(docs, op.Value.(int64))
		case "$project":
			docs = projectDocs(docs, op.Value.(bson.D))
		case "$group":
			if len(docs) == 0 {
				break
			}
			docs = []bson.M{{"_id": nil, "count": int64(len(docs))}}
		default:
			return fmt.Errorf("unsupported stage %s", op.Key)
		}
	}

	return decodeAll(ctx, docs, out)
}

func (c *memCollection) match(filter any) []bson.M {
	return filterDocs(slices.Clone(c.docs), filter)
}

func filterDocs(docs []bson.M, filter any) []bson.M {
	conditions, _ := filter.(bson.M)
	return slices.DeleteFunc(docs, func(doc bson.M) bool {
		for key, want := range conditions {
			if doc[key] != want {
				return true
			}
		}
		return false
	})
}

func sortDocs(docs []bson.M, sort bson.D) []bson.M {
	slices.SortStableFunc(docs, func(a, b bson.M) int {
		for _, e := range sort {
			res := cmp.Compare(fmt.Sprint(a[e.Key]), fmt.Sprint(b[e.Key]))
			if e.Value.(int) < 0 {
				res = -res
			}
			if res != 0 {
				return res
			}
		}
		return 0
	})
	return docs
}

func skipDocs(docs []bson.M, skip int64) []bson.M {
	return docs[min(int(skip), len(docs)):]
}

func limitDocs(docs []bson.M, limit int64) []bson.M {
	return docs[:min(int(limit), len(docs))]
}

func projectDocs(docs []bson.M, projection bson.D) []bson.M {
	if len(projection) == 0 {
		return docs
	}

	ret := make([]bson.M, 0, len(docs))
	for _, doc := range docs {
		projected := bson.M{"_id": doc["_id"]}
		for _, e := range projection {
			if e.Value == 1 {
				projected[e.Key] = doc[e.Key]
			}
		}
		ret = append(ret, projected)
	}
	return ret
}

func decodeAll(ctx context.Context, docs []bson.M, out any) error {
	raw := make([]any, 0, len(docs))
	for _, doc := range docs {
		raw = append(raw, doc)
	}

	cursor, err := mongo.NewCursorFromDocuments(raw, nil, nil)
	if err != nil {
		return err
	}

	return cursor.All(ctx, out)
}
