package docpager

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
)

// Result is a single page plus its position within the full result set.
//
// The typed fields are always populated. The keyed forms (Map, D, JSON and
// BSON encodings) follow the label map the page was built with: renamed
// fields use their label, disabled fields are absent.
type Result[T any] struct {
	// Docs - records of the page, at most Limit of them unless unlimited.
	Docs []T
	// TotalDocs - total number of matches, disregarding pagination.
	TotalDocs int64
	// Limit - effective limit. NoLimit means unlimited.
	Limit int
	// Page - effective 1-based page.
	Page int
	// TotalPages - 0 when unlimited.
	TotalPages  int64
	HasNextPage bool
	HasPrevPage bool
	// PrevPage and NextPage are nil when there is no such page.
	PrevPage *int
	NextPage *int
	// PagingCounter - 1-based ordinal of the first record of the page.
	PagingCounter int64

	labels LabelMap
}

// BuildResult computes pagination metadata for a fetched page. It is pure and
// never fails. Page and limit are normalized, and page is capped so that
// offsets fit into int64.
func BuildResult[T any](docs []T, totalDocs int64, page, limit int, labels LabelMap) *Result[T] {
	if docs == nil {
		docs = []T{}
	}
	if labels == nil {
		labels = DefaultLabelMap()
	}

	limit = NormalizeLimit(limit)
	page = ClampPage(page, limit)

	var (
		limit64    = int64(limit)
		page64     = int64(page)
		totalPages int64
	)
	if limit >= 1 {
		totalPages = totalDocs / limit64
		if totalDocs%limit64 > 0 {
			totalPages++
		}
	}

	ret := &Result[T]{
		Docs:          docs,
		TotalDocs:     totalDocs,
		Limit:         limit,
		Page:          page,
		TotalPages:    totalPages,
		HasNextPage:   limit >= 1 && page64 < totalPages,
		HasPrevPage:   page > 1,
		PagingCounter: (page64-1)*limit64 + 1,
		labels:        labels,
	}

	if totalPages > 1 && page > 1 {
		prev := page - 1
		ret.PrevPage = &prev
	}
	if totalPages > 1 && page64 < totalPages && limit > 0 {
		next := page + 1
		ret.NextPage = &next
	}

	return ret
}

// Labels returns the label map of the envelope.
func (r *Result[T]) Labels() LabelMap {
	return r.labels
}

// Key returns the output key of f and whether f is emitted.
func (r *Result[T]) Key(f Field) (string, bool) {
	return r.labels.Key(f)
}

// Has reports whether f is part of the keyed envelope.
func (r *Result[T]) Has(f Field) bool {
	_, ok := r.labels.Key(f)
	return ok
}

// Value returns the value of f regardless of its label. Absent page numbers
// are returned as an untyped nil.
func (r *Result[T]) Value(f Field) any {
	switch f {
	case FieldDocs:
		return r.Docs
	case FieldTotalDocs:
		return r.TotalDocs
	case FieldLimit:
		return r.Limit
	case FieldHasNextPage:
		return r.HasNextPage
	case FieldHasPrevPage:
		return r.HasPrevPage
	case FieldPage:
		return r.Page
	case FieldTotalPages:
		return r.TotalPages
	case FieldPrevPage:
		return optionalPage(r.PrevPage)
	case FieldNextPage:
		return optionalPage(r.NextPage)
	case FieldPagingCounter:
		return r.PagingCounter
	default:
		return nil
	}
}

// Map returns the envelope keyed by label.
func (r *Result[T]) Map() map[string]any {
	ret := make(map[string]any, len(r.labels))
	for _, f := range AllFields() {
		if key, ok := r.labels.Key(f); ok {
			ret[key] = r.Value(f)
		}
	}

	return ret
}

// D returns the envelope keyed by label, in canonical field order.
func (r *Result[T]) D() bson.D {
	ret := make(bson.D, 0, len(r.labels))
	for _, f := range AllFields() {
		if key, ok := r.labels.Key(f); ok {
			ret = append(ret, bson.E{Key: key, Value: r.Value(f)})
		}
	}

	return ret
}

func (r *Result[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

func (r *Result[T]) MarshalBSON() ([]byte, error) {
	return bson.Marshal(r.D())
}

func optionalPage(p *int) any {
	if p == nil {
		return nil
	}

	return *p
}

var (
	_ json.Marshaler = (*Result[any])(nil)
	_ bson.Marshaler = (*Result[any])(nil)
)
