package docpager

import (
	"slices"
)

// FindQuery is a predicate lookup with pagination modifiers, handed to a
// Finder. Modifiers are recorded by the chainable With* methods; executors
// read them back through the getters.
type FindQuery struct {
	filter       any
	collation    *Collation
	allowDiskUse bool
	lean         bool
	sort         Orderings
	skip         int64
	selection    Fields
	populate     []Populate
	limit        int
}

// NewFindQuery creates a query matching filter. A nil filter matches every
// record.
func NewFindQuery(filter any) *FindQuery {
	return &FindQuery{filter: filter}
}

// WithCollation sets the collation. An empty collation is ignored.
func (q *FindQuery) WithCollation(collation *Collation) *FindQuery {
	if q == nil {
		q = new(FindQuery)
	}

	if !collation.IsEmpty() {
		c := *collation
		q.collation = &c
	}

	return q
}

func (q *FindQuery) WithAllowDiskUse(allow bool) *FindQuery {
	if q == nil {
		q = new(FindQuery)
	}

	q.allowDiskUse = allow

	return q
}

func (q *FindQuery) WithLean(lean bool) *FindQuery {
	if q == nil {
		q = new(FindQuery)
	}

	q.lean = lean

	return q
}

// WithSort substitutes the sort orderings.
func (q *FindQuery) WithSort(orderings Orderings) *FindQuery {
	if q == nil {
		q = new(FindQuery)
	}

	q.sort = slices.Clone(orderings)

	return q
}

func (q *FindQuery) WithSkip(skip int64) *FindQuery {
	if q == nil {
		q = new(FindQuery)
	}

	q.skip = max(skip, 0)

	return q
}

func (q *FindQuery) WithSelect(fields Fields) *FindQuery {
	if q == nil {
		q = new(FindQuery)
	}

	q.selection = slices.Clone(fields)

	return q
}

func (q *FindQuery) WithPopulate(populate ...Populate) *FindQuery {
	if q == nil {
		q = new(FindQuery)
	}

	q.populate = append(q.populate, populate...)

	return q
}

// WithLimit sets the maximum number of records. NoLimit (or anything below 1)
// removes the limit.
func (q *FindQuery) WithLimit(limit int) *FindQuery {
	if q == nil {
		q = new(FindQuery)
	}

	q.limit = NormalizeLimit(limit)

	return q
}

// Clone returns an independent copy of the query.
func (q *FindQuery) Clone() *FindQuery {
	if q == nil {
		return nil
	}

	cloned := *q
	cloned.collation = clonePtr(q.collation)
	cloned.sort = slices.Clone(q.sort)
	cloned.selection = slices.Clone(q.selection)
	cloned.populate = slices.Clone(q.populate)

	return &cloned
}

// GetFilter returns the predicate. Nil matches every record.
func (q *FindQuery) GetFilter() any {
	if q == nil {
		return nil
	}

	return q.filter
}

func (q *FindQuery) GetCollation() *Collation {
	if q == nil {
		return nil
	}

	return q.collation
}

func (q *FindQuery) IsAllowDiskUse() bool {
	return q != nil && q.allowDiskUse
}

func (q *FindQuery) IsLean() bool {
	return q != nil && q.lean
}

func (q *FindQuery) GetSort() Orderings {
	if q == nil {
		return nil
	}

	return q.sort
}

func (q *FindQuery) GetSkip() int64 {
	if q == nil {
		return 0
	}

	return q.skip
}

func (q *FindQuery) GetSelect() Fields {
	if q == nil {
		return nil
	}

	return q.selection
}

func (q *FindQuery) GetPopulate() []Populate {
	if q == nil {
		return nil
	}

	return q.populate
}

// GetLimit returns the limit. NoLimit means every remaining record.
func (q *FindQuery) GetLimit() int {
	if q == nil {
		return NoLimit
	}

	return q.limit
}

// IsUnlimited returns true if no limit is applied.
func (q *FindQuery) IsUnlimited() bool {
	return q.GetLimit() == NoLimit
}

// buildFindQueries builds the data query for r and the count query cloned
// from it before any pagination modifier is applied.
func buildFindQueries(filter any, r Resolved) (data, count *FindQuery) {
	data = NewFindQuery(filter).
		WithCollation(r.Collation).
		WithAllowDiskUse(r.AllowDiskUse).
		WithLean(r.Lean)

	count = data.Clone()

	if len(r.Sort) > 0 {
		data = data.WithSort(r.Sort)
	}
	data = data.WithSkip(r.Skip).WithSelect(r.Select)
	if len(r.Populate) > 0 {
		data = data.WithPopulate(r.Populate...)
	}
	if r.Limit >= 1 {
		data = data.WithLimit(r.Limit)
	}

	return data, count
}
