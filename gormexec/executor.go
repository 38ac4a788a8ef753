// Package gormexec runs docpager find queries through GORM. Pipelines are
// not supported; models built on this executor return
// docpager.ErrNoAggregator from PaginateAggregate.
package gormexec

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Alp4ka/docpager"
)

// Executor implements docpager.Finder for a single GORM model.
//
// Collation and allow-disk-use hints have no SQL counterpart and are ignored.
// Lean queries skip GORM hooks such as AfterFind.
type Executor struct {
	db    *gorm.DB
	model any
}

// New creates an executor for model, e.g. New(db, &User{}).
func New(db *gorm.DB, model any) *Executor {
	return &Executor{db: db, model: model}
}

// NewModel wraps db into a paginated model of T.
func NewModel[T any](db *gorm.DB, opts ...docpager.ModelOption) *docpager.Model[T] {
	return docpager.New[T](New(db, new(T)), opts...)
}

// Find implements docpager.Finder.
func (e *Executor) Find(ctx context.Context, q *docpager.FindQuery, out any) error {
	sort := q.GetSort()
	if err := sort.Validate(); err != nil {
		return fmt.Errorf("cannot paginate: %w", err)
	}

	db := e.scope(ctx, q)
	if q.IsLean() {
		db = db.Session(&gorm.Session{SkipHooks: true})
	}

	db = sort.Apply(db)
	if skip := q.GetSkip(); skip > 0 {
		db = db.Offset(int(skip))
	}
	if !q.IsUnlimited() {
		db = db.Limit(q.GetLimit())
	}

	selection := q.GetSelect()
	if columns := selection.Inclusions(); len(columns) > 0 {
		db = db.Select(columns)
	}
	if columns := selection.Exclusions(); len(columns) > 0 {
		db = db.Omit(columns...)
	}

	for _, populate := range q.GetPopulate() {
		db = db.Preload(populate.Path)
	}

	return db.Find(out).Error
}

// Count implements docpager.Finder.
func (e *Executor) Count(ctx context.Context, q *docpager.FindQuery) (int64, error) {
	var total int64
	err := e.scope(ctx, q).Count(&total).Error

	return total, err
}

func (e *Executor) scope(ctx context.Context, q *docpager.FindQuery) *gorm.DB {
	db := e.db.WithContext(ctx).Model(e.model)
	if filter := q.GetFilter(); filter != nil {
		db = db.Where(filter)
	}

	return db
}

var _ docpager.Finder = (*Executor)(nil)
