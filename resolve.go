package docpager

import (
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
)

// Resolved is the normalized outcome of the option cascade.
type Resolved struct {
	Page  int
	Limit int
	Skip  int64

	Sort         Orderings
	Select       Fields
	Populate     []Populate
	Collation    *Collation
	AllowDiskUse bool
	Lean         bool
	Lookup       *Lookup
	Project      bson.D

	Labels LabelMap
}

// Defaults returns the built-in defaults layer.
func Defaults() *Options {
	return &Options{
		Page:         lo.ToPtr(DefaultPage),
		Limit:        lo.ToPtr(DefaultLimit),
		AllowDiskUse: lo.ToPtr(false),
		Lean:         lo.ToPtr(false),
	}
}

// Resolve merges option layers in ascending priority on top of Defaults and
// normalizes the outcome. Resolution never fails: malformed page and limit
// values are coerced.
func Resolve(layers ...*Options) Resolved {
	merged := Defaults()
	labels := make([]Labels, 0, len(layers))
	for _, layer := range layers {
		merged.merge(layer)
		if layer != nil {
			labels = append(labels, layer.Labels)
		}
	}

	if merged.Collation.IsEmpty() {
		merged.Collation = nil
	}
	if merged.Lookup.IsEmpty() {
		merged.Lookup = nil
	}

	limit := NormalizeLimit(lo.FromPtr(merged.Limit))
	page := ClampPage(lo.FromPtr(merged.Page), limit)

	return Resolved{
		Page:         page,
		Limit:        limit,
		Skip:         Skip(page, limit),
		Sort:         merged.Sort.Normalize(),
		Select:       merged.Select,
		Populate:     merged.Populate,
		Collation:    merged.Collation,
		AllowDiskUse: lo.FromPtr(merged.AllowDiskUse),
		Lean:         lo.FromPtr(merged.Lean),
		Lookup:       merged.Lookup,
		Project:      merged.Project,
		Labels:       ResolveLabels(labels...),
	}
}

// Resolve resolves call options against the current snapshot of s.
func (s *Settings) Resolve(call *Options) Resolved {
	return Resolve(s.Get(), call)
}
