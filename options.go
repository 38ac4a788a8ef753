package docpager

import (
	"maps"
	"slices"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
)

// Options configures a single paginated call. The same type describes the
// global defaults layer held by Settings.
//
// Pointer and collection fields left nil are absent and fall through to the
// lower priority layer.
type Options struct {
	// Page - 1-based page number. Values below 1 resolve to the first page.
	Page *int `json:"page,omitempty" yaml:"page,omitempty"`
	// Limit - maximum number of records per page. Values below 1 disable
	// the limit.
	Limit *int `json:"limit,omitempty" yaml:"limit,omitempty"`

	Sort         Orderings  `json:"sort,omitempty" yaml:"sort,omitempty"`
	Select       Fields     `json:"select,omitempty" yaml:"select,omitempty"`
	Populate     []Populate `json:"populate,omitempty" yaml:"populate,omitempty"`
	Collation    *Collation `json:"collation,omitempty" yaml:"collation,omitempty"`
	AllowDiskUse *bool      `json:"allowDiskUse,omitempty" yaml:"allowDiskUse,omitempty"`
	Lean         *bool      `json:"lean,omitempty" yaml:"lean,omitempty"`
	Labels       Labels     `json:"labels,omitempty" yaml:"labels,omitempty"`

	// Lookup - pipeline mode only. A single join appended after the page
	// restricting stages.
	Lookup *Lookup `json:"lookup,omitempty" yaml:"lookup,omitempty"`
	// Project - pipeline mode only. Explicit field-inclusion map.
	Project bson.D `json:"project,omitempty" yaml:"-"`
}

func NewOptions() *Options {
	return new(Options)
}

// WithPage sets the requested page.
func (o *Options) WithPage(page int) *Options {
	if o == nil {
		o = new(Options)
	}

	o.Page = lo.ToPtr(page)

	return o
}

// WithLimit sets the page size. Use NoLimit to fetch everything.
func (o *Options) WithLimit(limit int) *Options {
	if o == nil {
		o = new(Options)
	}

	o.Limit = lo.ToPtr(limit)

	return o
}

// WithUnlimited disables the page size limit.
func (o *Options) WithUnlimited() *Options {
	return o.WithLimit(NoLimit)
}

// WithSort appends sort orderings. A column sorted twice keeps only its last
// direction, at its last position.
func (o *Options) WithSort(orderBy ...OrderBy) *Options {
	if o == nil {
		o = new(Options)
	}

	for _, ob := range orderBy {
		idx := slices.IndexFunc(o.Sort, func(processed OrderBy) bool {
			return processed.Column == ob.Column
		})

		// Remove previous occurrence (avoid duplication).
		if idx != -1 {
			o.Sort = slices.Delete(o.Sort, idx, idx+1)
		}

		o.Sort = append(o.Sort, ob)
	}

	return o
}

// WithSubstitutedSort resets previous orderings and applies the provided ones.
func (o *Options) WithSubstitutedSort(orderBy ...OrderBy) *Options {
	if o == nil {
		o = new(Options)
	}

	o.Sort = nil

	return o.WithSort(orderBy...)
}

// WithSelect sets the field selection, e.g. WithSelect("email", "-password").
func (o *Options) WithSelect(fields ...string) *Options {
	if o == nil {
		o = new(Options)
	}

	o.Select = fields

	return o
}

func (o *Options) WithPopulate(populate ...Populate) *Options {
	if o == nil {
		o = new(Options)
	}

	o.Populate = append(o.Populate, populate...)

	return o
}

func (o *Options) WithCollation(collation Collation) *Options {
	if o == nil {
		o = new(Options)
	}

	o.Collation = &collation

	return o
}

func (o *Options) WithAllowDiskUse(allow bool) *Options {
	if o == nil {
		o = new(Options)
	}

	o.AllowDiskUse = lo.ToPtr(allow)

	return o
}

func (o *Options) WithLean(lean bool) *Options {
	if o == nil {
		o = new(Options)
	}

	o.Lean = lo.ToPtr(lean)

	return o
}

// WithLabel overrides the output key of a single envelope field. Pass
// LabelDisabled to omit the field.
func (o *Options) WithLabel(field Field, label string) *Options {
	if o == nil {
		o = new(Options)
	}

	if o.Labels == nil {
		o.Labels = make(Labels)
	}
	o.Labels[field] = label

	return o
}

func (o *Options) WithLookup(lookup Lookup) *Options {
	if o == nil {
		o = new(Options)
	}

	o.Lookup = &lookup

	return o
}

func (o *Options) WithProject(project bson.D) *Options {
	if o == nil {
		o = new(Options)
	}

	o.Project = project

	return o
}

// Clone returns a deep copy. Cloning nil returns nil.
func (o *Options) Clone() *Options {
	if o == nil {
		return nil
	}

	return &Options{
		Page:         clonePtr(o.Page),
		Limit:        clonePtr(o.Limit),
		Sort:         slices.Clone(o.Sort),
		Select:       slices.Clone(o.Select),
		Populate:     slices.Clone(o.Populate),
		Collation:    clonePtr(o.Collation),
		AllowDiskUse: clonePtr(o.AllowDiskUse),
		Lean:         clonePtr(o.Lean),
		Labels:       maps.Clone(o.Labels),
		Lookup:       clonePtr(o.Lookup),
		Project:      slices.Clone(o.Project),
	}
}

// merge overlays every field present in layer onto o.
func (o *Options) merge(layer *Options) {
	if layer == nil {
		return
	}

	o.Page = lo.CoalesceOrEmpty(clonePtr(layer.Page), o.Page)
	o.Limit = lo.CoalesceOrEmpty(clonePtr(layer.Limit), o.Limit)
	o.Collation = lo.CoalesceOrEmpty(clonePtr(layer.Collation), o.Collation)
	o.AllowDiskUse = lo.CoalesceOrEmpty(clonePtr(layer.AllowDiskUse), o.AllowDiskUse)
	o.Lean = lo.CoalesceOrEmpty(clonePtr(layer.Lean), o.Lean)
	o.Lookup = lo.CoalesceOrEmpty(clonePtr(layer.Lookup), o.Lookup)

	if len(layer.Sort) > 0 {
		o.Sort = slices.Clone(layer.Sort)
	}
	if len(layer.Select) > 0 {
		o.Select = slices.Clone(layer.Select)
	}
	if len(layer.Populate) > 0 {
		o.Populate = slices.Clone(layer.Populate)
	}
	if len(layer.Project) > 0 {
		o.Project = slices.Clone(layer.Project)
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p
	return &v
}
