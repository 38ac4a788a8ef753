package docpager

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Pipeline is an aggregation pipeline under composition, handed to an
// Aggregator. Stages are appended in call order.
type Pipeline struct {
	stages       mongo.Pipeline
	collation    *Collation
	allowDiskUse bool
}

// NewPipeline starts a pipeline from the caller's stages. The slice is
// copied.
func NewPipeline(stages mongo.Pipeline) *Pipeline {
	return &Pipeline{stages: slices.Clone(stages)}
}

// Append adds raw stages.
func (p *Pipeline) Append(stages ...bson.D) *Pipeline {
	if p == nil {
		p = new(Pipeline)
	}

	p.stages = append(p.stages, stages...)

	return p
}

func (p *Pipeline) WithAllowDiskUse(allow bool) *Pipeline {
	if p == nil {
		p = new(Pipeline)
	}

	p.allowDiskUse = allow

	return p
}

// WithCollation sets the collation of the aggregation. An empty collation is
// ignored.
func (p *Pipeline) WithCollation(collation *Collation) *Pipeline {
	if p == nil {
		p = new(Pipeline)
	}

	if !collation.IsEmpty() {
		c := *collation
		p.collation = &c
	}

	return p
}

// WithSort appends a $sort stage. Empty orderings append nothing.
func (p *Pipeline) WithSort(orderings Orderings) *Pipeline {
	if len(orderings) == 0 {
		return p
	}

	return p.Append(bson.D{{Key: "$sort", Value: orderings.ToBSON()}})
}

// WithSkip appends a $skip stage.
func (p *Pipeline) WithSkip(skip int64) *Pipeline {
	return p.Append(bson.D{{Key: "$skip", Value: max(skip, 0)}})
}

// WithLimit appends a $limit stage. Limits below 1 append nothing.
func (p *Pipeline) WithLimit(limit int) *Pipeline {
	if limit < 1 {
		return p
	}

	return p.Append(bson.D{{Key: "$limit", Value: int64(limit)}})
}

// WithLookup appends a $lookup stage. An empty lookup appends nothing.
func (p *Pipeline) WithLookup(lookup *Lookup) *Pipeline {
	if lookup.IsEmpty() {
		return p
	}

	return p.Append(lookup.Stage())
}

// WithProject appends a $project stage. An empty projection appends nothing.
func (p *Pipeline) WithProject(projection bson.D) *Pipeline {
	if len(projection) == 0 {
		return p
	}

	return p.Append(bson.D{{Key: "$project", Value: projection}})
}

// WithCount appends a stage grouping every record into a single
// {count: n} document.
func (p *Pipeline) WithCount() *Pipeline {
	return p.Append(bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: nil},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
	}}})
}

// Stages returns a copy of the stages composed so far.
func (p *Pipeline) Stages() mongo.Pipeline {
	if p == nil {
		return mongo.Pipeline{}
	}

	return append(mongo.Pipeline{}, p.stages...)
}

func (p *Pipeline) GetCollation() *Collation {
	if p == nil {
		return nil
	}

	return p.collation
}

func (p *Pipeline) IsAllowDiskUse() bool {
	return p != nil && p.allowDiskUse
}

// Clone returns an independent copy of the pipeline.
func (p *Pipeline) Clone() *Pipeline {
	if p == nil {
		return nil
	}

	return &Pipeline{
		stages:       slices.Clone(p.stages),
		collation:    clonePtr(p.collation),
		allowDiskUse: p.allowDiskUse,
	}
}

// countResult is the single document produced by WithCount.
type countResult struct {
	Count int64 `bson:"count"`
}

// buildPipelines builds the data pipeline for r and the count pipeline from
// a snapshot taken before any page restricting stage is appended.
func buildPipelines(stages mongo.Pipeline, r Resolved) (data, count *Pipeline) {
	data = NewPipeline(stages).
		WithAllowDiskUse(r.AllowDiskUse).
		WithCollation(r.Collation)

	count = data.Clone().WithCount()

	data = data.
		WithSort(r.Sort).
		WithSkip(r.Skip).
		WithLimit(r.Limit).
		WithLookup(r.Lookup).
		WithProject(r.Project)

	return data, count
}
