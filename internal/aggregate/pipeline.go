// Package aggregate builds MongoDB aggregation pipelines stage by stage.
//
// Stages are emitted in exactly the order the builder methods are called, so a
// $lookup placed before a $match sees every document while one placed after sees
// only the survivors.
package aggregate

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Builder accumulates pipeline stages.
type Builder struct {
	stages mongo.Pipeline
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{stages: mongo.Pipeline{}}
}

// LookupSpec describes a $lookup stage. Either LocalField/ForeignField or Pipeline
// (or both, on MongoDB 5.0+) must be set.
type LookupSpec struct {
	From         string
	LocalField   string
	ForeignField string
	Let          bson.D
	Pipeline     mongo.Pipeline
	As           string
}

func (s LookupSpec) stage() bson.D {
	body := bson.D{{Key: "from", Value: s.From}}
	if s.LocalField != "" {
		body = append(body, bson.E{Key: "localField", Value: s.LocalField})
	}
	if s.ForeignField != "" {
		body = append(body, bson.E{Key: "foreignField", Value: s.ForeignField})
	}
	if len(s.Let) > 0 {
		body = append(body, bson.E{Key: "let", Value: s.Let})
	}
	if s.Pipeline != nil {
		body = append(body, bson.E{Key: "pipeline", Value: s.Pipeline})
	}
	body = append(body, bson.E{Key: "as", Value: s.As})
	return bson.D{{Key: "$lookup", Value: body}}
}

// Stage appends a raw stage.
func (b *Builder) Stage(stage bson.D) *Builder {
	b.stages = append(b.stages, stage)
	return b
}

// Match appends {$match: filter}.
func (b *Builder) Match(filter bson.D) *Builder {
	return b.Stage(bson.D{{Key: "$match", Value: filter}})
}

// Lookup appends a $lookup stage.
func (b *Builder) Lookup(spec LookupSpec) *Builder {
	return b.Stage(spec.stage())
}

// AddFields appends {$addFields: fields}.
func (b *Builder) AddFields(fields bson.D) *Builder {
	return b.Stage(bson.D{{Key: "$addFields", Value: fields}})
}

// Project appends {$project: fields}.
func (b *Builder) Project(fields bson.D) *Builder {
	return b.Stage(bson.D{{Key: "$project", Value: fields}})
}

// Sort appends {$sort: fields}.
func (b *Builder) Sort(fields bson.D) *Builder {
	return b.Stage(bson.D{{Key: "$sort", Value: fields}})
}

// Skip appends {$skip: n}. Non-positive values are dropped.
func (b *Builder) Skip(n int64) *Builder {
	if n <= 0 {
		return b
	}
	return b.Stage(bson.D{{Key: "$skip", Value: n}})
}

// Limit appends {$limit: n}. Non-positive values are dropped.
func (b *Builder) Limit(n int64) *Builder {
	if n <= 0 {
		return b
	}
	return b.Stage(bson.D{{Key: "$limit", Value: n}})
}

// Group appends {$group: {_id: id, ...accumulators}}.
func (b *Builder) Group(id any, accumulators bson.D) *Builder {
	body := append(bson.D{{Key: "_id", Value: id}}, accumulators...)
	return b.Stage(bson.D{{Key: "$group", Value: body}})
}

// Unwind appends {$unwind: "$path"}. Documents whose array is empty or missing are dropped.
func (b *Builder) Unwind(path string) *Builder {
	return b.Stage(bson.D{{Key: "$unwind", Value: "$" + path}})
}

// UnwindPreserve is Unwind but keeps documents whose array is empty or missing.
func (b *Builder) UnwindPreserve(path string) *Builder {
	return b.Stage(bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$" + path},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}})
}

// ReplaceRoot appends {$replaceRoot: {newRoot: "$path"}}.
func (b *Builder) ReplaceRoot(path string) *Builder {
	return b.Stage(bson.D{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$" + path}}}})
}

// Count appends {$count: field}.
func (b *Builder) Count(field string) *Builder {
	return b.Stage(bson.D{{Key: "$count", Value: field}})
}

// Facet is one named sub-pipeline of a $facet stage.
type Facet struct {
	Name     string
	Pipeline mongo.Pipeline
}

// Facet appends {$facet: {name: pipeline, ...}} with facets in the given order.
func (b *Builder) Facet(facets ...Facet) *Builder {
	body := bson.D{}
	for _, f := range facets {
		body = append(body, bson.E{Key: f.Name, Value: f.Pipeline})
	}
	return b.Stage(bson.D{{Key: "$facet", Value: body}})
}

// JoinOne looks up the single document of from whose _id equals localField, keeps only
// the projected fields and stores it under as (missing when nothing matched).
func (b *Builder) JoinOne(from, localField, as string, project bson.D) *Builder {
	return b.Lookup(LookupSpec{
		From:         from,
		LocalField:   localField,
		ForeignField: "_id",
		Pipeline:     New().Project(project).Build(),
		As:           as,
	}).AddFields(bson.D{{Key: as, Value: First(Field(as))}})
}

// Len returns the number of stages added so far.
func (b *Builder) Len() int {
	return len(b.stages)
}

// Build returns a copy of the accumulated pipeline.
func (b *Builder) Build() mongo.Pipeline {
	out := make(mongo.Pipeline, len(b.stages))
	copy(out, b.stages)
	return out
}
