package basesvc

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"videotube/internal/aggregate"
	basemodels "videotube/internal/api/base/models"
	"videotube/internal/common"
)

// Aggregate runs pipeline on col and decodes every result into R.
func Aggregate[R any](ctx context.Context, col *mongo.Collection, pipeline mongo.Pipeline) ([]R, error) {
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var results []R
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	if results == nil {
		results = []R{}
	}
	return results, nil
}

// AggregateOne runs pipeline and returns its first result, or ErrNotFound when the
// pipeline yields nothing.
func AggregateOne[R any](ctx context.Context, col *mongo.Collection, pipeline mongo.Pipeline) (R, error) {
	var zero R
	results, err := Aggregate[R](ctx, col, pipeline)
	if err != nil {
		return zero, err
	}
	if len(results) == 0 {
		return zero, common.ErrNotFound
	}
	return results[0], nil
}

type facetPage[R any] struct {
	Metadata []struct {
		Total int64 `bson:"total"`
	} `bson:"metadata"`
	Items []R `bson:"items"`
}

// PaginationPipeline appends a $facet computing the total and one page of items to pipeline.
func PaginationPipeline(pipeline mongo.Pipeline, paging basemodels.Paging) mongo.Pipeline {
	b := aggregate.New()
	for _, stage := range pipeline {
		b.Stage(stage)
	}
	return b.Facet(
		aggregate.Facet{Name: "metadata", Pipeline: aggregate.New().Count("total").Build()},
		aggregate.Facet{Name: "items", Pipeline: aggregate.New().Skip(paging.Skip()).Limit(paging.Limit).Build()},
	).Build()
}

// AggregateWithPagination runs pipeline wrapped by PaginationPipeline, so the total and
// the page come back in one round trip.
func AggregateWithPagination[R any](ctx context.Context, col *mongo.Collection, pipeline mongo.Pipeline, paging basemodels.Paging) (*basemodels.PaginateResult[R], error) {
	paging = basemodels.NewPaging(paging.Page, paging.Limit)

	pages, err := Aggregate[facetPage[R]](ctx, col, PaginationPipeline(pipeline, paging))
	if err != nil {
		return nil, err
	}

	var total int64
	var items []R
	if len(pages) > 0 {
		if len(pages[0].Metadata) > 0 {
			total = pages[0].Metadata[0].Total
		}
		items = pages[0].Items
	}
	return basemodels.NewPaginateResult(items, total, paging), nil
}
