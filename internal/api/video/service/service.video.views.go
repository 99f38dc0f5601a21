package videosvc

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"videotube/internal/aggregate"
	usermodels "videotube/internal/api/user/models"
	"videotube/internal/global"
)

// ListFilter selects the videos of GET /videos.
type ListFilter struct {
	Query    string
	Owner    *primitive.ObjectID
	SortBy   string
	SortType string
}

// ListPipeline matches, sorts and joins the owner of the listed videos. Unpublished videos
// are only listed when actor lists their own channel.
func ListPipeline(filter ListFilter, actor primitive.ObjectID) mongo.Pipeline {
	match := bson.D{}
	if q := strings.TrimSpace(filter.Query); q != "" {
		match = append(match, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: aggregate.Regex(q)}},
			bson.D{{Key: "description", Value: aggregate.Regex(q)}},
		}})
	}
	if filter.Owner != nil {
		match = append(match, bson.E{Key: "owner", Value: *filter.Owner})
	}
	if filter.Owner == nil || *filter.Owner != actor {
		match = append(match, bson.E{Key: "isPublished", Value: true})
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	direction := -1
	if filter.SortType == "asc" {
		direction = 1
	}

	return aggregate.New().
		Match(match).
		Sort(bson.D{{Key: sortBy, Value: direction}, {Key: "_id", Value: direction}}).
		JoinOne(global.MongoDB_ColNames.Users, "owner", "owner", usermodels.SummaryProjection()).
		Build()
}

// DetailPipeline joins the owner and like state of one video for viewer.
func DetailPipeline(id, viewer primitive.ObjectID) mongo.Pipeline {
	return aggregate.New().
		Match(bson.D{{Key: "_id", Value: id}}).
		JoinOne(global.MongoDB_ColNames.Users, "owner", "owner", usermodels.SummaryProjection()).
		Lookup(aggregate.LookupSpec{
			From:         global.MongoDB_ColNames.Likes,
			LocalField:   "_id",
			ForeignField: "video",
			As:           "likes",
		}).
		AddFields(bson.D{
			{Key: "likesCount", Value: aggregate.Size(aggregate.Field("likes"))},
			{Key: "isLiked", Value: aggregate.Cond(aggregate.In(viewer, aggregate.Field("likes.likedBy")), true, false)},
		}).
		Project(bson.D{{Key: "likes", Value: 0}}).
		Build()
}
