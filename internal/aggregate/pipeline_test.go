package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func stageNames(p mongo.Pipeline) []string {
	names := make([]string, 0, len(p))
	for _, stage := range p {
		names = append(names, stage[0].Key)
	}
	return names
}

func TestStagesFollowCallOrder(t *testing.T) {
	p := New().
		Match(bson.D{{Key: "isPublished", Value: true}}).
		Lookup(LookupSpec{From: "users", LocalField: "owner", ForeignField: "_id", As: "owner"}).
		AddFields(bson.D{{Key: "owner", Value: First("$owner")}}).
		Project(bson.D{{Key: "title", Value: 1}}).
		Sort(bson.D{{Key: "createdAt", Value: -1}}).
		Skip(20).
		Limit(10).
		Build()

	assert.Equal(t, []string{"$match", "$lookup", "$addFields", "$project", "$sort", "$skip", "$limit"}, stageNames(p))

	p = New().Sort(bson.D{{Key: "views", Value: 1}}).Match(bson.D{}).Build()
	assert.Equal(t, []string{"$sort", "$match"}, stageNames(p))
}

func TestSkipAndLimitDropNonPositive(t *testing.T) {
	p := New().Skip(0).Limit(0).Skip(-3).Build()
	assert.Empty(t, p)
}

func TestBuildReturnsCopy(t *testing.T) {
	b := New().Match(bson.D{})
	p := b.Build()
	b.Limit(5)
	assert.Len(t, p, 1)
	assert.Equal(t, 2, b.Len())
}

func TestLookupWithSubPipeline(t *testing.T) {
	sub := New().Project(bson.D{{Key: "userName", Value: 1}}).Build()
	stage := New().Lookup(LookupSpec{
		From:         "users",
		LocalField:   "owner",
		ForeignField: "_id",
		Pipeline:     sub,
		As:           "owner",
	}).Build()[0]

	body, ok := stage[0].Value.(bson.D)
	require.True(t, ok)
	keys := []string{}
	for _, e := range body {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"from", "localField", "foreignField", "pipeline", "as"}, keys)
	assert.Equal(t, sub, body[3].Value)
}

func TestJoinOneAddsFirst(t *testing.T) {
	p := New().JoinOne("users", "owner", "owner", bson.D{{Key: "fullName", Value: 1}}).Build()
	require.Len(t, p, 2)
	assert.Equal(t, "$lookup", p[0][0].Key)
	assert.Equal(t, bson.D{{Key: "$addFields", Value: bson.D{{Key: "owner", Value: bson.D{{Key: "$first", Value: "$owner"}}}}}}, p[1])
}

func TestUnwindVariants(t *testing.T) {
	p := New().Unwind("video").UnwindPreserve("owner").ReplaceRoot("video").Build()
	assert.Equal(t, bson.D{{Key: "$unwind", Value: "$video"}}, p[0])
	assert.Equal(t, bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$owner"},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}, p[1])
	assert.Equal(t, bson.D{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$video"}}}}, p[2])
}

func TestFacetKeepsOrder(t *testing.T) {
	p := New().Facet(
		Facet{Name: "metadata", Pipeline: New().Count("total").Build()},
		Facet{Name: "items", Pipeline: New().Skip(10).Limit(10).Build()},
	).Build()
	body := p[0][0].Value.(bson.D)
	assert.Equal(t, "metadata", body[0].Key)
	assert.Equal(t, "items", body[1].Key)
}

func TestExpressions(t *testing.T) {
	requester := primitive.NewObjectID()
	assert.Equal(t, bson.D{{Key: "$in", Value: bson.A{requester, "$subscribers.subscriber"}}}, In(requester, "$subscribers.subscriber"))
	assert.Equal(t, bson.D{{Key: "$size", Value: "$subscribers"}}, Size(Field("subscribers")))
	assert.Equal(t, bson.D{{Key: "$ifNull", Value: bson.A{"$video", nil}}}, IfNull("$video", nil))

	cond := Cond(true, 1, 0)
	body := cond[0].Value.(bson.D)
	assert.Equal(t, "if", body[0].Key)
	assert.Equal(t, "then", body[1].Key)
	assert.Equal(t, "else", body[2].Key)

	re := Regex("c++ (part 1)")
	assert.Equal(t, `c\+\+ \(part 1\)`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}
