package utility

import (
	"errors"
	"testing"

	"videotube/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseObjectID(t *testing.T) {
	id := primitive.NewObjectID()

	parsed, err := ParseObjectID("videoId", id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseObjectID("videoId", "nope")
	assert.True(t, errors.Is(err, common.ErrInvalidObjectID))
	assert.EqualError(t, err, "Invalid videoId")
}

func TestOrderBy(t *testing.T) {
	type item struct{ id int }
	items := []item{{1}, {2}, {3}}

	out := OrderBy(items, []int{3, 9, 1}, func(i item) int { return i.id })
	assert.Equal(t, []item{{3}, {1}}, out)
}

func TestSliceHelpers(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.Equal(t, -1, IndexOf([]int{1, 2}, 5))
}

func TestToMapUsesBsonNames(t *testing.T) {
	type doc struct {
		UserName string `bson:"userName"`
		Skip     string `bson:"-"`
	}
	m, err := ToMap(doc{UserName: "chai", Skip: "x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"userName": "chai"}, m)

	var back doc
	require.NoError(t, FromMap(m, &back))
	assert.Equal(t, "chai", back.UserName)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "10.0 MB", FormatBytes(10*1024*1024))
}
