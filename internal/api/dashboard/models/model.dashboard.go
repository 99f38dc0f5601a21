// Package dashboardmodels contains the channel dashboard views.
package dashboardmodels

// LikesReceived counts the likes on the actor's content per target type.
type LikesReceived struct {
	Videos   int64 `json:"videos" bson:"videos"`
	Comments int64 `json:"comments" bson:"comments"`
	Tweets   int64 `json:"tweets" bson:"tweets"`
}

// Total is the sum over every target type.
func (l LikesReceived) Total() int64 {
	return l.Videos + l.Comments + l.Tweets
}

// VideoTotals is the $group result over the actor's videos.
type VideoTotals struct {
	TotalVideos int64 `bson:"totalVideos"`
	TotalViews  int64 `bson:"totalViews"`
}

// Stats summarises the actor's channel. Missing counters are zero, never null.
type Stats struct {
	TotalVideos      int64         `json:"totalVideos"`
	TotalViews       int64         `json:"totalViews"`
	TotalSubscribers int64         `json:"totalSubscribers"`
	TotalLikes       int64         `json:"totalLikes"`
	Likes            LikesReceived `json:"likes"`
}
