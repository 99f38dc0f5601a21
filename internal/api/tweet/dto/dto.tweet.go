// Package tweetdto holds the request bodies of the /tweets routes.
package tweetdto

// ContentInput is the body of both posting and editing a tweet.
type ContentInput struct {
	Content string `json:"content" validate:"required,max=280,no_xss"`
}
