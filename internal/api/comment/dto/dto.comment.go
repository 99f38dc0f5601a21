// Package commentdto holds the request bodies of the /comments routes.
package commentdto

// ContentInput is the body of both adding and editing a comment.
type ContentInput struct {
	Content string `json:"content" form:"content" validate:"required,max=1000,no_xss"`
}
