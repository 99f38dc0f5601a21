// Package likedto holds the response bodies of the /likes routes.
package likedto

import (
	likemodels "videotube/internal/api/like/models"
)

// ToggleResponse reports whether the target is liked after the toggle.
type ToggleResponse struct {
	TargetType likemodels.TargetType `json:"targetType"`
	TargetID   string                `json:"targetId"`
	Liked      bool                  `json:"liked"`
	Like       *likemodels.Like      `json:"like,omitempty"`
}
