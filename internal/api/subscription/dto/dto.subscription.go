// Package subscriptiondto holds the response bodies of the /subscriptions routes.
package subscriptiondto

import (
	subscriptionmodels "videotube/internal/api/subscription/models"
)

// ToggleResponse reports whether the actor is subscribed to the channel after the toggle.
type ToggleResponse struct {
	ChannelID    string                           `json:"channelId"`
	Subscribed   bool                             `json:"subscribed"`
	Subscription *subscriptionmodels.Subscription `json:"subscription,omitempty"`
}
