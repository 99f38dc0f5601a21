// Package subscriptionhdl serves the /subscriptions routes.
package subscriptionhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "videotube/internal/api/base/handler"
	subscriptionsvc "videotube/internal/api/subscription/service"
	"videotube/internal/common"
)

// SubscriptionHandler handles subscription routes.
type SubscriptionHandler struct {
	basehdl.BaseHandler
	SubscriptionService *subscriptionsvc.SubscriptionService
}

// NewSubscriptionHandler builds a SubscriptionHandler from the global registry.
func NewSubscriptionHandler() (*SubscriptionHandler, error) {
	svc, err := subscriptionsvc.NewSubscriptionService()
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription service: %w", err)
	}
	h := &SubscriptionHandler{SubscriptionService: svc}
	return h, nil
}

// HandleToggle handles POST /subscriptions/c/:channelId.
func (h *SubscriptionHandler) HandleToggle(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		channel, err := basehdl.ObjectIDParam(c, "channelId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}

		result, err := h.SubscriptionService.ToggleSubscription(c, channel, actor)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		msg := "Channel unsubscribed successfully"
		if result.Subscribed {
			msg = "Channel subscribed successfully"
		}
		return h.HandleResponse(c, common.StatusOK, result, msg, nil)
	})
}

// HandleSubscribers handles GET /subscriptions/u/:channelId.
func (h *SubscriptionHandler) HandleSubscribers(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		channel, err := basehdl.ObjectIDParam(c, "channelId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		page, err := h.SubscriptionService.Subscribers(c, channel, basehdl.PagingQuery(c))
		return h.HandleResponse(c, common.StatusOK, page, "Subscribers fetched successfully", err)
	})
}

// HandleSubscribedChannels handles GET /subscriptions/c/:subscriberId.
func (h *SubscriptionHandler) HandleSubscribedChannels(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		subscriber, err := basehdl.ObjectIDParam(c, "subscriberId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		page, err := h.SubscriptionService.SubscribedChannels(c, subscriber, basehdl.PagingQuery(c))
		return h.HandleResponse(c, common.StatusOK, page, "Subscribed channels fetched successfully", err)
	})
}
