// Package tweethdl serves the /tweets routes.
package tweethdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "videotube/internal/api/base/handler"
	tweetdto "videotube/internal/api/tweet/dto"
	tweetsvc "videotube/internal/api/tweet/service"
	"videotube/internal/common"
	"videotube/internal/logger"
)

// TweetHandler handles tweet routes.
type TweetHandler struct {
	basehdl.BaseHandler
	TweetService *tweetsvc.TweetService
}

// NewTweetHandler builds a TweetHandler from the global registry.
func NewTweetHandler() (*TweetHandler, error) {
	svc, err := tweetsvc.NewTweetService()
	if err != nil {
		return nil, fmt.Errorf("failed to create tweet service: %w", err)
	}
	h := &TweetHandler{TweetService: svc}
	return h, nil
}

// HandleCreate handles POST /tweets.
func (h *TweetHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		var input tweetdto.ContentInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		tweet, err := h.TweetService.Create(c, actor, input.Content)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		return h.HandleResponse(c, common.StatusCreated, tweet, "Tweet created successfully", nil)
	})
}

// HandleListByUser handles GET /tweets/user/:userId.
func (h *TweetHandler) HandleListByUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		owner, err := basehdl.ObjectIDParam(c, "userId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		page, err := h.TweetService.ListByUser(c, owner, actor, basehdl.PagingQuery(c))
		return h.HandleResponse(c, common.StatusOK, page, "Tweets fetched successfully", err)
	})
}

// HandleUpdate handles PATCH /tweets/:tweetId.
func (h *TweetHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		id, err := basehdl.ObjectIDParam(c, "tweetId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		var input tweetdto.ContentInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		tweet, err := h.TweetService.Update(c, id, actor, input.Content)
		return h.HandleResponse(c, common.StatusOK, tweet, "Tweet updated successfully", err)
	})
}

// HandleDelete handles DELETE /tweets/:tweetId.
func (h *TweetHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		id, err := basehdl.ObjectIDParam(c, "tweetId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		tweet, err := h.TweetService.Delete(c, id, actor)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		logger.LogCRUD("delete", "tweet", id.Hex(), c, nil)
		return h.HandleResponse(c, common.StatusOK, tweet, "Tweet deleted successfully", nil)
	})
}
