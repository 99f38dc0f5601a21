// Package likehdl serves the /likes routes.
package likehdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "videotube/internal/api/base/handler"
	likemodels "videotube/internal/api/like/models"
	likesvc "videotube/internal/api/like/service"
	"videotube/internal/common"
)

// LikeHandler handles like routes.
type LikeHandler struct {
	basehdl.BaseHandler
	LikeService *likesvc.LikeService
}

// NewLikeHandler builds a LikeHandler from the global registry.
func NewLikeHandler() (*LikeHandler, error) {
	svc, err := likesvc.NewLikeService()
	if err != nil {
		return nil, fmt.Errorf("failed to create like service: %w", err)
	}
	h := &LikeHandler{LikeService: svc}
	return h, nil
}

// toggle returns the handler toggling a like on the target named by param.
func (h *LikeHandler) toggle(kind likemodels.TargetType, param string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return h.SafeHandler(c, func() error {
			actor, err := basehdl.ActorID(c)
			if err != nil {
				return h.HandleResponse(c, 0, nil, "", err)
			}
			id, err := basehdl.ObjectIDParam(c, param)
			if err != nil {
				return h.HandleResponse(c, 0, nil, "", err)
			}

			result, err := h.LikeService.ToggleLike(c, likemodels.Target{Type: kind, ID: id}, actor)
			if err != nil {
				return h.HandleResponse(c, 0, nil, "", err)
			}
			msg := "Like removed"
			if result.Liked {
				msg = "Like added"
			}
			return h.HandleResponse(c, common.StatusOK, result, msg, nil)
		})
	}
}

// HandleToggleVideoLike handles POST /likes/toggle/v/:videoId.
func (h *LikeHandler) HandleToggleVideoLike(c fiber.Ctx) error {
	return h.toggle(likemodels.TargetVideo, "videoId")(c)
}

// HandleToggleCommentLike handles POST /likes/toggle/c/:commentId.
func (h *LikeHandler) HandleToggleCommentLike(c fiber.Ctx) error {
	return h.toggle(likemodels.TargetComment, "commentId")(c)
}

// HandleToggleTweetLike handles POST /likes/toggle/t/:tweetId.
func (h *LikeHandler) HandleToggleTweetLike(c fiber.Ctx) error {
	return h.toggle(likemodels.TargetTweet, "tweetId")(c)
}

// HandleLikedVideos handles GET /likes/videos.
func (h *LikeHandler) HandleLikedVideos(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		page, err := h.LikeService.LikedVideos(c, actor, basehdl.PagingQuery(c))
		return h.HandleResponse(c, common.StatusOK, page, "Liked videos fetched successfully", err)
	})
}
