// Package commenthdl serves the /comments routes.
package commenthdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "videotube/internal/api/base/handler"
	commentdto "videotube/internal/api/comment/dto"
	commentsvc "videotube/internal/api/comment/service"
	"videotube/internal/common"
	"videotube/internal/logger"
)

// CommentHandler handles comment routes.
type CommentHandler struct {
	basehdl.BaseHandler
	CommentService *commentsvc.CommentService
}

// NewCommentHandler builds a CommentHandler from the global registry.
func NewCommentHandler() (*CommentHandler, error) {
	svc, err := commentsvc.NewCommentService()
	if err != nil {
		return nil, fmt.Errorf("failed to create comment service: %w", err)
	}
	h := &CommentHandler{CommentService: svc}
	return h, nil
}

// HandleList handles GET /comments/:videoId.
func (h *CommentHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		videoID, err := basehdl.ObjectIDParam(c, "videoId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		page, err := h.CommentService.List(c, videoID, actor, basehdl.PagingQuery(c))
		return h.HandleResponse(c, common.StatusOK, page, "Comments fetched successfully", err)
	})
}

// HandleAdd handles POST /comments/:videoId.
func (h *CommentHandler) HandleAdd(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		videoID, err := basehdl.ObjectIDParam(c, "videoId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		var input commentdto.ContentInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}

		comment, err := h.CommentService.Add(c, videoID, actor, input.Content)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		return h.HandleResponse(c, common.StatusCreated, comment, "Comment added successfully", nil)
	})
}

// HandleUpdate handles PATCH /comments/c/:commentId.
func (h *CommentHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		id, err := basehdl.ObjectIDParam(c, "commentId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		var input commentdto.ContentInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}

		comment, err := h.CommentService.Update(c, id, actor, input.Content)
		return h.HandleResponse(c, common.StatusOK, comment, "Comment updated successfully", err)
	})
}

// HandleDelete handles DELETE /comments/c/:commentId.
func (h *CommentHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		id, err := basehdl.ObjectIDParam(c, "commentId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}

		comment, err := h.CommentService.Delete(c, id, actor)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		logger.LogCRUD("delete", "comment", id.Hex(), c, map[string]interface{}{"video_id": comment.Video.Hex()})
		return h.HandleResponse(c, common.StatusOK, comment, "Comment deleted successfully", nil)
	})
}
