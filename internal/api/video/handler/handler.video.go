// Package videohdl serves the /videos routes.
package videohdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "videotube/internal/api/base/handler"
	videodto "videotube/internal/api/video/dto"
	videosvc "videotube/internal/api/video/service"
	"videotube/internal/common"
	"videotube/internal/logger"
	"videotube/internal/media"
	"videotube/internal/utility"
)

// VideoHandler handles video routes.
type VideoHandler struct {
	basehdl.BaseHandler
	VideoService *videosvc.VideoService
}

// NewVideoHandler builds a VideoHandler from the global registry.
func NewVideoHandler() (*VideoHandler, error) {
	svc, err := videosvc.NewVideoService()
	if err != nil {
		return nil, fmt.Errorf("failed to create video service: %w", err)
	}
	return newVideoHandler(svc), nil
}

func newVideoHandler(svc *videosvc.VideoService) *VideoHandler {
	h := &VideoHandler{VideoService: svc}
	return h
}

// HandleList handles GET /videos?page&limit&query&sortBy&sortType&userId.
func (h *VideoHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}

		var q videodto.ListQuery
		if err := c.Bind().Query(&q); err != nil {
			return h.HandleResponse(c, 0, nil, "", common.NewValidationError(common.MsgValidationError, err.Error()))
		}
		if err := h.ValidateInput(&q); err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}

		filter := videosvc.ListFilter{Query: q.Query, SortBy: q.SortBy, SortType: q.SortType}
		if q.UserID != "" {
			owner, err := utility.ParseObjectID("userId", q.UserID)
			if err != nil {
				return h.HandleResponse(c, 0, nil, "", err)
			}
			filter.Owner = &owner
		}

		page, err := h.VideoService.List(c, filter, basehdl.PagingQuery(c), actor)
		return h.HandleResponse(c, common.StatusOK, page, "Videos fetched successfully", err)
	})
}

// HandlePublish handles POST /videos (multipart videoFile + thumbnail).
func (h *VideoHandler) HandlePublish(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		var input videodto.PublishInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}

		videoFile, err := basehdl.FormUpload(c, "videoFile", media.KindVideo, true)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		defer videoFile.Close()
		thumbnail, err := basehdl.FormUpload(c, "thumbnail", media.KindImage, true)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		defer thumbnail.Close()

		video, err := h.VideoService.Publish(c, actor, input, basehdl.AssetOf(videoFile), basehdl.AssetOf(thumbnail))
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		logger.LogCRUD("create", "video", video.ID.Hex(), c, map[string]interface{}{"title": video.Title})
		return h.HandleResponse(c, common.StatusCreated, video, "Video published successfully", nil)
	})
}

// HandleGet handles GET /videos/:videoId.
func (h *VideoHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		id, err := basehdl.ObjectIDParam(c, "videoId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		video, err := h.VideoService.Watch(c, id, actor)
		return h.HandleResponse(c, common.StatusOK, video, "Video fetched successfully", err)
	})
}

// HandleUpdate handles PATCH /videos/:videoId (title, description, optional thumbnail).
func (h *VideoHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		id, err := basehdl.ObjectIDParam(c, "videoId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		var input videodto.UpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		thumbnail, err := basehdl.FormUpload(c, "thumbnail", media.KindImage, false)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		defer thumbnail.Close()

		video, err := h.VideoService.Update(c, id, actor, input, basehdl.AssetOf(thumbnail))
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		logger.LogCRUD("update", "video", id.Hex(), c, nil)
		return h.HandleResponse(c, common.StatusOK, video, "Video updated successfully", nil)
	})
}

// HandleDelete handles DELETE /videos/:videoId.
func (h *VideoHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		id, err := basehdl.ObjectIDParam(c, "videoId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}

		result, err := h.VideoService.Delete(c, id, actor)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		logger.LogCRUD("delete", "video", id.Hex(), c, map[string]interface{}{
			"likes_removed":     result.LikesRemoved,
			"comments_removed":  result.CommentsRemoved,
			"playlists_updated": result.PlaylistsUpdated,
		})
		return h.HandleResponse(c, common.StatusOK, result, "Video deleted successfully", nil)
	})
}

// HandleTogglePublish handles PATCH /videos/toggle/publish/:videoId.
func (h *VideoHandler) HandleTogglePublish(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		id, err := basehdl.ObjectIDParam(c, "videoId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		video, err := h.VideoService.TogglePublish(c, id, actor)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		return h.HandleResponse(c, common.StatusOK, fiber.Map{"_id": video.ID, "isPublished": video.IsPublished}, "Publish status toggled", nil)
	})
}
