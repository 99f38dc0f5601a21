// Package playlisthdl serves the /playlists routes.
package playlisthdl

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "videotube/internal/api/base/handler"
	playlistdto "videotube/internal/api/playlist/dto"
	playlistmodels "videotube/internal/api/playlist/models"
	playlistsvc "videotube/internal/api/playlist/service"
	"videotube/internal/common"
	"videotube/internal/logger"
)

// PlaylistHandler handles playlist routes.
type PlaylistHandler struct {
	basehdl.BaseHandler
	PlaylistService *playlistsvc.PlaylistService
}

// NewPlaylistHandler builds a PlaylistHandler from the global registry.
func NewPlaylistHandler() (*PlaylistHandler, error) {
	svc, err := playlistsvc.NewPlaylistService()
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist service: %w", err)
	}
	h := &PlaylistHandler{PlaylistService: svc}
	return h, nil
}

// HandleCreate handles POST /playlists.
func (h *PlaylistHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		var input playlistdto.CreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		playlist, err := h.PlaylistService.Create(c, actor, input)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		return h.HandleResponse(c, common.StatusCreated, playlist, "Playlist created successfully", nil)
	})
}

// HandleGet handles GET /playlists/:playlistId.
func (h *PlaylistHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		id, err := basehdl.ObjectIDParam(c, "playlistId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		playlist, err := h.PlaylistService.Get(c, id, actor)
		return h.HandleResponse(c, common.StatusOK, playlist, "Playlist fetched successfully", err)
	})
}

// HandleListByUser handles GET /playlists/user/:userId.
func (h *PlaylistHandler) HandleListByUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		owner, err := basehdl.ObjectIDParam(c, "userId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		page, err := h.PlaylistService.ListByUser(c, owner, basehdl.PagingQuery(c))
		return h.HandleResponse(c, common.StatusOK, page, "Playlists fetched successfully", err)
	})
}

// HandleUpdate handles PATCH /playlists/:playlistId.
func (h *PlaylistHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		id, err := basehdl.ObjectIDParam(c, "playlistId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		var input playlistdto.UpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		playlist, err := h.PlaylistService.Update(c, id, actor, input)
		return h.HandleResponse(c, common.StatusOK, playlist, "Playlist updated successfully", err)
	})
}

// HandleDelete handles DELETE /playlists/:playlistId.
func (h *PlaylistHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		id, err := basehdl.ObjectIDParam(c, "playlistId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		playlist, err := h.PlaylistService.Delete(c, id, actor)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		logger.LogCRUD("delete", "playlist", id.Hex(), c, map[string]interface{}{"name": playlist.Name})
		return h.HandleResponse(c, common.StatusOK, playlist, "Playlist deleted successfully", nil)
	})
}

type membershipChange func(ctx context.Context, playlist, video, actor primitive.ObjectID) (playlistmodels.Playlist, error)

// handleMembership parses /:videoId/:playlistId and applies change.
func (h *PlaylistHandler) handleMembership(c fiber.Ctx, change membershipChange, message string) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		video, err := basehdl.ObjectIDParam(c, "videoId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		playlist, err := basehdl.ObjectIDParam(c, "playlistId")
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		updated, err := change(c, playlist, video, actor)
		return h.HandleResponse(c, common.StatusOK, updated, message, err)
	})
}

// HandleAddVideo handles PATCH /playlists/add/:videoId/:playlistId.
func (h *PlaylistHandler) HandleAddVideo(c fiber.Ctx) error {
	return h.handleMembership(c, h.PlaylistService.AddVideo, "Video added to playlist successfully")
}

// HandleRemoveVideo handles PATCH /playlists/remove/:videoId/:playlistId.
func (h *PlaylistHandler) HandleRemoveVideo(c fiber.Ctx) error {
	return h.handleMembership(c, h.PlaylistService.RemoveVideo, "Video removed from playlist successfully")
}
