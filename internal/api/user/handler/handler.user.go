// Package userhdl serves the /users routes.
package userhdl

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "videotube/internal/api/base/handler"
	"videotube/internal/api/middleware"
	userdto "videotube/internal/api/user/dto"
	usermodels "videotube/internal/api/user/models"
	usersvc "videotube/internal/api/user/service"
	"videotube/internal/common"
	"videotube/internal/global"
	"videotube/internal/logger"
	"videotube/internal/media"
)

// RefreshTokenCookie is the cookie the refresh token is stored in.
const RefreshTokenCookie = "refreshToken"

// UserHandler handles account routes.
type UserHandler struct {
	basehdl.BaseHandler
	UserService  *usersvc.UserService
	CookieSecure bool
	// OnUserChanged is called with the id of a user whose stored profile changed.
	OnUserChanged func(userID string)
}

// NewUserHandler builds a UserHandler from the global registry.
func NewUserHandler() (*UserHandler, error) {
	svc, err := usersvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	return newUserHandler(svc, global.MongoDB_ServerConfig.CookieSecure, middleware.GetAuthManager().ForgetUser), nil
}

func newUserHandler(svc *usersvc.UserService, cookieSecure bool, onUserChanged func(string)) *UserHandler {
	h := &UserHandler{
		UserService:   svc,
		CookieSecure:  cookieSecure,
		OnUserChanged: onUserChanged,
	}
	return h
}

func (h *UserHandler) userChanged(userID string) {
	if h.OnUserChanged != nil {
		h.OnUserChanged(userID)
	}
}

func (h *UserHandler) setSessionCookies(c fiber.Ctx, session usersvc.Session) {
	creds := h.UserService.Credentials()
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    session.AccessToken,
		Path:     "/",
		Expires:  time.Now().Add(creds.AccessExpiry()),
		HTTPOnly: true,
		Secure:   h.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     RefreshTokenCookie,
		Value:    session.RefreshToken,
		Path:     "/",
		Expires:  time.Now().Add(creds.RefreshExpiry()),
		HTTPOnly: true,
		Secure:   h.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *UserHandler) clearSessionCookies(c fiber.Ctx) {
	for _, name := range []string{middleware.AccessTokenCookie, RefreshTokenCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
			Secure:   h.CookieSecure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}

// HandleRegister handles POST /users/register (multipart).
func (h *UserHandler) HandleRegister(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input userdto.RegisterInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}

		avatar, err := basehdl.FormUpload(c, "avatar", media.KindImage, true)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		defer avatar.Close()

		cover, err := basehdl.FormUpload(c, "coverImage", media.KindImage, false)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		defer cover.Close()

		user, err := h.UserService.Register(c, input, basehdl.AssetOf(avatar), basehdl.AssetOf(cover))
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}

		logger.LogAuth("register", c, map[string]interface{}{"user_id": user.ID.Hex(), "userName": user.UserName})
		return h.HandleResponse(c, common.StatusCreated, user, "User registered successfully", nil)
	})
}

// HandleLogin handles POST /users/login.
func (h *UserHandler) HandleLogin(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input userdto.LoginInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}

		session, err := h.UserService.Login(c, input)
		if err != nil {
			logger.LogAuth("login_failed", c, map[string]interface{}{"email": input.Email, "userName": input.UserName})
			return h.HandleResponse(c, 0, nil, "", err)
		}

		h.setSessionCookies(c, session)
		logger.LogAuth("login", c, map[string]interface{}{"user_id": session.User.ID.Hex()})
		return h.HandleResponse(c, common.StatusOK, userdto.SessionResponse{
			User:         &session.User,
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
		}, "User logged in successfully", nil)
	})
}

// HandleLogout handles POST /users/logout.
func (h *UserHandler) HandleLogout(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		if err := h.UserService.Logout(c, actor); err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}

		h.userChanged(actor.Hex())
		h.clearSessionCookies(c)
		logger.LogAuth("logout", c, nil)
		return h.HandleResponse(c, common.StatusOK, fiber.Map{}, "User logged out", nil)
	})
}

// HandleRefreshToken handles POST /users/refresh-token. The token is read from the
// refresh cookie, falling back to the body.
func (h *UserHandler) HandleRefreshToken(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		token := c.Cookies(RefreshTokenCookie)
		if token == "" {
			var input userdto.RefreshInput
			if err := h.ParseRequestBody(c, &input); err != nil {
				return h.HandleResponse(c, 0, nil, "", err)
			}
			token = input.RefreshToken
		}
		if token == "" {
			return h.HandleResponse(c, 0, nil, "", common.ErrTokenMissing)
		}

		session, err := h.UserService.Refresh(c, token)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}

		h.setSessionCookies(c, session)
		logger.LogAuth("refresh", c, map[string]interface{}{"user_id": session.User.ID.Hex()})
		return h.HandleResponse(c, common.StatusOK, userdto.SessionResponse{
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
		}, "Access token refreshed", nil)
	})
}

// HandleChangePassword handles POST /users/change-password.
func (h *UserHandler) HandleChangePassword(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		var input userdto.ChangePasswordInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		if err := h.UserService.ChangePassword(c, actor, input); err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}

		h.userChanged(actor.Hex())
		logger.LogAuth("change_password", c, nil)
		return h.HandleResponse(c, common.StatusOK, fiber.Map{}, "Password changed successfully", nil)
	})
}

// HandleCurrentUser handles GET /users/current-user.
func (h *UserHandler) HandleCurrentUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		if user, ok := c.Locals("user").(usermodels.User); ok {
			return h.HandleResponse(c, common.StatusOK, user, "Current user fetched successfully", nil)
		}
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		user, err := h.UserService.FindOneById(c, actor)
		return h.HandleResponse(c, common.StatusOK, user, "Current user fetched successfully", err)
	})
}

// HandleUpdateAccount handles PATCH /users/update-account.
func (h *UserHandler) HandleUpdateAccount(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		var input userdto.UpdateAccountInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}

		user, err := h.UserService.UpdateAccount(c, actor, input)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		h.userChanged(actor.Hex())
		return h.HandleResponse(c, common.StatusOK, user, "Account details updated successfully", nil)
	})
}

// HandleUpdateAvatar handles PATCH /users/avatar (multipart field avatar).
func (h *UserHandler) HandleUpdateAvatar(c fiber.Ctx) error {
	return h.handleImage(c, "avatar", h.UserService.UpdateAvatar, "Avatar updated successfully")
}

// HandleUpdateCoverImage handles PATCH /users/cover-image (multipart field coverImage).
func (h *UserHandler) HandleUpdateCoverImage(c fiber.Ctx) error {
	return h.handleImage(c, "coverImage", h.UserService.UpdateCoverImage, "Cover image updated successfully")
}

type imageUpdater func(ctx context.Context, actor primitive.ObjectID, asset media.Asset) (usermodels.User, error)

func (h *UserHandler) handleImage(c fiber.Ctx, field string, update imageUpdater, message string) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		upload, err := basehdl.FormUpload(c, field, media.KindImage, true)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		defer upload.Close()

		user, err := update(c, actor, upload.Asset)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		h.userChanged(actor.Hex())
		return h.HandleResponse(c, common.StatusOK, user, message, nil)
	})
}

// HandleChannelProfile handles GET /users/c/:userName.
func (h *UserHandler) HandleChannelProfile(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		profile, err := h.UserService.ChannelProfile(c, c.Params("userName"), actor)
		return h.HandleResponse(c, common.StatusOK, profile, "User channel fetched successfully", err)
	})
}

// HandleWatchHistory handles GET /users/history.
func (h *UserHandler) HandleWatchHistory(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		history, err := h.UserService.WatchHistory(c, actor)
		return h.HandleResponse(c, common.StatusOK, history, "Watch history fetched successfully", err)
	})
}
