package middleware

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	basesvc "videotube/internal/api/base/service"
	usermodels "videotube/internal/api/user/models"
	"videotube/internal/common"
	"videotube/internal/credential"
	"videotube/internal/global"
	"videotube/internal/logger"
	"videotube/internal/utility"
)

// AccessTokenCookie is the cookie the access token is read from when there is no
// Authorization header.
const AccessTokenCookie = "accessToken"

// AuthManager verifies access tokens and loads the bearer.
type AuthManager struct {
	Credentials *credential.Service
	UserCRUD    basesvc.BaseServiceMongo[usermodels.User]
	Cache       *utility.Cache[usermodels.User]
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager returns the process-wide AuthManager, built on first use from the
// global config and collection registry.
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		var err error
		authManagerInstance, err = newAuthManager()
		if err != nil {
			panic(err)
		}
	})
	return authManagerInstance
}

func newAuthManager() (*AuthManager, error) {
	if global.MongoDB_ServerConfig == nil {
		return nil, fmt.Errorf("config is not initialised")
	}
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}
	return NewAuthManager(
		credential.NewService(global.MongoDB_ServerConfig),
		basesvc.NewBaseServiceMongo[usermodels.User](collection),
	), nil
}

// NewAuthManager builds an AuthManager with a five minute user cache.
func NewAuthManager(creds *credential.Service, users basesvc.BaseServiceMongo[usermodels.User]) *AuthManager {
	return &AuthManager{
		Credentials: creds,
		UserCRUD:    users,
		Cache:       utility.NewCache[usermodels.User](5*time.Minute, 10*time.Minute),
	}
}

// ForgetUser drops the cached copy of a user so the next request reloads it.
func (am *AuthManager) ForgetUser(userID string) {
	am.Cache.Delete("user:" + userID)
}

// bearerToken reads the access token from "Authorization: Bearer <token>" or, failing
// that, from the access token cookie.
func bearerToken(c fiber.Ctx) (string, error) {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", common.ErrTokenInvalid
		}
		return parts[1], nil
	}
	if token := c.Cookies(AccessTokenCookie); token != "" {
		return token, nil
	}
	return "", common.ErrTokenMissing
}

// Middleware rejects requests without a valid access token and stores the bearer in
// c.Locals("user_id") (hex) and c.Locals("user").
func (am *AuthManager) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("[AUTH] Missing or malformed access token")
			return HandleErrorResponse(c, err)
		}

		_, userID, err := am.Credentials.VerifyAccessToken(token)
		if err != nil {
			return HandleErrorResponse(c, common.ErrTokenInvalid)
		}

		cacheKey := "user:" + userID.Hex()
		user, found := am.Cache.Get(cacheKey)
		if !found {
			user, err = am.UserCRUD.FindOneById(c, userID)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					logger.GetAppLogger().WithField("user_id", userID.Hex()).Warn("[AUTH] Token bearer no longer exists")
					return HandleErrorResponse(c, common.ErrTokenInvalid)
				}
				return HandleErrorResponse(c, err)
			}
			am.Cache.Set(cacheKey, user)
		}

		c.Locals("user_id", user.ID.Hex())
		c.Locals("user", user)
		return c.Next()
	}
}

// AuthMiddleware is the Middleware of the process-wide AuthManager.
func AuthMiddleware() fiber.Handler {
	return GetAuthManager().Middleware()
}
