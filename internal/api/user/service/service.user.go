// Package usersvc implements accounts: registration, sessions, profile updates and the
// channel and watch history views.
package usersvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basesvc "videotube/internal/api/base/service"
	userdto "videotube/internal/api/user/dto"
	usermodels "videotube/internal/api/user/models"
	"videotube/internal/common"
	"videotube/internal/credential"
	"videotube/internal/global"
	"videotube/internal/logger"
	"videotube/internal/media"
)

// UserService handles user accounts.
type UserService struct {
	*basesvc.BaseServiceMongoImpl[usermodels.User]
	creds *credential.Service
	store media.Store
}

// Session is a freshly issued token pair and the user it belongs to.
type Session struct {
	User         usermodels.User
	AccessToken  string
	RefreshToken string
}

// NewUserService builds a UserService on the users collection.
func NewUserService() (*UserService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}
	if global.MongoDB_ServerConfig == nil {
		return nil, fmt.Errorf("config is not initialised")
	}
	return newUserService(coll, credential.NewService(global.MongoDB_ServerConfig), global.MediaStore), nil
}

func newUserService(coll *mongo.Collection, creds *credential.Service, store media.Store) *UserService {
	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[usermodels.User](coll),
		creds:                creds,
		store:                store,
	}
}

// Credentials returns the token service, for cookie lifetimes.
func (s *UserService) Credentials() *credential.Service {
	return s.creds
}

func normalizeHandle(userName string) string {
	return strings.ToLower(strings.TrimSpace(userName))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. The avatar is required, the cover image optional. Uploaded
// assets are removed again when the account cannot be stored.
func (s *UserService) Register(ctx context.Context, input userdto.RegisterInput, avatar, coverImage *media.Asset) (usermodels.User, error) {
	var zero usermodels.User

	userName := normalizeHandle(input.UserName)
	email := normalizeEmail(input.Email)
	fullName := strings.TrimSpace(input.FullName)
	if userName == "" || email == "" || fullName == "" || input.Password == "" {
		return zero, common.NewValidationError("All fields are required", nil)
	}

	exists, err := s.DocumentExists(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"userName": userName},
	}})
	if err != nil {
		return zero, err
	}
	if exists {
		return zero, common.NewConflictError("User with email or username already exists")
	}

	if avatar == nil {
		return zero, common.NewValidationError("Avatar file is required", nil)
	}

	hash, err := credential.Hash(input.Password)
	if err != nil {
		return zero, err
	}

	avatarRef, err := s.store.Upload(ctx, *avatar)
	if err != nil {
		return zero, err
	}
	uploaded := []media.Ref{avatarRef}

	var coverRef *media.Ref
	if coverImage != nil {
		ref, err := s.store.Upload(ctx, *coverImage)
		if err != nil {
			s.discard(ctx, uploaded)
			return zero, err
		}
		coverRef = &ref
		uploaded = append(uploaded, ref)
	}

	created, err := s.InsertOne(ctx, usermodels.User{
		UserName:     userName,
		Email:        email,
		FullName:     fullName,
		Password:     hash,
		Avatar:       avatarRef,
		CoverImage:   coverRef,
		WatchHistory: []primitive.ObjectID{},
	})
	if err != nil {
		s.discard(ctx, uploaded)
		return zero, err
	}
	return created, nil
}

// discard deletes assets uploaded by a failed operation; failures are only logged.
func (s *UserService) discard(ctx context.Context, refs []media.Ref) {
	for _, ref := range refs {
		if err := s.store.Delete(ctx, ref.PublicID, ref.Kind); err != nil {
			logger.WithModule("user").WithError(err).WithField("public_id", ref.PublicID).Warn("Failed to discard uploaded asset")
		}
	}
}

// Login checks the password of the account named by email or user name and opens a session.
func (s *UserService) Login(ctx context.Context, input userdto.LoginInput) (Session, error) {
	email := normalizeEmail(input.Email)
	userName := normalizeHandle(input.UserName)
	if email == "" && userName == "" {
		return Session{}, common.NewValidationError("Username or email is required", nil)
	}

	var or bson.A
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if userName != "" {
		or = append(or, bson.M{"userName": userName})
	}

	user, err := s.FindOne(ctx, bson.M{"$or": or}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return Session{}, common.NewNotFoundError("User does not exist")
		}
		return Session{}, err
	}

	if !credential.Verify(input.Password, user.Password) {
		return Session{}, common.ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// openSession issues a token pair and stores the refresh token on the user.
func (s *UserService) openSession(ctx context.Context, user usermodels.User) (Session, error) {
	accessToken, err := s.creds.IssueAccessToken(credential.Identity{
		ID:       user.ID,
		Email:    user.Email,
		UserName: user.UserName,
		FullName: user.FullName,
	})
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.creds.IssueRefreshToken(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issue refresh token: %w", err)
	}

	if _, err := s.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"refreshToken": refreshToken}); err != nil {
		return Session{}, err
	}
	user.RefreshToken = refreshToken

	return Session{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout clears the stored refresh token, so it can no longer be exchanged.
func (s *UserService) Logout(ctx context.Context, actor primitive.ObjectID) error {
	_, err := s.UpdateOne(ctx, bson.M{"_id": actor}, basesvc.UpdateData{
		Unset: map[string]any{"refreshToken": ""},
	})
	return err
}

// Refresh exchanges a refresh token for a new pair. The presented token must be the one
// stored on the user, so each refresh token works once.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	userID, err := s.creds.VerifyRefreshToken(refreshToken)
	if err != nil {
		return Session{}, err
	}

	user, err := s.FindOneById(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return Session{}, common.ErrTokenInvalid
		}
		return Session{}, err
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return Session{}, common.NewError(common.ErrCodeAuthToken, "Refresh token is expired or used", common.StatusUnauthorized, nil)
	}

	return s.openSession(ctx, user)
}

// ChangePassword replaces the password after checking the old one.
func (s *UserService) ChangePassword(ctx context.Context, actor primitive.ObjectID, input userdto.ChangePasswordInput) error {
	user, err := s.FindOneById(ctx, actor)
	if err != nil {
		return err
	}
	if !credential.Verify(input.OldPassword, user.Password) {
		return common.NewValidationError("Invalid old password", nil)
	}

	hash, err := credential.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	_, err = s.UpdateById(ctx, actor, bson.M{"password": hash})
	return err
}

// UpdateAccount replaces the display name and email. The email must not belong to
// another account.
func (s *UserService) UpdateAccount(ctx context.Context, actor primitive.ObjectID, input userdto.UpdateAccountInput) (usermodels.User, error) {
	email := normalizeEmail(input.Email)
	fullName := strings.TrimSpace(input.FullName)
	if email == "" || fullName == "" {
		return usermodels.User{}, common.NewValidationError("All fields are required", nil)
	}

	taken, err := s.DocumentExists(ctx, bson.M{"email": email, "_id": bson.M{"$ne": actor}})
	if err != nil {
		return usermodels.User{}, err
	}
	if taken {
		return usermodels.User{}, common.NewConflictError("Email is already in use")
	}

	return s.UpdateById(ctx, actor, bson.M{"fullName": fullName, "email": email})
}

// UpdateAvatar uploads a new avatar, stores it and then removes the old one.
func (s *UserService) UpdateAvatar(ctx context.Context, actor primitive.ObjectID, asset media.Asset) (usermodels.User, error) {
	return s.replaceImage(ctx, actor, "avatar", asset)
}

// UpdateCoverImage uploads a new cover image, stores it and then removes the old one.
func (s *UserService) UpdateCoverImage(ctx context.Context, actor primitive.ObjectID, asset media.Asset) (usermodels.User, error) {
	return s.replaceImage(ctx, actor, "coverImage", asset)
}

func (s *UserService) replaceImage(ctx context.Context, actor primitive.ObjectID, field string, asset media.Asset) (usermodels.User, error) {
	current, err := s.FindOneById(ctx, actor)
	if err != nil {
		return usermodels.User{}, err
	}

	ref, err := s.store.Upload(ctx, asset)
	if err != nil {
		return usermodels.User{}, err
	}

	updated, err := s.UpdateById(ctx, actor, bson.M{field: ref})
	if err != nil {
		s.discard(ctx, []media.Ref{ref})
		return usermodels.User{}, err
	}

	old := current.Avatar
	if field == "coverImage" {
		old = media.Ref{}
		if current.CoverImage != nil {
			old = *current.CoverImage
		}
	}
	if !old.IsZero() {
		s.discard(ctx, []media.Ref{old})
	}
	return updated, nil
}
