// Package credential hashes passwords and issues the access and refresh tokens.
package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"videotube/config"
	"videotube/internal/common"
)

// BcryptCost is the work factor for password hashes.
const BcryptCost = 10

// Identity is what an access token says about its bearer.
type Identity struct {
	ID       primitive.ObjectID
	Email    string
	UserName string
	FullName string
}

// AccessClaims are the claims of an access token.
type AccessClaims struct {
	ID       string `json:"_id"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// RefreshClaims are the claims of a refresh token.
type RefreshClaims struct {
	ID string `json:"_id"`
	jwt.RegisteredClaims
}

// Service signs and verifies tokens with separate access and refresh secrets.
type Service struct {
	accessSecret  []byte
	accessExpiry  time.Duration
	refreshSecret []byte
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewService builds a Service from the token settings of cfg.
func NewService(cfg *config.Configuration) *Service {
	return &Service{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		accessExpiry:  cfg.AccessTokenExpiry,
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		refreshExpiry: cfg.RefreshTokenExpiry,
		now:           time.Now,
	}
}

// AccessExpiry is how long an access token lives.
func (s *Service) AccessExpiry() time.Duration { return s.accessExpiry }

// RefreshExpiry is how long a refresh token lives.
func (s *Service) RefreshExpiry() time.Duration { return s.refreshExpiry }

// Hash returns the bcrypt hash of secret.
func Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether secret matches hash.
func Verify(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

func (s *Service) registered(subject primitive.ObjectID, ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		Subject:   subject.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

// IssueAccessToken signs a short-lived token carrying the identity.
func (s *Service) IssueAccessToken(identity Identity) (string, error) {
	claims := &AccessClaims{
		ID:               identity.ID.Hex(),
		Email:            identity.Email,
		UserName:         identity.UserName,
		FullName:         identity.FullName,
		RegisteredClaims: s.registered(identity.ID, s.accessExpiry),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

// IssueRefreshToken signs a long-lived token carrying only the user id.
func (s *Service) IssueRefreshToken(id primitive.ObjectID) (string, error) {
	claims := &RefreshClaims{
		ID:               id.Hex(),
		RegisteredClaims: s.registered(id, s.refreshExpiry),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
}

func (s *Service) parse(token string, claims jwt.Claims, secret []byte) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return common.ErrTokenInvalid
	}
	return nil
}

// VerifyAccessToken checks signature and expiry and returns the bearer's id.
func (s *Service) VerifyAccessToken(token string) (*AccessClaims, primitive.ObjectID, error) {
	claims := &AccessClaims{}
	if err := s.parse(token, claims, s.accessSecret); err != nil {
		return nil, primitive.NilObjectID, err
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, primitive.NilObjectID, common.ErrTokenInvalid
	}
	return claims, id, nil
}

// VerifyRefreshToken checks signature and expiry and returns the user id.
func (s *Service) VerifyRefreshToken(token string) (primitive.ObjectID, error) {
	if token == "" {
		return primitive.NilObjectID, common.ErrTokenMissing
	}
	claims := &RefreshClaims{}
	if err := s.parse(token, claims, s.refreshSecret); err != nil {
		return primitive.NilObjectID, err
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return primitive.NilObjectID, common.ErrTokenInvalid
	}
	return id, nil
}

// IsTokenError reports whether err is one of the token sentinels.
func IsTokenError(err error) bool {
	return errors.Is(err, common.ErrTokenInvalid) || errors.Is(err, common.ErrTokenMissing)
}
