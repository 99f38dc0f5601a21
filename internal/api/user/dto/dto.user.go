// Package userdto holds the request and response bodies of the user routes.
package userdto

import (
	usermodels "videotube/internal/api/user/models"
)

// RegisterInput is the text part of the multipart registration form. The avatar
// (required) and coverImage (optional) files travel alongside.
type RegisterInput struct {
	FullName string `json:"fullName" form:"fullName" validate:"required,max=100,no_xss"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	UserName string `json:"userName" form:"userName" validate:"required,username"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
}

// LoginInput identifies the account by email or user name.
type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"omitempty,email"`
	UserName string `json:"userName" form:"userName"`
	Password string `json:"password" form:"password" validate:"required"`
}

// RefreshInput carries the refresh token when it is not sent as a cookie.
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

// ChangePasswordInput replaces the password of the current user.
type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

// UpdateAccountInput replaces the display name and email of the current user.
type UpdateAccountInput struct {
	FullName string `json:"fullName" validate:"required,max=100,no_xss"`
	Email    string `json:"email" validate:"required,email"`
}

// SessionResponse is returned by login and refresh. Tokens are also set as cookies.
type SessionResponse struct {
	User         *usermodels.User `json:"user,omitempty"`
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
}
