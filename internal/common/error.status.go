package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	StatusOK        = 200
	StatusCreated   = 201
	StatusNoContent = 204

	StatusBadRequest       = 400
	StatusUnauthorized     = 401
	StatusForbidden        = 403
	StatusNotFound         = 404
	StatusConflict         = 409
	StatusTooManyRequests  = 429
	StatusRequestTooLarge  = 413
	StatusMethodNotAllowed = 405

	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
)

// Response Messages
const (
	MsgSuccess = "Request completed successfully"
	MsgCreated = "Resource created successfully"

	MsgBadRequest       = "Invalid request"
	MsgUnauthorized     = "Unauthorized request"
	MsgForbidden        = "You are not allowed to perform this action"
	MsgNotFound         = "Resource not found"
	MsgConflict         = "Resource already exists"
	MsgTooManyRequests  = "Too many requests, please try again later"
	MsgInternalError    = "Internal server error"
	MsgDependencyError  = "Upstream dependency failed"
	MsgValidationError  = "Input validation failed"
	MsgInvalidFormat    = "Malformed request body"
	MsgInvalidObjectID  = "Invalid identifier"
	MsgMediaStoreError  = "Media store operation failed"
	MsgTokenMissing     = "Authentication token is missing"
	MsgTokenInvalid     = "Authentication token is invalid or expired"
	MsgCredentialsWrong = "Invalid user credentials"
)

// ErrorCode is the machine readable part of an Error.
type ErrorCode struct {
	Code        string // e.g. VAL_001
	Category    string // e.g. Validation
	SubCategory string // e.g. Input
	Description string
}

var (
	// System (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Unexpected internal failure",
	}

	// Authentication (AUTH_xxx)
	ErrCodeAuthTokenMissing = ErrorCode{
		Code:        "AUTH_001",
		Category:    "Authentication",
		SubCategory: "Token",
		Description: "No token supplied",
	}
	ErrCodeAuthToken = ErrorCode{
		Code:        "AUTH_002",
		Category:    "Authentication",
		SubCategory: "Token",
		Description: "Token could not be verified",
	}
	ErrCodeAuthCredentials = ErrorCode{
		Code:        "AUTH_003",
		Category:    "Authentication",
		SubCategory: "Credentials",
		Description: "Wrong user name, email or password",
	}
	ErrCodeForbidden = ErrorCode{
		Code:        "AUTH_004",
		Category:    "Authorization",
		SubCategory: "Ownership",
		Description: "Acting identity does not own the resource",
	}

	// Validation (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Missing or malformed input",
	}
	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Body could not be decoded",
	}
	ErrCodeValidationObjectID = ErrorCode{
		Code:        "VAL_003",
		Category:    "Validation",
		SubCategory: "Identifier",
		Description: "Identifier is not a valid reference",
	}

	// Lookup (NF_xxx)
	ErrCodeNotFound = ErrorCode{
		Code:        "NF_001",
		Category:    "Lookup",
		SubCategory: "Missing",
		Description: "Referenced entity does not exist",
	}

	// Business (BIZ_xxx)
	ErrCodeConflict = ErrorCode{
		Code:        "BIZ_001",
		Category:    "Business",
		SubCategory: "Conflict",
		Description: "Unique pair or member already present",
	}
	ErrCodeRateLimit = ErrorCode{
		Code:        "BIZ_002",
		Category:    "Business",
		SubCategory: "RateLimit",
		Description: "Too many requests",
	}

	// Dependency (DEP_xxx)
	ErrCodeDependencyDatabase = ErrorCode{
		Code:        "DEP_001",
		Category:    "Dependency",
		SubCategory: "Database",
		Description: "Record store failure",
	}
	ErrCodeDependencyMedia = ErrorCode{
		Code:        "DEP_002",
		Category:    "Dependency",
		SubCategory: "Media",
		Description: "Media store failure",
	}
)

// Error is the single error type surfaced to the HTTP layer.
type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    any
}

// Error returns the message.
func (e *Error) Error() string {
	return e.Message
}

// Is matches errors of the same kind, so errors.Is(err, ErrNotFound) holds for every
// not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code.Code == t.Code.Code && e.StatusCode == t.StatusCode
}

// NewError builds an Error with every field set.
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// NewValidationError reports malformed or missing input (400).
func NewValidationError(message string, details any) error {
	return NewError(ErrCodeValidationInput, message, StatusBadRequest, details)
}

// NewNotFoundError reports an absent referenced entity (404).
func NewNotFoundError(message string) error {
	return NewError(ErrCodeNotFound, message, StatusNotFound, nil)
}

// NewForbiddenError reports an authorization failure (403).
func NewForbiddenError(message string) error {
	return NewError(ErrCodeForbidden, message, StatusForbidden, nil)
}

// NewConflictError reports a duplicate unique pair or member (409).
func NewConflictError(message string) error {
	return NewError(ErrCodeConflict, message, StatusConflict, nil)
}

// NewDependencyError reports a record store failure (500).
func NewDependencyError(message string, details any) error {
	return NewError(ErrCodeDependencyDatabase, message, StatusInternalServerError, details)
}

// NewMediaStoreError reports a media store failure (500).
func NewMediaStoreError(message string, cause error) error {
	var details any
	if cause != nil {
		details = cause.Error()
	}
	return NewError(ErrCodeDependencyMedia, message, StatusInternalServerError, details)
}

// Sentinels used with errors.Is.
var (
	ErrTokenMissing       = NewError(ErrCodeAuthTokenMissing, MsgTokenMissing, StatusUnauthorized, nil)
	ErrTokenInvalid       = NewError(ErrCodeAuthToken, MsgTokenInvalid, StatusUnauthorized, nil)
	ErrInvalidCredentials = NewError(ErrCodeAuthCredentials, MsgCredentialsWrong, StatusUnauthorized, nil)

	ErrInvalidInput    = NewError(ErrCodeValidationInput, MsgValidationError, StatusBadRequest, nil)
	ErrInvalidFormat   = NewError(ErrCodeValidationFormat, MsgInvalidFormat, StatusBadRequest, nil)
	ErrInvalidObjectID = NewError(ErrCodeValidationObjectID, MsgInvalidObjectID, StatusBadRequest, nil)

	ErrNotFound   = NewError(ErrCodeNotFound, MsgNotFound, StatusNotFound, nil)
	ErrForbidden  = NewError(ErrCodeForbidden, MsgForbidden, StatusForbidden, nil)
	ErrConflict   = NewError(ErrCodeConflict, MsgConflict, StatusConflict, nil)
	ErrDependency = NewError(ErrCodeDependencyDatabase, MsgDependencyError, StatusInternalServerError, nil)
	ErrMediaStore = NewError(ErrCodeDependencyMedia, MsgMediaStoreError, StatusInternalServerError, nil)
)

// ConvertMongoError maps a driver error onto the taxonomy. Errors already of type *Error
// pass through unchanged.
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return NewError(ErrCodeConflict, MsgConflict, StatusConflict, err.Error())
	}
	if mongo.IsNetworkError(err) {
		return NewDependencyError("Record store is unreachable", err.Error())
	}
	if mongo.IsTimeout(err) {
		return NewDependencyError("Record store operation timed out", err.Error())
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return NewDependencyError("Record store rejected the query", cmdErr.Message)
	}

	return NewDependencyError(MsgDependencyError, err.Error())
}
