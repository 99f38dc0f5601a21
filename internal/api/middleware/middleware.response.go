package middleware

import (
	"errors"
	"reflect"

	"github.com/gofiber/fiber/v3"

	"videotube/internal/common"
	"videotube/internal/logger"
)

// JSONResponse writes data as JSON with an explicit utf-8 charset.
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// SuccessEnvelope is the body of every successful response.
type SuccessEnvelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	StatusCode int           `json:"statusCode"`
	Code       string        `json:"code,omitempty"`
	Message    string        `json:"message"`
	Success    bool          `json:"success"`
	Errors     []interface{} `json:"errors"`
}

// HandleSuccessResponse writes the success envelope.
func HandleSuccessResponse(c fiber.Ctx, statusCode int, data interface{}, message string) error {
	if message == "" {
		message = common.MsgSuccess
	}
	return JSONResponse(c, statusCode, SuccessEnvelope{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// HandleErrorResponse maps err onto the error taxonomy and writes the error envelope.
// Errors outside the taxonomy are logged and reported as a bare 500.
func HandleErrorResponse(c fiber.Ctx, err error) error {
	status, body := BuildErrorEnvelope(err)
	if status >= common.StatusInternalServerError {
		logger.WithRequest(c).WithError(err).Error("Request failed")
	}
	return JSONResponse(c, status, body)
}

// ErrorHandler is the application-wide fiber error handler: every error returned by a
// handler or middleware ends up in the error envelope.
func ErrorHandler(c fiber.Ctx, err error) error {
	return HandleErrorResponse(c, err)
}

// BuildErrorEnvelope returns the status code and body reported for err.
func BuildErrorEnvelope(err error) (int, ErrorEnvelope) {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		return customErr.StatusCode, ErrorEnvelope{
			StatusCode: customErr.StatusCode,
			Code:       customErr.Code.Code,
			Message:    customErr.Message,
			Errors:     detailsList(customErr.Details),
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, ErrorEnvelope{
			StatusCode: fiberErr.Code,
			Code:       fiberCode(fiberErr.Code),
			Message:    fiberErr.Message,
			Errors:     []interface{}{},
		}
	}

	return common.StatusInternalServerError, ErrorEnvelope{
		StatusCode: common.StatusInternalServerError,
		Code:       common.ErrCodeInternalServer.Code,
		Message:    common.MsgInternalError,
		Errors:     []interface{}{},
	}
}

// detailsList flattens error details into the errors array: slices are spread, any other
// value becomes a single element.
func detailsList(details interface{}) []interface{} {
	if details == nil {
		return []interface{}{}
	}
	v := reflect.ValueOf(details)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		out := make([]interface{}, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, v.Index(i).Interface())
		}
		return out
	}
	return []interface{}{details}
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
		return common.ErrCodeValidationInput.Code
	case fiber.StatusUnauthorized:
		return common.ErrCodeAuthToken.Code
	case fiber.StatusForbidden:
		return common.ErrCodeForbidden.Code
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return common.ErrCodeNotFound.Code
	case fiber.StatusTooManyRequests:
		return common.ErrCodeRateLimit.Code
	default:
		return common.ErrCodeInternalServer.Code
	}
}
