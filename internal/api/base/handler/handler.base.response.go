// Package basehdl holds what every domain handler shares: body parsing and validation,
// parameter helpers, the response envelope and panic recovery.
package basehdl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "videotube/internal/api/base/models"
	"videotube/internal/api/middleware"
	"videotube/internal/common"
	"videotube/internal/global"
	"videotube/internal/logger"
	"videotube/internal/utility"
)

// BaseHandler is embedded by domain handlers.
type BaseHandler struct{}

// FieldError is one failed validation rule, reported in the errors array.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ParseRequestBody decodes the body into input and validates it. JSON bodies are decoded
// with UseNumber; form and multipart bodies are bound through their `form` tags.
func (h *BaseHandler) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	return ParseBody(c, input)
}

// ValidateInput runs the struct rules of input.
func (h *BaseHandler) ValidateInput(input interface{}) error {
	return ValidateStruct(input)
}

// HandleResponse writes data in the success envelope, or err in the error envelope.
func (h *BaseHandler) HandleResponse(c fiber.Ctx, statusCode int, data interface{}, message string, err error) error {
	return Respond(c, statusCode, data, message, err)
}

// SafeHandler runs handler and turns a panic into a 500 error envelope.
func (h *BaseHandler) SafeHandler(c fiber.Ctx, handler func() error) error {
	return SafeHandlerWrapper(c, handler)
}

// ParseBody is ParseRequestBody for handlers without a BaseHandler.
func ParseBody(c fiber.Ctx, input interface{}) error {
	contentType := strings.ToLower(string(c.Request().Header.ContentType()))
	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) || strings.HasPrefix(contentType, fiber.MIMEApplicationForm) {
		if err := c.Bind().Body(input); err != nil {
			return common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error())
		}
		return ValidateStruct(input)
	}

	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error())
	}
	return ValidateStruct(input)
}

// ValidateStruct runs the shared validator and reports every failed rule.
func ValidateStruct(input interface{}) error {
	if global.Validate == nil {
		global.InitValidator()
	}
	err := global.Validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return common.NewValidationError(common.MsgValidationError, err.Error())
	}

	fields := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return common.NewValidationError(fields[0].Message, fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "username":
		return fmt.Sprintf("%s may only contain 3 to 30 lowercase letters, digits, dots or underscores", fe.Field())
	case "no_xss":
		return fmt.Sprintf("%s contains forbidden markup", fe.Field())
	case "objectid":
		return fmt.Sprintf("Invalid %s", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// ObjectIDParam parses the route parameter name as an ObjectID.
func ObjectIDParam(c fiber.Ctx, name string) (primitive.ObjectID, error) {
	return utility.ParseObjectID(name, c.Params(name))
}

// PagingQuery reads the page and limit query parameters.
func PagingQuery(c fiber.Ctx) basemodels.Paging {
	return basemodels.ParsePaging(c.Query("page"), c.Query("limit"))
}

// ActorID returns the authenticated user set by the auth middleware.
func ActorID(c fiber.Ctx) (primitive.ObjectID, error) {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return primitive.NilObjectID, common.ErrTokenMissing
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, common.ErrTokenInvalid
	}
	return id, nil
}

// Respond writes data in the success envelope, or err in the error envelope.
func Respond(c fiber.Ctx, statusCode int, data interface{}, message string, err error) error {
	if err != nil {
		return middleware.HandleErrorResponse(c, err)
	}
	return middleware.HandleSuccessResponse(c, statusCode, data, message)
}

// SafeHandlerWrapper runs fn and turns a panic into a 500 error envelope.
func SafeHandlerWrapper(c fiber.Ctx, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithRequest(c).WithFields(map[string]interface{}{
				"panic": fmt.Sprintf("%v", r),
				"stack": string(debug.Stack()),
			}).Error("Handler panic recovered")

			err = middleware.HandleErrorResponse(c, common.NewError(
				common.ErrCodeInternalServer,
				common.MsgInternalError,
				common.StatusInternalServerError,
				nil,
			))
		}
	}()
	return fn()
}
