package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/pkg/apperror"
	"github.com/sangkips/mscheesy-pos/pkg/pagination"
)

// APIResponse is the envelope every endpoint answers with
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	// Warning reports a side effect that failed after the request itself succeeded,
	// such as a receipt that could not be printed.
	Warning string      `json:"warning,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

// newMeta reuses the id assigned by the access log middleware when there is one
func newMeta(c *gin.Context) *Meta {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-ID")
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return &Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}

// Success sends a success response
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    newMeta(c),
	})
}

// SuccessWithWarning answers 200 with data and the user-facing message of a
// side-effect failure. The request is still reported as successful.
func SuccessWithWarning(c *gin.Context, message string, data interface{}, warning error) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Warning: apperror.GetAppError(warning).Message,
		Meta:    newMeta(c),
	})
}

// SuccessWithPagination sends a page of items with its pagination block
func SuccessWithPagination[T any](c *gin.Context, statusCode int, message string, result *pagination.PaginatedResult[T]) {
	Success(c, statusCode, message, result)
}

// Error renders err as an AppError. Unknown errors become a generic 500 so
// collaborator messages never reach the terminal.
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	resp := APIResponse{
		Success: false,
		Message: appErr.Message,
		Meta:    newMeta(c),
	}
	if appErr.Kind != apperror.KindGeneric {
		resp.Kind = appErr.Kind.String()
	}
	if len(appErr.Errors) > 0 {
		resp.Errors = appErr.Errors
	}
	c.JSON(appErr.Code, resp)
}

// ErrorWithCode sends an error response with a specific status code
func ErrorWithCode(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: message,
		Meta:    newMeta(c),
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

func OK(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusOK, message, data)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusForbidden, message)
}

func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusBadRequest, message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusInternalServerError, message)
}
