package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gstbilling/internal/providers/pdf"
	"github.com/smallbiznis/gstbilling/pkg/errs"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errs.Validation("request", "invalid request body")

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return ErrInvalidRequest
}

func newValidationError(field, reason string) error {
	return errs.Validation(field, reason)
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	var vErr *errs.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, errorPayload{
			Type:    errs.ErrValidation.Error(),
			Message: err.Error(),
			Field:   vErr.Field,
		}
	}

	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    errs.ErrNotFound.Error(),
			Message: err.Error(),
		}
	case errors.Is(err, errs.ErrInsufficientStock),
		errors.Is(err, errs.ErrAlreadyConverted),
		errors.Is(err, errs.ErrDuplicateDocumentNumber):
		return http.StatusConflict, errorPayload{
			Type:    errs.Classify(err),
			Message: err.Error(),
		}
	case errors.Is(err, errs.ErrStorage):
		// Driver messages can leak schema details.
		return http.StatusServiceUnavailable, errorPayload{
			Type:    errs.ErrStorage.Error(),
			Message: "storage unavailable",
		}
	case errors.Is(err, pdf.ErrRenderingDisabled):
		return http.StatusNotImplemented, errorPayload{
			Type:    "pdf_rendering_disabled",
			Message: "pdf rendering is disabled",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog returns the error kind and code logged with a failed
// request.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	kind := "server"
	if status < http.StatusInternalServerError {
		kind = "client"
	}
	return kind, payload.Type
}
