package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"colmado/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Error    *APIError   `json:"error,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
	Meta     *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondCreatedWithWarnings sends a 201 carrying non-blocking warnings.
func RespondCreatedWithWarnings(c *gin.Context, data interface{}, warnings []string) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data, Warnings: warnings})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and
// stable error codes. Business-rule failures carry the specific,
// actionable reason in the message.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidLineItem):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, domain.ErrMalformedIdentifier):
		return http.StatusBadRequest, "MALFORMED_IDENTIFIER", err.Error()
	case errors.Is(err, domain.ErrProductInactive):
		return http.StatusUnprocessableEntity, "PRODUCT_INACTIVE", err.Error()
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK", "insufficient stock for one or more line items"
	case errors.Is(err, domain.ErrNoActiveSequence):
		return http.StatusUnprocessableEntity, "NO_ACTIVE_SEQUENCE", err.Error()
	case errors.Is(err, domain.ErrSequenceExhausted):
		return http.StatusUnprocessableEntity, "SEQUENCE_EXHAUSTED", err.Error()
	case errors.Is(err, domain.ErrSequenceExpired):
		return http.StatusUnprocessableEntity, "SEQUENCE_EXPIRED", err.Error()
	case errors.Is(err, domain.ErrSequenceInUse):
		return http.StatusConflict, "SEQUENCE_IN_USE", "sequence has issued numbers; deactivate it instead"
	case errors.Is(err, domain.ErrDuplicateSequence):
		return http.StatusConflict, "DUPLICATE_SEQUENCE", "an active sequence already exists for this document type"
	case errors.Is(err, domain.ErrTaxpayerRequired):
		return http.StatusUnprocessableEntity, "TAXPAYER_REQUIRED", "this document type requires a registered taxpayer id"
	case errors.Is(err, domain.ErrTaxpayerNotRegistered):
		return http.StatusUnprocessableEntity, "TAXPAYER_NOT_REGISTERED", err.Error()
	case errors.Is(err, domain.ErrTransientConflict):
		return http.StatusConflict, "TRANSIENT_CONFLICT", "concurrent update conflict; please retry"
	case errors.Is(err, domain.ErrSchemaViolation):
		return http.StatusInternalServerError, "SCHEMA_VIOLATION", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
