package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/catalog/backend/internal/domain/integration"
	"github.com/catalog/backend/internal/domain/shared"
	"github.com/catalog/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Conflict sends a 409 conflict response
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	requestID := getRequestID(c)
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		requestID,
		details,
	))
}

// erpErrorCodes maps ERP connector sentinel errors to API error codes.
// Ordering matters: more specific sentinels are listed first.
var erpErrorCodes = []struct {
	sentinel error
	code     string
}{
	{integration.ErrSnapshotInvalid, dto.ErrCodeErpRejected},
	{integration.ErrRemoteRejected, dto.ErrCodeErpRejected},
	{integration.ErrRequestTimeout, dto.ErrCodeErpTimeout},
	{integration.ErrLoginFailed, dto.ErrCodeErpLoginFailed},
	{integration.ErrSessionRejected, dto.ErrCodeErpLoginFailed},
	{integration.ErrInvalidResponse, dto.ErrCodeErpBadResponse},
	{integration.ErrErpUnavailable, dto.ErrCodeErpUnavailable},
	{integration.ErrConnectorNotConfigured, dto.ErrCodeErpNotConfigured},
}

// HandleError converts domain and ERP connector errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	for _, mapping := range erpErrorCodes {
		if errors.Is(err, mapping.sentinel) {
			h.ErrorWithCode(c, mapping.code, err.Error())
			return
		}
	}

	h.InternalError(c, "An unexpected error occurred")
}
