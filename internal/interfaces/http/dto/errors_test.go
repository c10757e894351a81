package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"already exists", ErrCodeAlreadyExists, http.StatusConflict},
		{"validation", ErrCodeValidation, http.StatusBadRequest},
		{"invalid state", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"internal", ErrCodeInternal, http.StatusInternalServerError},
		{"erp unavailable", ErrCodeErpUnavailable, http.StatusBadGateway},
		{"erp timeout", ErrCodeErpTimeout, http.StatusGatewayTimeout},
		{"erp rejected", ErrCodeErpRejected, http.StatusUnprocessableEntity},
		{"erp login failed", ErrCodeErpLoginFailed, http.StatusBadGateway},
		{"erp bad response", ErrCodeErpBadResponse, http.StatusBadGateway},
		{"erp not configured", ErrCodeErpNotConfigured, http.StatusConflict},
		{"unknown code falls back to 500", "ERR_NO_SUCH_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeAlreadyExists, NormalizeErrorCode("ALREADY_EXISTS"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_INPUT"))

	// Already-normalized and unknown codes pass through unchanged
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
	assert.Equal(t, "CUSTOM_CODE", NormalizeErrorCode("CUSTOM_CODE"))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "product not found", "req-123")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "product not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "master_code", Message: "This field is required"},
		{Field: "name", Message: "Must be at most 200 characters"},
	}
	resp := NewValidationErrorResponse("Request validation failed", "req-456", details)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-456", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "master_code", resp.Error.Details[0].Field)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 41, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
