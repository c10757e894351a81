package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/catalog/backend/internal/domain/integration"
	"github.com/catalog/backend/internal/domain/shared"
)

func performWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &BaseHandler{}
	router := gin.New()
	router.GET("/fail", func(c *gin.Context) {
		h.HandleError(c, err)
	})

	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"domain not found", shared.ErrNotFound, http.StatusNotFound, "ERR_NOT_FOUND"},
		{"domain error code", shared.NewDomainError("ALREADY_EXISTS", "dup"), http.StatusConflict, "ERR_ALREADY_EXISTS"},
		{"erp unavailable", integration.ErrErpUnavailable, http.StatusBadGateway, "ERR_ERP_UNAVAILABLE"},
		{"erp timeout", integration.ErrRequestTimeout, http.StatusGatewayTimeout, "ERR_ERP_TIMEOUT"},
		{"erp rejected", integration.ErrRemoteRejected, http.StatusUnprocessableEntity, "ERR_ERP_REJECTED"},
		{"snapshot invalid", integration.ErrSnapshotInvalid, http.StatusUnprocessableEntity, "ERR_ERP_REJECTED"},
		{"login failed", integration.ErrLoginFailed, http.StatusBadGateway, "ERR_ERP_LOGIN_FAILED"},
		{"invalid response", integration.ErrInvalidResponse, http.StatusBadGateway, "ERR_ERP_BAD_RESPONSE"},
		{"wrapped sentinel", fmt.Errorf("push product: %w", integration.ErrErpUnavailable), http.StatusBadGateway, "ERR_ERP_UNAVAILABLE"},
		{"unknown error", assert.AnError, http.StatusInternalServerError, "ERR_INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := performWithError(t, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
		})
	}
}

func TestBaseHandler_HandleError_Nil(t *testing.T) {
	rec := performWithError(t, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestBaseHandler_ErrorIncludesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &BaseHandler{}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-789")
	})
	router.GET("/fail", func(c *gin.Context) {
		h.NotFound(c, "gone")
	})

	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), "req-789")
}
