package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/catalog/backend/internal/domain/integration"
)

// ECount OpenAPI endpoints
const (
	ecountLoginPath = "/OAPI/V2/OAPILogin"
	ecountSavePath  = "/OAPI/V2/InventoryBasic/SaveBasicProduct"
)

// maxResponseSize is the maximum allowed response size from the ECount API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// RemoteError is a classified failure from the ECount API. It carries the
// remote's message and the full parsed response for diagnostics, and unwraps
// to one of the integration sentinel errors.
type RemoteError struct {
	Kind     error
	Message  string
	Response *EcountSaveResponse
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Message)
}

// Unwrap returns the sentinel classification
func (e *RemoteError) Unwrap() error {
	return e.Kind
}

// EcountAdapter implements the integration.ErpClient port against the ECount
// OpenAPI. One adapter instance per configuration is shared by all concurrent
// sync operations; the embedded session manager is the only shared mutable
// state.
type EcountAdapter struct {
	config     *EcountConfig
	httpClient *http.Client
	sessions   *sessionManager
	logger     *zap.Logger
}

// NewEcountAdapter creates a new ECount adapter with the given configuration
func NewEcountAdapter(config *EcountConfig, logger *zap.Logger) (*EcountAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	a := &EcountAdapter{
		config:     config,
		httpClient: &http.Client{},
		logger:     logger,
	}
	a.sessions = newSessionManager(a.loginOnce, config.SessionSkew, config.Timeout)
	return a, nil
}

// SystemCode returns the external system this adapter pushes to
func (a *EcountAdapter) SystemCode() integration.SystemCode {
	return integration.SystemCodeEcount
}

// SaveBasicProduct pushes one flat product record. A session-layer rejection
// invalidates the cached session and retries the call exactly once with a
// fresh session; the second failure surfaces to the caller.
func (a *EcountAdapter) SaveBasicProduct(ctx context.Context, fields integration.BulkFields) (*integration.SaveResult, error) {
	if strings.TrimSpace(fields.PrimaryIdentifier()) == "" {
		return nil, fmt.Errorf("%w: PROD_CD is blank", integration.ErrSnapshotInvalid)
	}

	for attempt := 0; ; attempt++ {
		session, err := a.sessions.ensure(ctx)
		if err != nil {
			return nil, err
		}

		result, err := a.saveOnce(ctx, session.id, fields)
		if err == nil {
			return result, nil
		}

		var remoteErr *RemoteError
		if errors.As(err, &remoteErr) && errors.Is(err, integration.ErrSessionRejected) {
			a.sessions.invalidate()
			if attempt == 0 {
				a.logger.Info("ecount session rejected, retrying with fresh session",
					zap.String("prod_cd", fields.PrimaryIdentifier()),
					zap.String("message", remoteErr.Message))
				continue
			}
			// Second rejection in a row: surface as a remote rejection
			// rather than looping against an external system with unknown
			// idempotency guarantees.
			return nil, &RemoteError{
				Kind:     integration.ErrRemoteRejected,
				Message:  remoteErr.Message,
				Response: remoteErr.Response,
			}
		}
		return nil, err
	}
}

// saveOnce performs a single authenticated save call
func (a *EcountAdapter) saveOnce(ctx context.Context, sessionID string, fields integration.BulkFields) (*integration.SaveResult, error) {
	query := url.Values{}
	query.Set("SESSION_ID", sessionID)

	payload := ecountSaveRequest{
		Key: "SaveBasicProduct",
		ProductList: []ecountSaveLine{
			{Line: "0", BulkDatas: fields},
		},
	}

	body, statusCode, err := a.doRequest(ctx, ecountSavePath, query, payload)
	if err != nil {
		return nil, err
	}

	var resp EcountSaveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrInvalidResponse, err)
	}

	switch classifySaveResponse(statusCode < 400, &resp) {
	case outcomeSuccess:
		return &integration.SaveResult{Response: &resp}, nil
	case outcomeSessionProblem:
		return nil, &RemoteError{
			Kind:     integration.ErrSessionRejected,
			Message:  resp.ErrorMessage(),
			Response: &resp,
		}
	default:
		return nil, &RemoteError{
			Kind:     integration.ErrRemoteRejected,
			Message:  resp.ErrorMessage(),
			Response: &resp,
		}
	}
}

// loginOnce performs a single network login; invoked only through the
// session manager's single-flight gate
func (a *EcountAdapter) loginOnce(ctx context.Context) (*sessionInfo, error) {
	payload := map[string]string{
		"COM_CODE":     a.config.CompanyCode,
		"USER_ID":      a.config.UserID,
		"API_CERT_KEY": a.config.APICertKey,
		"ZONE":         a.config.Zone,
		"LAN_TYPE":     a.config.Language,
	}

	body, statusCode, err := a.doRequest(ctx, ecountLoginPath, nil, payload)
	if err != nil {
		return nil, err
	}

	var resp EcountLoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrInvalidResponse, err)
	}

	if statusCode >= 400 {
		return nil, fmt.Errorf("%w: %s", integration.ErrLoginFailed, resp.Message)
	}

	sessionID := resp.SessionID()
	if sessionID == "" {
		return nil, fmt.Errorf("%w: response missing SESSION_ID", integration.ErrLoginFailed)
	}

	expiresAt := parseExpireTime(resp.ExpireTime())
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(DefaultSessionValidity)
	}

	a.logger.Debug("ecount session established",
		zap.Time("expires_at", expiresAt))

	return &sessionInfo{id: sessionID, expiresAt: expiresAt}, nil
}

// doRequest performs one JSON POST to the ECount API, bounded by the
// configured timeout through context cancellation
func (a *EcountAdapter) doRequest(ctx context.Context, path string, query url.Values, payload any) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("ecount: failed to encode request: %w", err)
	}

	endpoint := a.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	reqCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("ecount: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, 0, fmt.Errorf("%w: %v", integration.ErrRequestTimeout, err)
		}
		return nil, 0, fmt.Errorf("%w: %v", integration.ErrErpUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if isTimeout(err) {
			return nil, 0, fmt.Errorf("%w: %v", integration.ErrRequestTimeout, err)
		}
		return nil, 0, fmt.Errorf("%w: %v", integration.ErrErpUnavailable, err)
	}

	return respBody, resp.StatusCode, nil
}

// isTimeout reports whether the transport error was a deadline expiry
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Ensure EcountAdapter implements the ErpClient port
var _ integration.ErpClient = (*EcountAdapter)(nil)
