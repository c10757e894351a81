package erp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/catalog/backend/internal/domain/integration"
)

// ecountStub is a scripted fake of the two ECount endpoints the adapter talks
// to. Responses for the save endpoint are consumed in order; the last one
// repeats.
type ecountStub struct {
	t             *testing.T
	server        *httptest.Server
	logins        atomic.Int32
	saves         atomic.Int32
	saveResponses []string
	loginBody     string
	lastSaveBody  []byte
	lastSessionID atomic.Value
}

const stubLoginOK = `{"Status":"200","Data":{"Datas":{"SESSION_ID":"sess-1"}}}`

func newEcountStub(t *testing.T, saveResponses ...string) *ecountStub {
	stub := &ecountStub{t: t, saveResponses: saveResponses, loginBody: stubLoginOK}
	stub.server = httptest.NewServer(http.HandlerFunc(stub.handle))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *ecountStub) handle(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case ecountLoginPath:
		s.logins.Add(1)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, s.loginBody)
	case ecountSavePath:
		n := int(s.saves.Add(1))
		s.lastSessionID.Store(r.URL.Query().Get("SESSION_ID"))
		body, err := io.ReadAll(r.Body)
		require.NoError(s.t, err)
		s.lastSaveBody = body

		idx := n - 1
		if idx >= len(s.saveResponses) {
			idx = len(s.saveResponses) - 1
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, s.saveResponses[idx])
	default:
		http.NotFound(w, r)
	}
}

func (s *ecountStub) adapter(t *testing.T) *EcountAdapter {
	config := NewEcountConfig("123456", "apiuser", "cert-key", "CC")
	config.BaseURL = s.server.URL
	adapter, err := NewEcountAdapter(config, zap.NewNop())
	require.NoError(t, err)
	return adapter
}

const (
	stubSaveOK              = `{"Status":"200","Data":{"ResultDetails":[{"IsSuccess":true}]}}`
	stubSaveSessionRejected = `{"Status":"200","Data":{"ResultDetails":[{"IsSuccess":false,"TotalError":"session expired"}]}}`
	stubSaveDuplicate       = `{"Status":"200","Data":{"ResultDetails":[{"IsSuccess":false,"TotalError":"PROD_CD duplicated"}]}}`
)

func testFields() integration.BulkFields {
	return integration.BulkFields{"PROD_CD": "CATE9-00042", "PROD_DES": "Vinyl"}
}

func TestNewEcountAdapter(t *testing.T) {
	t.Run("rejects invalid config", func(t *testing.T) {
		_, err := NewEcountAdapter(&EcountConfig{}, zap.NewNop())
		assert.ErrorIs(t, err, ErrEcountConfigMissingCompanyCode)
	})
}

func TestEcountAdapter_SaveBasicProduct(t *testing.T) {
	t.Run("logs in, pushes and returns the parsed response", func(t *testing.T) {
		stub := newEcountStub(t, stubSaveOK)
		adapter := stub.adapter(t)

		result, err := adapter.SaveBasicProduct(context.Background(), testFields())
		require.NoError(t, err)
		require.NotNil(t, result)

		resp, ok := result.Response.(*EcountSaveResponse)
		require.True(t, ok)
		assert.True(t, resp.IsSuccess())

		assert.Equal(t, int32(1), stub.logins.Load())
		assert.Equal(t, int32(1), stub.saves.Load())
		assert.Equal(t, "sess-1", stub.lastSessionID.Load())

		var req ecountSaveRequest
		require.NoError(t, json.Unmarshal(stub.lastSaveBody, &req))
		assert.Equal(t, "SaveBasicProduct", req.Key)
		require.Len(t, req.ProductList, 1)
		assert.Equal(t, "0", req.ProductList[0].Line)
		assert.Equal(t, "CATE9-00042", req.ProductList[0].BulkDatas["PROD_CD"])
	})

	t.Run("reuses the session across calls", func(t *testing.T) {
		stub := newEcountStub(t, stubSaveOK)
		adapter := stub.adapter(t)

		for i := 0; i < 3; i++ {
			_, err := adapter.SaveBasicProduct(context.Background(), testFields())
			require.NoError(t, err)
		}
		assert.Equal(t, int32(1), stub.logins.Load())
		assert.Equal(t, int32(3), stub.saves.Load())
	})

	t.Run("blank PROD_CD fails before any network call", func(t *testing.T) {
		stub := newEcountStub(t, stubSaveOK)
		adapter := stub.adapter(t)

		_, err := adapter.SaveBasicProduct(context.Background(), integration.BulkFields{"PROD_CD": "  "})
		assert.ErrorIs(t, err, integration.ErrSnapshotInvalid)
		assert.Equal(t, int32(0), stub.logins.Load())
		assert.Equal(t, int32(0), stub.saves.Load())
	})

	t.Run("session rejection refreshes and retries once", func(t *testing.T) {
		stub := newEcountStub(t, stubSaveSessionRejected, stubSaveOK)
		adapter := stub.adapter(t)

		result, err := adapter.SaveBasicProduct(context.Background(), testFields())
		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, int32(2), stub.logins.Load())
		assert.Equal(t, int32(2), stub.saves.Load())
	})

	t.Run("second session rejection surfaces as remote rejection", func(t *testing.T) {
		stub := newEcountStub(t, stubSaveSessionRejected)
		adapter := stub.adapter(t)

		_, err := adapter.SaveBasicProduct(context.Background(), testFields())
		assert.ErrorIs(t, err, integration.ErrRemoteRejected)
		assert.NotErrorIs(t, err, integration.ErrSessionRejected)
		assert.Equal(t, int32(2), stub.saves.Load(), "no third attempt")

		var remoteErr *RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, "session expired", remoteErr.Message)
		assert.NotNil(t, remoteErr.Response)
	})

	t.Run("business rejection is not retried", func(t *testing.T) {
		stub := newEcountStub(t, stubSaveDuplicate)
		adapter := stub.adapter(t)

		_, err := adapter.SaveBasicProduct(context.Background(), testFields())
		assert.ErrorIs(t, err, integration.ErrRemoteRejected)
		assert.Equal(t, int32(1), stub.logins.Load())
		assert.Equal(t, int32(1), stub.saves.Load())

		var remoteErr *RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, "PROD_CD duplicated", remoteErr.Message)
	})

	t.Run("malformed save response", func(t *testing.T) {
		stub := newEcountStub(t, `<html>gateway error</html>`)
		adapter := stub.adapter(t)

		_, err := adapter.SaveBasicProduct(context.Background(), testFields())
		assert.ErrorIs(t, err, integration.ErrInvalidResponse)
	})

	t.Run("slow remote maps to a timeout error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			io.WriteString(w, stubLoginOK)
		}))
		t.Cleanup(server.Close)

		config := NewEcountConfig("123456", "apiuser", "cert-key", "CC")
		config.BaseURL = server.URL
		config.Timeout = 20 * time.Millisecond
		adapter, err := NewEcountAdapter(config, zap.NewNop())
		require.NoError(t, err)

		_, err = adapter.SaveBasicProduct(context.Background(), testFields())
		assert.ErrorIs(t, err, integration.ErrRequestTimeout)
	})

	t.Run("unreachable remote maps to unavailable", func(t *testing.T) {
		config := NewEcountConfig("123456", "apiuser", "cert-key", "CC")
		config.BaseURL = "http://127.0.0.1:1"
		adapter, err := NewEcountAdapter(config, zap.NewNop())
		require.NoError(t, err)

		_, err = adapter.SaveBasicProduct(context.Background(), testFields())
		assert.ErrorIs(t, err, integration.ErrErpUnavailable)
	})
}

func TestEcountAdapter_Login(t *testing.T) {
	t.Run("missing session ID fails the login", func(t *testing.T) {
		stub := newEcountStub(t, stubSaveOK)
		stub.loginBody = `{"Status":"200","Data":{}}`
		adapter := stub.adapter(t)

		_, err := adapter.SaveBasicProduct(context.Background(), testFields())
		assert.ErrorIs(t, err, integration.ErrLoginFailed)
		assert.Equal(t, int32(0), stub.saves.Load())
	})

	t.Run("login request carries the credentials", func(t *testing.T) {
		var loginBody []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case ecountLoginPath:
				loginBody, _ = io.ReadAll(r.Body)
				io.WriteString(w, stubLoginOK)
			case ecountSavePath:
				io.WriteString(w, stubSaveOK)
			}
		}))
		t.Cleanup(server.Close)

		config := NewEcountConfig("123456", "apiuser", "cert-key", "zone/")
		config.BaseURL = server.URL
		adapter, err := NewEcountAdapter(config, zap.NewNop())
		require.NoError(t, err)

		_, err = adapter.SaveBasicProduct(context.Background(), testFields())
		require.NoError(t, err)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(loginBody, &payload))
		assert.Equal(t, "123456", payload["COM_CODE"])
		assert.Equal(t, "apiuser", payload["USER_ID"])
		assert.Equal(t, "cert-key", payload["API_CERT_KEY"])
		assert.Equal(t, "zone/", payload["ZONE"])
		assert.Equal(t, DefaultLanguage, payload["LAN_TYPE"])
	})
}

func TestMockEcountClient(t *testing.T) {
	client := NewMockEcountClient(zap.NewNop())
	result, err := client.SaveBasicProduct(context.Background(), testFields())
	require.NoError(t, err)
	resp, ok := result.Response.(*EcountSaveResponse)
	require.True(t, ok)
	assert.True(t, resp.IsSuccess())
}
