package kyc

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisetu/portal-api/internal/config"
	"github.com/medisetu/portal-api/pkg/logger"
	"github.com/medisetu/portal-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("kyctest")

func newTestRouter(upstream string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := config.KYCConfig{
		BaseURL:       upstream,
		Authorization: "test-auth",
		APIKey:        "test-key",
		APIVersion:    "2.0",
		Timeout:       5 * time.Second,
	}

	engine := gin.New()
	NewHandler(cfg, logger.NewDiscard(), testMetrics).RegisterRoutes(&engine.RouterGroup)
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestGenerateOTP(t *testing.T) {
	var captured struct {
		path    string
		headers http.Header
		body    map[string]interface{}
	}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.headers = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"transaction_id":"t1","data":{"reference_id":12345}}`))
	}))
	defer upstream.Close()

	engine := newTestRouter(upstream.URL)

	w := postJSON(t, engine, "/proxy/otp/generate", map[string]string{
		"aadhaar_number": "123412341234",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"transaction_id":"t1","data":{"reference_id":12345}}`, w.Body.String())

	assert.Equal(t, "/kyc/aadhaar/okyc/otp", captured.path)
	assert.Equal(t, "test-auth", captured.headers.Get("authorization"))
	assert.Equal(t, "test-key", captured.headers.Get("x-api-key"))
	assert.Equal(t, "2.0", captured.headers.Get("x-api-version"))

	assert.Equal(t, "in.co.sandbox.kyc.aadhaar.okyc.otp.request", captured.body["@entity"])
	assert.Equal(t, "123412341234", captured.body["aadhaar_number"])
	assert.Equal(t, "y", captured.body["consent"])
	assert.Equal(t, "for kyc", captured.body["reason"])
}

func TestVerifyOTP(t *testing.T) {
	var captured map[string]interface{}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/kyc/aadhaar/okyc/otp/verify", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"status":"VALID"}}`))
	}))
	defer upstream.Close()

	engine := newTestRouter(upstream.URL)

	w := postJSON(t, engine, "/proxy/otp/verify", map[string]string{
		"reference_id": "12345",
		"otp":          "654321",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"status":"VALID"}}`, w.Body.String())

	assert.Equal(t, "in.co.sandbox.kyc.aadhaar.okyc.request", captured["@entity"])
	assert.Equal(t, "12345", captured["reference_id"])
	assert.Equal(t, "654321", captured["otp"])
}

func TestUpstreamErrorRelayed(t *testing.T) {
	// Upstream application errors pass through untouched, status included.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Invalid Aadhaar number"}`))
	}))
	defer upstream.Close()

	engine := newTestRouter(upstream.URL)

	w := postJSON(t, engine, "/proxy/otp/generate", map[string]string{
		"aadhaar_number": "0",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"message":"Invalid Aadhaar number"}`, w.Body.String())
}

func TestUpstreamUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	engine := newTestRouter(upstream.URL)

	w := postJSON(t, engine, "/proxy/otp/generate", map[string]string{
		"aadhaar_number": "123412341234",
	})
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Error processing Aadhaar OTP request", resp["error"])
}

func TestMissingAadhaarNumber(t *testing.T) {
	engine := newTestRouter("http://unused")

	w := postJSON(t, engine, "/proxy/otp/generate", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
