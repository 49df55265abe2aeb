package kyc

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medisetu/portal-api/internal/config"
	"github.com/medisetu/portal-api/pkg/circuitbreaker"
	"github.com/medisetu/portal-api/pkg/httputil"
	"github.com/medisetu/portal-api/pkg/logger"
	"github.com/medisetu/portal-api/pkg/metrics"
)

// Upstream entity discriminators, fixed by the Aadhaar OKYC API.
const (
	entityOTPRequest    = "in.co.sandbox.kyc.aadhaar.okyc.otp.request"
	entityVerifyRequest = "in.co.sandbox.kyc.aadhaar.okyc.request"
)

// Handler proxies Aadhaar OTP requests to the KYC provider so the API
// credentials never reach the browser. Upstream responses are relayed
// verbatim, status code included.
type Handler struct {
	cfg     config.KYCConfig
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewHandler(cfg config.KYCConfig, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		breaker: circuitbreaker.New(circuitbreaker.Settings{
			Name:        "kyc-upstream",
			MaxFailures: 5,
		}),
		logger:  log,
		metrics: m,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	proxy := r.Group("/proxy/otp")
	{
		proxy.POST("/generate", h.GenerateOTP)
		proxy.POST("/verify", h.VerifyOTP)
	}
}

type generateOTPRequest struct {
	AadhaarNumber string `json:"aadhaar_number" binding:"required"`
}

type verifyOTPRequest struct {
	ReferenceID string `json:"reference_id" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
}

func (h *Handler) GenerateOTP(c *gin.Context) {
	var req generateOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	h.forward(c, "generate", "/kyc/aadhaar/okyc/otp", map[string]interface{}{
		"@entity":        entityOTPRequest,
		"aadhaar_number": req.AadhaarNumber,
		"consent":        "y",
		"reason":         "for kyc",
	})
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	h.forward(c, "verify", "/kyc/aadhaar/okyc/otp/verify", map[string]interface{}{
		"@entity":      entityVerifyRequest,
		"reference_id": req.ReferenceID,
		"otp":          req.OTP,
	})
}

func (h *Handler) forward(c *gin.Context, endpoint, path string, body map[string]interface{}) {
	payload, err := json.Marshal(body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httputil.ErrorBody{Error: "Internal server error"})
		return
	}

	var (
		status   int
		respBody []byte
	)
	err = h.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, h.cfg.BaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("authorization", h.cfg.Authorization)
		req.Header.Set("x-api-key", h.cfg.APIKey)
		req.Header.Set("x-api-version", h.cfg.APIVersion)
		req.Header.Set("content-type", "application/json")

		resp, err := h.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		status = resp.StatusCode
		return nil
	})

	if err != nil {
		h.metrics.KYCUpstreamErrors.Inc()
		if errors.Is(err, circuitbreaker.ErrOpen) {
			c.JSON(http.StatusServiceUnavailable, httputil.ErrorBody{Error: "KYC service temporarily unavailable"})
			return
		}
		h.logger.Error(err, "kyc upstream request failed", "endpoint", endpoint)
		c.JSON(http.StatusBadGateway, httputil.ErrorBody{Error: "Error processing Aadhaar OTP request"})
		return
	}

	h.metrics.KYCRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	c.Data(status, "application/json", respBody)
}
