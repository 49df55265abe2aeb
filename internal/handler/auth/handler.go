package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medisetu/portal-api/internal/model"
	"github.com/medisetu/portal-api/internal/service/auth"
	apperrors "github.com/medisetu/portal-api/pkg/errors"
	"github.com/medisetu/portal-api/pkg/httputil"
	"github.com/medisetu/portal-api/pkg/metrics"
)

type Handler struct {
	svc     *auth.Service
	metrics *metrics.Metrics
}

func NewHandler(svc *auth.Service, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctor := r.Group("/doctor")
	{
		doctor.POST("/signup", h.DoctorSignup)
		doctor.POST("/signin", h.DoctorSignin)
	}

	patient := r.Group("/patient")
	{
		patient.POST("/signup", h.PatientSignup)
		patient.POST("/signin", h.PatientSignin)
	}
}

func (h *Handler) DoctorSignup(c *gin.Context) {
	var req model.DoctorSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	result, err := h.svc.SignupDoctor(c.Request.Context(), &req)
	if err != nil {
		h.countFailure(model.KindDoctor, err)
		httputil.RespondWithError(c, err)
		return
	}

	h.metrics.SignupsTotal.WithLabelValues(string(model.KindDoctor)).Inc()
	c.JSON(http.StatusOK, result)
}

func (h *Handler) DoctorSignin(c *gin.Context) {
	var req model.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	result, err := h.svc.SigninDoctor(c.Request.Context(), &req)
	if err != nil {
		h.countFailure(model.KindDoctor, err)
		httputil.RespondWithError(c, err)
		return
	}

	h.metrics.SigninsTotal.WithLabelValues(string(model.KindDoctor)).Inc()
	c.JSON(http.StatusOK, result)
}

func (h *Handler) PatientSignup(c *gin.Context) {
	var req model.PatientSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	result, err := h.svc.SignupPatient(c.Request.Context(), &req)
	if err != nil {
		h.countFailure(model.KindPatient, err)
		httputil.RespondWithError(c, err)
		return
	}

	h.metrics.SignupsTotal.WithLabelValues(string(model.KindPatient)).Inc()
	c.JSON(http.StatusOK, result)
}

func (h *Handler) PatientSignin(c *gin.Context) {
	var req model.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	result, err := h.svc.SigninPatient(c.Request.Context(), &req)
	if err != nil {
		h.countFailure(model.KindPatient, err)
		httputil.RespondWithError(c, err)
		return
	}

	h.metrics.SigninsTotal.WithLabelValues(string(model.KindPatient)).Inc()
	c.JSON(http.StatusOK, result)
}

func (h *Handler) countFailure(kind model.Kind, err error) {
	reason := "internal"
	if appErr, ok := apperrors.As(err); ok {
		switch appErr.Code {
		case apperrors.ErrDuplicate:
			reason = "duplicate"
		case apperrors.ErrNotFound:
			reason = "not_found"
		case apperrors.ErrInvalidCredentials:
			reason = "invalid_credentials"
		case apperrors.ErrValidation:
			reason = "validation"
		}
	}
	h.metrics.AuthFailuresTotal.WithLabelValues(string(kind), reason).Inc()
}
