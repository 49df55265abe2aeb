package account

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medisetu/portal-api/internal/middleware"
	"github.com/medisetu/portal-api/internal/model"
	"github.com/medisetu/portal-api/internal/service/auth"
	"github.com/medisetu/portal-api/pkg/httputil"
)

// Handler serves the authenticated account's own profile. Profiles are
// re-fetched by the accountId in the verified claims, never rebuilt from
// the claims themselves.
type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/doctor/me", h.DoctorProfile)
	r.GET("/patient/me", h.PatientProfile)
}

func (h *Handler) DoctorProfile(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, httputil.ErrorBody{Error: "missing credentials"})
		return
	}
	if claims.Role != string(model.KindDoctor) {
		c.JSON(http.StatusForbidden, httputil.ErrorBody{Error: "forbidden"})
		return
	}

	doctor, err := h.svc.GetDoctor(c.Request.Context(), claims.AccountID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor.Profile())
}

func (h *Handler) PatientProfile(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, httputil.ErrorBody{Error: "missing credentials"})
		return
	}
	if claims.Role != string(model.KindPatient) {
		c.JSON(http.StatusForbidden, httputil.ErrorBody{Error: "forbidden"})
		return
	}

	patient, err := h.svc.GetPatient(c.Request.Context(), claims.AccountID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient.Profile())
}
