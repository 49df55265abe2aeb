package record

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medisetu/portal-api/internal/middleware"
	"github.com/medisetu/portal-api/internal/model"
	"github.com/medisetu/portal-api/internal/service/record"
	"github.com/medisetu/portal-api/pkg/httputil"
)

// Handler serves the medical records embedded in a patient account.
// Writes are doctor-only; reads are open to any doctor and to the
// patient who owns them.
type Handler struct {
	svc *record.Service
}

func NewHandler(svc *record.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/patient/:id/records", h.AddRecord)
	r.GET("/patient/:id/records", h.ListRecords)
}

func (h *Handler) AddRecord(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, httputil.ErrorBody{Error: "missing credentials"})
		return
	}
	if claims.Role != string(model.KindDoctor) {
		c.JSON(http.StatusForbidden, httputil.ErrorBody{Error: "only doctors can add medical records"})
		return
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httputil.ErrorBody{Error: "invalid patient id"})
		return
	}

	var req model.AddMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	rec, err := h.svc.AddRecord(c.Request.Context(), patientID, claims.AccountID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListRecords(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, httputil.ErrorBody{Error: "missing credentials"})
		return
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httputil.ErrorBody{Error: "invalid patient id"})
		return
	}

	// Doctors may read any patient's history; patients only their own.
	if claims.Role != string(model.KindDoctor) && claims.AccountID != patientID {
		c.JSON(http.StatusForbidden, httputil.ErrorBody{Error: "forbidden"})
		return
	}

	records, err := h.svc.ListRecords(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"medicalRecords": records})
}
