package record

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisetu/portal-api/internal/middleware"
	"github.com/medisetu/portal-api/internal/model"
	"github.com/medisetu/portal-api/internal/repository"
	recordsvc "github.com/medisetu/portal-api/internal/service/record"
	"github.com/medisetu/portal-api/pkg/auth"
	"github.com/medisetu/portal-api/pkg/logger"
)

type memPatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (r *memPatientRepo) Create(_ context.Context, p *model.Patient) error {
	r.patients[p.ID] = p
	return nil
}

func (r *memPatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	if p, ok := r.patients[id]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memPatientRepo) GetByEmail(_ context.Context, _ string) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}

func (r *memPatientRepo) UpdateMedicalRecords(_ context.Context, id uuid.UUID, records json.RawMessage) error {
	p, ok := r.patients[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.MedicalRecordsJSON = records
	return nil
}

type memDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func (r *memDoctorRepo) Create(_ context.Context, d *model.Doctor) error {
	r.doctors[d.ID] = d
	return nil
}

func (r *memDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	if d, ok := r.doctors[id]; ok {
		return d, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memDoctorRepo) GetByEmail(_ context.Context, _ string) (*model.Doctor, error) {
	return nil, repository.ErrNotFound
}

type fixture struct {
	engine  *gin.Engine
	tokens  auth.TokenService
	patient *model.Patient
	doctor  *model.Doctor
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)

	patient := &model.Patient{
		Base:               model.Base{ID: uuid.New()},
		FullName:           "P",
		Email:              "p@x.com",
		Role:               string(model.KindPatient),
		MedicalRecordsJSON: json.RawMessage("[]"),
	}
	doctor := &model.Doctor{
		Base:     model.Base{ID: uuid.New()},
		FullName: "Dr. A",
		Email:    "d@x.com",
		Role:     string(model.KindDoctor),
	}

	patients := &memPatientRepo{patients: map[uuid.UUID]*model.Patient{patient.ID: patient}}
	doctors := &memDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{doctor.ID: doctor}}

	tokens := auth.NewJWTService("test-secret", time.Hour)
	svc := recordsvc.NewService(patients, doctors, logger.NewDiscard())

	engine := gin.New()
	protected := engine.Group("")
	protected.Use(middleware.NewAuthMiddleware(tokens).Authenticate())
	NewHandler(svc).RegisterRoutes(protected)

	return &fixture{engine: engine, tokens: tokens, patient: patient, doctor: doctor}
}

func (f *fixture) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *fixture) doctorToken(t *testing.T) string {
	t.Helper()
	token, err := f.tokens.Issue(f.doctor.ID, f.doctor.FullName, f.doctor.Email, f.doctor.Role)
	require.NoError(t, err)
	return token
}

func (f *fixture) patientToken(t *testing.T) string {
	t.Helper()
	token, err := f.tokens.Issue(f.patient.ID, f.patient.FullName, f.patient.Email, f.patient.Role)
	require.NoError(t, err)
	return token
}

func TestDoctorAddsRecord(t *testing.T) {
	f := newFixture()

	w := f.request(t, http.MethodPost, "/patient/"+f.patient.ID.String()+"/records", f.doctorToken(t), map[string]interface{}{
		"diagnosis": "Hypertension",
		"treatment": "Lifestyle changes",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var rec model.MedicalRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "Hypertension", rec.Diagnosis)
	assert.Equal(t, f.doctor.ID, rec.Doctor.DoctorID)
	assert.Equal(t, "Dr. A", rec.Doctor.DoctorName)
}

func TestPatientCannotAddRecord(t *testing.T) {
	f := newFixture()

	w := f.request(t, http.MethodPost, "/patient/"+f.patient.ID.String()+"/records", f.patientToken(t), map[string]interface{}{
		"diagnosis": "self-diagnosis",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestPatientReadsOwnRecords(t *testing.T) {
	f := newFixture()

	w := f.request(t, http.MethodPost, "/patient/"+f.patient.ID.String()+"/records", f.doctorToken(t), map[string]interface{}{
		"diagnosis": "Hypertension",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.request(t, http.MethodGet, "/patient/"+f.patient.ID.String()+"/records", f.patientToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		MedicalRecords []model.MedicalRecord `json:"medicalRecords"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.MedicalRecords, 1)
	assert.Equal(t, "Hypertension", resp.MedicalRecords[0].Diagnosis)
}

func TestPatientCannotReadOthersRecords(t *testing.T) {
	f := newFixture()

	other := uuid.New()
	w := f.request(t, http.MethodGet, "/patient/"+other.String()+"/records", f.patientToken(t), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestMissingTokenRejected(t *testing.T) {
	f := newFixture()

	w := f.request(t, http.MethodGet, "/patient/"+f.patient.ID.String()+"/records", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
