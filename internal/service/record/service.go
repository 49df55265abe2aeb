package record

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medisetu/portal-api/internal/model"
	"github.com/medisetu/portal-api/internal/repository"
	apperrors "github.com/medisetu/portal-api/pkg/errors"
	"github.com/medisetu/portal-api/pkg/logger"
)

// Service appends and lists the medical records embedded in a patient
// account. Records are append-only through this API.
type Service struct {
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
	logger   *logger.Logger
}

func NewService(patients repository.PatientRepository, doctors repository.DoctorRepository, log *logger.Logger) *Service {
	return &Service{patients: patients, doctors: doctors, logger: log}
}

// AddRecord appends a doctor-authored record to the patient's history.
// The doctor reference is denormalized into the record at write time.
func (s *Service) AddRecord(ctx context.Context, patientID, doctorID uuid.UUID, req *model.AddMedicalRecordRequest) (*model.MedicalRecord, error) {
	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Doctor not found")
		}
		return nil, apperrors.Internal(err)
	}

	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Patient not found")
		}
		return nil, apperrors.Internal(err)
	}

	records, err := decodeRecords(patient.MedicalRecordsJSON)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	medications := req.PrescribedMedications
	if medications == nil {
		medications = []model.Medication{}
	}

	rec := model.MedicalRecord{
		Date:                  date,
		Diagnosis:             req.Diagnosis,
		Treatment:             req.Treatment,
		PrescribedMedications: medications,
		Doctor: model.DoctorRef{
			DoctorID:   doctor.ID,
			DoctorName: doctor.FullName,
		},
	}

	records = append(records, rec)
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.patients.UpdateMedicalRecords(ctx, patientID, raw); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Patient not found")
		}
		return nil, apperrors.Internal(err)
	}

	return &rec, nil
}

// ListRecords returns the patient's records in creation order.
func (s *Service) ListRecords(ctx context.Context, patientID uuid.UUID) ([]model.MedicalRecord, error) {
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Patient not found")
		}
		return nil, apperrors.Internal(err)
	}

	records, err := decodeRecords(patient.MedicalRecordsJSON)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return records, nil
}

func decodeRecords(raw json.RawMessage) ([]model.MedicalRecord, error) {
	if len(raw) == 0 {
		return []model.MedicalRecord{}, nil
	}
	var records []model.MedicalRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.MedicalRecord{}
	}
	return records, nil
}
