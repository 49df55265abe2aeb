package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/medisetu/portal-api/internal/model"
)

// Sentinel errors translated by services into client-facing failures.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateEmail   = errors.New("duplicate email")
	ErrDuplicateLicense = errors.New("duplicate license number")
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByEmail(ctx context.Context, email string) (*model.Patient, error)
	UpdateMedicalRecords(ctx context.Context, id uuid.UUID, records json.RawMessage) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
}
