package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medisetu/portal-api/internal/model"
	"github.com/medisetu/portal-api/internal/repository"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, full_name, email, password_hash, age, gender,
			contact_number, address, role, medical_records,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt
	if patient.MedicalRecordsJSON == nil {
		patient.MedicalRecordsJSON = json.RawMessage("[]")
	}

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.FullName,
		patient.Email,
		patient.PasswordHash,
		patient.Age,
		patient.Gender,
		patient.ContactNumber,
		patient.Address,
		patient.Role,
		patient.MedicalRecordsJSON,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err := translateErr(err); err != nil {
		if err == repository.ErrDuplicateEmail {
			return err
		}
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		if err := translateErr(err); err == repository.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE email = $1`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, email); err != nil {
		if err := translateErr(err); err == repository.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get patient by email: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) UpdateMedicalRecords(ctx context.Context, id uuid.UUID, records json.RawMessage) error {
	query := `
		UPDATE patients
		SET medical_records = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, records, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update medical records: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
