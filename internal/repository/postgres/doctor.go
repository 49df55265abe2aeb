package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medisetu/portal-api/internal/model"
	"github.com/medisetu/portal-api/internal/repository"
)

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, full_name, email, password_hash, specialization,
			hospital, license_number, contact_number, address, role,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = doctor.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.FullName,
		doctor.Email,
		doctor.PasswordHash,
		doctor.Specialization,
		doctor.Hospital,
		doctor.LicenseNumber,
		doctor.ContactNumber,
		doctor.Address,
		doctor.Role,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err := translateErr(err); err != nil {
		if err == repository.ErrDuplicateEmail || err == repository.ErrDuplicateLicense {
			return err
		}
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT * FROM doctors WHERE id = $1`

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		if err := translateErr(err); err == repository.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	query := `SELECT * FROM doctors WHERE email = $1`

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, email); err != nil {
		if err := translateErr(err); err == repository.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get doctor by email: %w", err)
	}
	return &doctor, nil
}
