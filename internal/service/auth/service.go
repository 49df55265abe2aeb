package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/medisetu/portal-api/internal/email"
	"github.com/medisetu/portal-api/internal/model"
	"github.com/medisetu/portal-api/internal/repository"
	"github.com/medisetu/portal-api/internal/service/event"
	"github.com/medisetu/portal-api/pkg/auth"
	apperrors "github.com/medisetu/portal-api/pkg/errors"
	"github.com/medisetu/portal-api/pkg/logger"
	"github.com/medisetu/portal-api/pkg/security"
)

const signinMessage = "Sign-in successful"

// Service orchestrates signup and signin for both account kinds. Each
// request is authenticated independently; accounts carry no auth state.
type Service struct {
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	hasher   security.PasswordHasher
	tokens   auth.TokenService
	events   event.Publisher
	emails   email.Service
	logger   *logger.Logger
}

func NewService(
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	hasher security.PasswordHasher,
	tokens auth.TokenService,
	events event.Publisher,
	emails email.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		doctors:  doctors,
		patients: patients,
		hasher:   hasher,
		tokens:   tokens,
		events:   events,
		emails:   emails,
		logger:   log,
	}
}

func (s *Service) SignupDoctor(ctx context.Context, req *model.DoctorSignupRequest) (*model.AuthResult, error) {
	// Fast path only; the unique index is the authoritative guard.
	if _, err := s.doctors.GetByEmail(ctx, req.Email); err == nil {
		return nil, duplicateErr(model.KindDoctor)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	doctor := &model.Doctor{
		FullName:       req.FullName,
		Email:          req.Email,
		PasswordHash:   hash,
		Specialization: req.Specialization,
		Hospital:       req.Hospital,
		LicenseNumber:  req.LicenseNumber,
		ContactNumber:  req.ContactNumber,
		Address:        req.Address,
		Role:           string(model.KindDoctor),
	}

	if err := s.doctors.Create(ctx, doctor); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, duplicateErr(model.KindDoctor)
		case errors.Is(err, repository.ErrDuplicateLicense):
			return nil, apperrors.Duplicate("Doctor with the same license number already exists")
		}
		return nil, apperrors.Internal(err)
	}

	token, err := s.tokens.Issue(doctor.ID, doctor.FullName, doctor.Email, doctor.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.afterSignup(ctx, doctor.ID, doctor.FullName, doctor.Email, model.KindDoctor)

	return &model.AuthResult{Account: doctor.Profile(), Token: token}, nil
}

func (s *Service) SigninDoctor(ctx context.Context, req *model.SigninRequest) (*model.SigninResult, error) {
	doctor, err := s.doctors.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr(model.KindDoctor)
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.verifyPassword(req.Password, doctor.PasswordHash); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(doctor.ID, doctor.FullName, doctor.Email, doctor.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.emitEvent(ctx, model.EventAccountSignin, doctor.ID, doctor.Email, model.KindDoctor)

	return &model.SigninResult{
		Message: signinMessage,
		Token:   token,
		Profile: doctor.Profile(),
	}, nil
}

func (s *Service) SignupPatient(ctx context.Context, req *model.PatientSignupRequest) (*model.AuthResult, error) {
	if _, err := s.patients.GetByEmail(ctx, req.Email); err == nil {
		return nil, duplicateErr(model.KindPatient)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	patient := &model.Patient{
		FullName:      req.FullName,
		Email:         req.Email,
		PasswordHash:  hash,
		Age:           req.Age,
		Gender:        req.Gender,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
		Role:          string(model.KindPatient),
	}

	if err := s.patients.Create(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, duplicateErr(model.KindPatient)
		}
		return nil, apperrors.Internal(err)
	}

	token, err := s.tokens.Issue(patient.ID, patient.FullName, patient.Email, patient.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.afterSignup(ctx, patient.ID, patient.FullName, patient.Email, model.KindPatient)

	return &model.AuthResult{Account: patient.Profile(), Token: token}, nil
}

func (s *Service) SigninPatient(ctx context.Context, req *model.SigninRequest) (*model.SigninResult, error) {
	patient, err := s.patients.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr(model.KindPatient)
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.verifyPassword(req.Password, patient.PasswordHash); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(patient.ID, patient.FullName, patient.Email, patient.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.emitEvent(ctx, model.EventAccountSignin, patient.ID, patient.Email, model.KindPatient)

	return &model.SigninResult{
		Message: signinMessage,
		Token:   token,
		Profile: patient.Profile(),
	}, nil
}

// GetDoctor re-fetches fresh account data for the accountId carried in
// verified claims.
func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.doctors.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr(model.KindDoctor)
		}
		return nil, apperrors.Internal(err)
	}
	return doctor, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr(model.KindPatient)
		}
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, security.ErrEmptyPassword) {
			return "", apperrors.Validation("password must not be empty")
		}
		return "", apperrors.Internal(err)
	}
	return hash, nil
}

func (s *Service) verifyPassword(password, hash string) error {
	ok, err := s.hasher.Verify(password, hash)
	if err != nil {
		if errors.Is(err, security.ErrEmptyPassword) {
			return apperrors.Validation("password must not be empty")
		}
		return apperrors.Internal(err)
	}
	if !ok {
		return apperrors.InvalidCredentials("Invalid password")
	}
	return nil
}

// afterSignup runs the ancillary signup effects. Neither a failed event
// write nor a failed welcome mail fails the signup.
func (s *Service) afterSignup(ctx context.Context, id uuid.UUID, name, emailAddr string, kind model.Kind) {
	s.emitEvent(ctx, model.EventAccountSignup, id, emailAddr, kind)

	go func() {
		if err := s.emails.SendWelcome(emailAddr, name); err != nil {
			s.logger.Error(err, "failed to send welcome email")
		}
	}()
}

func (s *Service) emitEvent(ctx context.Context, eventType string, id uuid.UUID, emailAddr string, kind model.Kind) {
	payload := map[string]interface{}{
		"account_id": id,
		"email":      emailAddr,
		"kind":       kind,
	}
	if err := s.events.Emit(ctx, eventType, payload); err != nil {
		s.logger.Error(err, "failed to emit event", "event_type", eventType)
	}
}

func duplicateErr(kind model.Kind) error {
	return apperrors.Duplicate(kind.Label() + " with the same email already exists")
}

func notFoundErr(kind model.Kind) error {
	return apperrors.NotFound(kind.Label() + " not found")
}
