package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Patient is a stored patient account with its embedded medical records.
// Records persist as a JSON document column; the record service decodes
// MedicalRecordsJSON into []MedicalRecord when it reads or appends.
type Patient struct {
	Base
	FullName           string          `json:"fullName" db:"full_name"`
	Email              string          `json:"email" db:"email"`
	PasswordHash       string          `json:"-" db:"password_hash"`
	Age                int             `json:"age" db:"age"`
	Gender             string          `json:"gender" db:"gender"`
	ContactNumber      string          `json:"contactNumber" db:"contact_number"`
	Address            string          `json:"address" db:"address"`
	Role               string          `json:"role" db:"role"`
	MedicalRecordsJSON json.RawMessage `json:"-" db:"medical_records"`
}

// PatientProfile is the public view returned to clients.
type PatientProfile struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	Age           int       `json:"age"`
	Gender        string    `json:"gender"`
	ContactNumber string    `json:"contactNumber"`
	Address       string    `json:"address"`
	Role          string    `json:"role"`
}

func (p *Patient) Profile() *PatientProfile {
	return &PatientProfile{
		ID:            p.ID,
		FullName:      p.FullName,
		Email:         p.Email,
		Age:           p.Age,
		Gender:        p.Gender,
		ContactNumber: p.ContactNumber,
		Address:       p.Address,
		Role:          p.Role,
	}
}

// PatientSignupRequest carries the fields required to register a patient.
type PatientSignupRequest struct {
	FullName      string `json:"fullName" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required"`
	Age           int    `json:"age" binding:"required,gt=0"`
	Gender        string `json:"gender" binding:"required,oneof=Male Female Other"`
	ContactNumber string `json:"contactNumber" binding:"required"`
	Address       string `json:"address" binding:"required"`
}
