package model

import "github.com/google/uuid"

// Doctor is a stored doctor account. The password hash never serializes.
type Doctor struct {
	Base
	FullName       string `json:"fullName" db:"full_name"`
	Email          string `json:"email" db:"email"`
	PasswordHash   string `json:"-" db:"password_hash"`
	Specialization string `json:"specialization" db:"specialization"`
	Hospital       string `json:"hospital" db:"hospital"`
	LicenseNumber  string `json:"licenseNumber" db:"license_number"`
	ContactNumber  string `json:"contactNumber" db:"contact_number"`
	Address        string `json:"address" db:"address"`
	Role           string `json:"role" db:"role"`
}

// DoctorProfile is the public view returned to clients.
type DoctorProfile struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Specialization string    `json:"specialization"`
	Hospital       string    `json:"hospital"`
	LicenseNumber  string    `json:"licenseNumber"`
	ContactNumber  string    `json:"contactNumber"`
	Address        string    `json:"address"`
	Role           string    `json:"role"`
}

func (d *Doctor) Profile() *DoctorProfile {
	return &DoctorProfile{
		ID:             d.ID,
		FullName:       d.FullName,
		Email:          d.Email,
		Specialization: d.Specialization,
		Hospital:       d.Hospital,
		LicenseNumber:  d.LicenseNumber,
		ContactNumber:  d.ContactNumber,
		Address:        d.Address,
		Role:           d.Role,
	}
}

// DoctorSignupRequest carries the fields required to register a doctor.
type DoctorSignupRequest struct {
	FullName       string `json:"fullName" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	Hospital       string `json:"hospital" binding:"required"`
	LicenseNumber  string `json:"licenseNumber" binding:"required"`
	ContactNumber  string `json:"contactNumber" binding:"required"`
	Address        string `json:"address" binding:"required"`
}
