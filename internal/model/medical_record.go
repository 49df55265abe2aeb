package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is owned by a patient account and embedded in it; records
// are not independently addressable. The doctor reference is non-owning:
// the record stores the doctor's identity, the doctor does not track the
// record.
type MedicalRecord struct {
	Date                  time.Time    `json:"date"`
	Diagnosis             string       `json:"diagnosis"`
	Treatment             string       `json:"treatment,omitempty"`
	PrescribedMedications []Medication `json:"prescribedMedications"`
	Doctor                DoctorRef    `json:"doctor"`
}

type Medication struct {
	Name      string `json:"name" binding:"required"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
}

type DoctorRef struct {
	DoctorID   uuid.UUID `json:"doctorId"`
	DoctorName string    `json:"doctorName"`
}

// AddMedicalRecordRequest carries a doctor-authored record for a patient.
type AddMedicalRecordRequest struct {
	Date                  *time.Time   `json:"date"`
	Diagnosis             string       `json:"diagnosis" binding:"required"`
	Treatment             string       `json:"treatment"`
	PrescribedMedications []Medication `json:"prescribedMedications" binding:"dive"`
}
