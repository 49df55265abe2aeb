package model

// Kind discriminates the two account variants. It determines which table
// and field set apply and is fixed at creation.
type Kind string

const (
	KindDoctor  Kind = "doctor"
	KindPatient Kind = "patient"
)

// Label returns the capitalized kind used in client-facing messages
// ("Doctor not found", "Patient with the same email already exists").
func (k Kind) Label() string {
	switch k {
	case KindDoctor:
		return "Doctor"
	case KindPatient:
		return "Patient"
	default:
		return string(k)
	}
}
