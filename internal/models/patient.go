package models

// PatientStatus represents where a patient is in their care
type PatientStatus string

const (
	PatientActive         PatientStatus = "Active"
	PatientUnderTreatment PatientStatus = "Under Treatment"
	PatientRecovered      PatientStatus = "Recovered"
	PatientCritical       PatientStatus = "Critical"
)

// Patient is the client's read copy of a backend patient record
type Patient struct {
	ID             int64         `json:"id"`
	FirstName      string        `json:"first_name"`
	LastName       string        `json:"last_name"`
	DateOfBirth    string        `json:"date_of_birth"`
	Gender         string        `json:"gender"`
	Contact        string        `json:"contact,omitempty"`
	Email          string        `json:"email,omitempty"`
	Diagnosis      string        `json:"diagnosis,omitempty"`
	Stage          string        `json:"stage,omitempty"`
	Status         PatientStatus `json:"status,omitempty"`
	MedicalHistory string        `json:"medical_history,omitempty"`
	CreatedAt      string        `json:"created_at,omitempty"`
	UpdatedAt      string        `json:"updated_at,omitempty"`
}

// PatientRequest holds the fields for creating or fully replacing a patient.
type PatientRequest struct {
	FirstName      string        `json:"first_name" binding:"required"`
	LastName       string        `json:"last_name" binding:"required"`
	DateOfBirth    string        `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	Gender         string        `json:"gender" binding:"required,oneof=Male Female Other"`
	Contact        string        `json:"contact,omitempty"`
	Email          string        `json:"email,omitempty" binding:"omitempty,email"`
	Diagnosis      string        `json:"diagnosis,omitempty"`
	Stage          string        `json:"stage,omitempty"`
	Status         PatientStatus `json:"status,omitempty" binding:"omitempty,oneof='Active' 'Under Treatment' 'Recovered' 'Critical'"`
	MedicalHistory string        `json:"medical_history,omitempty"`
}

// PatientPatch is a partial patient update. Nil fields are left untouched.
type PatientPatch struct {
	FirstName      *string        `json:"first_name,omitempty"`
	LastName       *string        `json:"last_name,omitempty"`
	DateOfBirth    *string        `json:"date_of_birth,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Gender         *string        `json:"gender,omitempty" binding:"omitempty,oneof=Male Female Other"`
	Contact        *string        `json:"contact,omitempty"`
	Email          *string        `json:"email,omitempty" binding:"omitempty,email"`
	Diagnosis      *string        `json:"diagnosis,omitempty"`
	Stage          *string        `json:"stage,omitempty"`
	Status         *PatientStatus `json:"status,omitempty"`
	MedicalHistory *string        `json:"medical_history,omitempty"`
}
