package models

import "encoding/json"

// PredictionType discriminates the three prediction variants
type PredictionType string

const (
	PredictionTreatment PredictionType = "treatment"
	PredictionSurvival  PredictionType = "survival"
	PredictionImage     PredictionType = "image"
)

// Label is the human name of the prediction type used in listings and exports.
func (t PredictionType) Label() string {
	switch t {
	case PredictionTreatment:
		return "Treatment"
	case PredictionSurvival:
		return "Survival"
	case PredictionImage:
		return "Image Analysis"
	}
	return string(t)
}

// PatientSummary is the patient display block embedded in a history record.
type PatientSummary struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Age    int    `json:"age"`
}

// DoctorSummary is the doctor display block embedded in a history record.
type DoctorSummary struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

// PredictionRecord is one stored prediction as listed by the history endpoint
type PredictionRecord struct {
	ID             int64           `json:"id"`
	PredictionType PredictionType  `json:"prediction_type"`
	InputData      json.RawMessage `json:"input_data,omitempty"`
	Result         json.RawMessage `json:"result,omitempty"`
	Notes          *string         `json:"notes"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at,omitempty"`
	PatientDetails PatientSummary  `json:"patient_details"`
	DoctorDetails  DoctorSummary   `json:"doctor_details"`
}

// PredictionHistoryPage is one server-paginated slice of prediction records.
type PredictionHistoryPage = Page[PredictionRecord]
