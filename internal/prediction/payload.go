package prediction

import (
	"strconv"

	"oncology-dashboard/internal/models"
)

// TreatmentRequest is the body of a treatment prediction.
type TreatmentRequest struct {
	TreatmentInput
	PatientID any `json:"patient_id"`
	DoctorID  any `json:"doctor_id"`
}

// SurvivalRequest is the body of a survival prediction.
type SurvivalRequest struct {
	SurvivalInput
	PatientID any `json:"patient_id"`
	DoctorID  any `json:"doctor_id"`
}

// TreatmentPayload shapes a treatment form for the predictor endpoint.
func TreatmentPayload(in TreatmentInput, patientID, doctorID string) TreatmentRequest {
	return TreatmentRequest{TreatmentInput: in, PatientID: refValue(patientID), DoctorID: refValue(doctorID)}
}

// SurvivalPayload shapes a survival form for the survival endpoint.
func SurvivalPayload(in SurvivalInput, patientID, doctorID string) SurvivalRequest {
	return SurvivalRequest{SurvivalInput: in, PatientID: refValue(patientID), DoctorID: refValue(doctorID)}
}

// ImageFields shapes an image upload into the multipart fields and the file
// part of the image endpoint.
func ImageFields(in ImageInput, patientID, doctorID string) (map[string]string, []models.Upload) {
	fields := map[string]string{
		"patient_id":      patientID,
		"doctor_id":       doctorID,
		"prediction_type": string(models.PredictionImage),
	}
	return fields, []models.Upload{{FieldName: "image", FileName: in.FileName, Data: in.Data}}
}

// refValue sends numeric ids as integers and anything else as given.
func refValue(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}
