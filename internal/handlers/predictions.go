package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"oncology-dashboard/internal/gate"
	"oncology-dashboard/internal/middleware"
	"oncology-dashboard/internal/models"
	"oncology-dashboard/internal/prediction"
	"oncology-dashboard/internal/utils"
)

// PredictionHandler runs the three prediction screens. Each screen keeps one
// workflow, so its last outcome survives until it is reset.
type PredictionHandler struct {
	Workflows      map[models.PredictionType]*prediction.Workflow
	MaxUploadBytes int64
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(poster prediction.Poster, maxUploadBytes int64) *PredictionHandler {
	return &PredictionHandler{
		Workflows: map[models.PredictionType]*prediction.Workflow{
			models.PredictionTreatment: prediction.NewWorkflow(poster),
			models.PredictionSurvival:  prediction.NewWorkflow(poster),
			models.PredictionImage:     prediction.NewWorkflow(poster),
		},
		MaxUploadBytes: maxUploadBytes,
	}
}

// patientRef accepts a patient id sent as a string or a number.
type patientRef string

func (p *patientRef) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = patientRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = patientRef(n.String())
	return nil
}

type treatmentSubmission struct {
	PatientID patientRef `json:"patient_id"`
	prediction.TreatmentInput
}

type survivalSubmission struct {
	PatientID patientRef `json:"patient_id"`
	prediction.SurvivalInput
}

// PredictionView is a workflow snapshot as shown on screen.
type PredictionView struct {
	prediction.Snapshot
	Recommendations []prediction.Recommendation `json:"recommendations,omitempty"`
}

func viewOf(snap prediction.Snapshot) PredictionView {
	v := PredictionView{Snapshot: snap}
	if snap.Result != nil && snap.Result.Treatment != nil {
		v.Recommendations = snap.Result.Treatment.Recommendations()
	}
	return v
}

// bindForm decodes a JSON prediction form. Range violations are left for the
// workflow to reject so they show up in its state.
func bindForm(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	var verrs validator.ValidationErrors
	if err != nil && !errors.As(err, &verrs) {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}

func doctorID(c *gin.Context) string {
	id, _ := middleware.GetUserIDFromContext(c)
	return id
}

// SubmitTreatment handles the treatment recommender form. Fields that are
// left out keep the form's defaults.
func (h *PredictionHandler) SubmitTreatment(c *gin.Context) {
	req := treatmentSubmission{TreatmentInput: prediction.DefaultTreatmentInput()}
	if !bindForm(c, &req) {
		return
	}
	snap := h.Workflows[models.PredictionTreatment].Submit(c.Request.Context(), string(req.PatientID), doctorID(c), req.TreatmentInput)
	respondPrediction(c, snap)
}

// SubmitSurvival handles the survival prediction form.
func (h *PredictionHandler) SubmitSurvival(c *gin.Context) {
	req := survivalSubmission{SurvivalInput: prediction.SurvivalInput{TreatmentInput: prediction.DefaultTreatmentInput()}}
	if !bindForm(c, &req) {
		return
	}
	snap := h.Workflows[models.PredictionSurvival].Submit(c.Request.Context(), string(req.PatientID), doctorID(c), req.SurvivalInput)
	respondPrediction(c, snap)
}

// SubmitImage handles the tumor detection upload (multipart: image,
// patient_id).
func (h *PredictionHandler) SubmitImage(c *gin.Context) {
	limitBody(c, h.MaxUploadBytes)
	if err := c.Request.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		if errors.Is(uploadError(err), errUploadTooLarge) {
			utils.RequestEntityTooLarge(c, "Image is too large")
			return
		}
		utils.BadRequest(c, "Invalid form data: "+err.Error())
		return
	}

	var in prediction.ImageInput
	image, err := readUpload(c, "image")
	if err != nil {
		utils.BadRequest(c, "Invalid image: "+err.Error())
		return
	}
	if image != nil {
		in = prediction.ImageInput{FileName: image.FileName, Data: image.Data}
	}

	snap := h.Workflows[models.PredictionImage].Submit(c.Request.Context(), c.PostForm("patient_id"), doctorID(c), in)
	respondPrediction(c, snap)
}

// GetState returns the current state of a prediction screen.
func (h *PredictionHandler) GetState(kind models.PredictionType) gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.Success(c, "Prediction state fetched successfully", viewOf(h.Workflows[kind].State()))
	}
}

// Reset clears a prediction screen back to idle.
func (h *PredictionHandler) Reset(kind models.PredictionType) gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.Success(c, "Prediction form reset", viewOf(h.Workflows[kind].Reset()))
	}
}

func respondPrediction(c *gin.Context, snap prediction.Snapshot) {
	if snap.State == prediction.StateSucceeded {
		utils.Success(c, "Prediction completed successfully", viewOf(snap))
		return
	}

	status := http.StatusBadGateway
	switch snap.Reason {
	case prediction.ReasonPatientRequired, prediction.ReasonInvalidInput:
		status = http.StatusBadRequest
	case prediction.ReasonSessionExpired:
		status = http.StatusUnauthorized
		c.Header("Location", gate.LoginPath)
	}
	if snap.Err != nil {
		_ = c.Error(snap.Err)
	}
	c.JSON(status, utils.ResponseData{
		Status:  status,
		Message: "Prediction failed",
		Data:    viewOf(snap),
		Error:   snap.Message,
	})
}
