package handlers

import (
	"github.com/gin-gonic/gin"

	"oncology-dashboard/internal/apiclient"
	"oncology-dashboard/internal/models"
	"oncology-dashboard/internal/utils"
)

// PatientHandler handles patient management.
type PatientHandler struct {
	Client *apiclient.Client
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(client *apiclient.Client) *PatientHandler {
	return &PatientHandler{Client: client}
}

// GetPatients lists one page of patients.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	page, err := h.Client.ListPatients(c.Request.Context(), pageQuery(c))
	if err != nil {
		respondBackendError(c, "fetch patients", err)
		return
	}
	utils.Success(c, "Patients fetched successfully", page)
}

// GetPatientByID fetches a single patient.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	id, ok := idParam(c, "patient")
	if !ok {
		return
	}
	p, err := h.Client.GetPatient(c.Request.Context(), id)
	if err != nil {
		respondBackendError(c, "fetch patient", err)
		return
	}
	utils.Success(c, "Patient fetched successfully", p)
}

// CreatePatient adds a patient.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req models.PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	p, err := h.Client.CreatePatient(c.Request.Context(), req)
	if err != nil {
		respondBackendError(c, "create patient", err)
		return
	}
	utils.Created(c, "Patient created successfully", p)
}

// UpdatePatient replaces a patient record.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	id, ok := idParam(c, "patient")
	if !ok {
		return
	}
	var req models.PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	p, err := h.Client.UpdatePatient(c.Request.Context(), id, req)
	if err != nil {
		respondBackendError(c, "update patient", err)
		return
	}
	utils.Success(c, "Patient updated successfully", p)
}

// PatchPatient updates some fields of a patient record.
func (h *PatientHandler) PatchPatient(c *gin.Context) {
	id, ok := idParam(c, "patient")
	if !ok {
		return
	}
	var req models.PatientPatch
	if !utils.BindAndValidate(c, &req) {
		return
	}
	p, err := h.Client.PatchPatient(c.Request.Context(), id, req)
	if err != nil {
		respondBackendError(c, "update patient", err)
		return
	}
	utils.Success(c, "Patient updated successfully", p)
}

// DeletePatient removes a patient.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id, ok := idParam(c, "patient")
	if !ok {
		return
	}
	if err := h.Client.DeletePatient(c.Request.Context(), id); err != nil {
		respondBackendError(c, "delete patient", err)
		return
	}
	utils.Success(c, "Patient deleted successfully", nil)
}
