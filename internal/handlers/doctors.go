package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"oncology-dashboard/internal/apiclient"
	"oncology-dashboard/internal/models"
	"oncology-dashboard/internal/utils"
)

// DoctorHandler handles doctor management.
type DoctorHandler struct {
	Client         *apiclient.Client
	MaxUploadBytes int64
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(client *apiclient.Client, maxUploadBytes int64) *DoctorHandler {
	return &DoctorHandler{Client: client, MaxUploadBytes: maxUploadBytes}
}

// GetDoctors lists one page of doctors.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	page, err := h.Client.ListDoctors(c.Request.Context(), pageQuery(c))
	if err != nil {
		respondBackendError(c, "fetch doctors", err)
		return
	}
	utils.Success(c, "Doctors fetched successfully", page)
}

// bindDoctorForm reads the multipart doctor form and its optional profile
// image. It answers the request itself on failure.
func (h *DoctorHandler) bindDoctorForm(c *gin.Context) (models.DoctorForm, *models.Upload, bool) {
	limitBody(c, h.MaxUploadBytes)

	var form models.DoctorForm
	if err := c.ShouldBind(&form); err != nil {
		if errors.Is(uploadError(err), errUploadTooLarge) {
			utils.RequestEntityTooLarge(c, "Profile image is too large")
			return form, nil, false
		}
		utils.BadRequest(c, "Validation failed: "+utils.FormatValidationError(err))
		return form, nil, false
	}

	image, err := readUpload(c, "profile_image")
	if errors.Is(err, errUploadTooLarge) {
		utils.RequestEntityTooLarge(c, "Profile image is too large")
		return form, nil, false
	}
	if err != nil {
		utils.BadRequest(c, "Invalid profile image: "+err.Error())
		return form, nil, false
	}
	return form, image, true
}

// CreateDoctor creates a doctor profile for an existing account.
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	form, image, ok := h.bindDoctorForm(c)
	if !ok {
		return
	}
	if form.User < 1 {
		utils.BadRequest(c, "Validation failed: User is required")
		return
	}
	doc, err := h.Client.CreateDoctor(c.Request.Context(), form, image)
	if err != nil {
		respondBackendError(c, "create doctor", err)
		return
	}
	utils.Created(c, "Doctor created successfully", doc)
}

// UpdateDoctor updates a doctor profile.
func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	id, ok := idParam(c, "doctor")
	if !ok {
		return
	}
	form, image, ok := h.bindDoctorForm(c)
	if !ok {
		return
	}
	doc, err := h.Client.UpdateDoctor(c.Request.Context(), id, form, image)
	if err != nil {
		respondBackendError(c, "update doctor", err)
		return
	}
	utils.Success(c, "Doctor updated successfully", doc)
}

// DeleteDoctor removes a doctor profile.
func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	id, ok := idParam(c, "doctor")
	if !ok {
		return
	}
	if err := h.Client.DeleteDoctor(c.Request.Context(), id); err != nil {
		respondBackendError(c, "delete doctor", err)
		return
	}
	utils.Success(c, "Doctor deleted successfully", nil)
}
