package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"oncology-dashboard/internal/models"
)

func pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": []string{strconv.Itoa(page)}}
}

func itemPath(base string, id int64) string {
	return base + strconv.FormatInt(id, 10) + "/"
}

// Patients

// ListPatients returns one page of patients.
func (c *Client) ListPatients(ctx context.Context, page int) (*models.Page[models.Patient], error) {
	var res models.Page[models.Patient]
	if err := c.do(ctx, http.MethodGet, PatientsPath, pageParams(page), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetPatient returns a single patient.
func (c *Client) GetPatient(ctx context.Context, id int64) (*models.Patient, error) {
	var res models.Patient
	if err := c.do(ctx, http.MethodGet, itemPath(PatientsPath, id), nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreatePatient creates a new patient.
func (c *Client) CreatePatient(ctx context.Context, req models.PatientRequest) (*models.Patient, error) {
	var res models.Patient
	if err := c.do(ctx, http.MethodPost, PatientsPath, nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdatePatient replaces every field of the patient.
func (c *Client) UpdatePatient(ctx context.Context, id int64, req models.PatientRequest) (*models.Patient, error) {
	var res models.Patient
	if err := c.do(ctx, http.MethodPut, itemPath(PatientsPath, id), nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// PatchPatient updates only the fields set in patch.
func (c *Client) PatchPatient(ctx context.Context, id int64, patch models.PatientPatch) (*models.Patient, error) {
	var res models.Patient
	if err := c.do(ctx, http.MethodPatch, itemPath(PatientsPath, id), nil, patch, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeletePatient deletes a patient.
func (c *Client) DeletePatient(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath(PatientsPath, id), nil, nil, nil)
}

// Doctors

// ListDoctors returns one page of doctors.
func (c *Client) ListDoctors(ctx context.Context, page int) (*models.Page[models.Doctor], error) {
	var res models.Page[models.Doctor]
	if err := c.do(ctx, http.MethodGet, DoctorsPath, pageParams(page), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func doctorFields(form models.DoctorForm, withUser bool) map[string]string {
	fields := map[string]string{
		"specialization": form.Specialization,
		"hospital":       form.Hospital,
		"contact":        form.Contact,
		"bio":            form.Bio,
	}
	if withUser {
		fields["user"] = strconv.FormatInt(form.User, 10)
	}
	return fields
}

func profileImage(image *models.Upload) []models.Upload {
	if image == nil {
		return nil
	}
	up := *image
	up.FieldName = "profile_image"
	return []models.Upload{up}
}

// CreateDoctor creates a doctor profile for an existing account. The
// profile image is optional.
func (c *Client) CreateDoctor(ctx context.Context, form models.DoctorForm, image *models.Upload) (*models.Doctor, error) {
	body, err := newMultipart(doctorFields(form, true), profileImage(image)...)
	if err != nil {
		return nil, err
	}
	var res models.Doctor
	if err := c.do(ctx, http.MethodPost, DoctorsPath, nil, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateDoctor patches a doctor profile; the linked account cannot change.
func (c *Client) UpdateDoctor(ctx context.Context, id int64, form models.DoctorForm, image *models.Upload) (*models.Doctor, error) {
	body, err := newMultipart(doctorFields(form, false), profileImage(image)...)
	if err != nil {
		return nil, err
	}
	var res models.Doctor
	if err := c.do(ctx, http.MethodPatch, itemPath(DoctorsPath, id), nil, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteDoctor deletes a doctor profile.
func (c *Client) DeleteDoctor(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath(DoctorsPath, id), nil, nil, nil)
}

// Users

// ListUsers returns the accounts list. The backend answers either a page
// envelope or a bare array; both are accepted.
func (c *Client) ListUsers(ctx context.Context) (*models.Page[models.UserAccount], error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, UsersPath, nil, nil, &raw); err != nil {
		return nil, err
	}

	var page models.Page[models.UserAccount]
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &page.Results); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, UsersPath, err)
		}
		page.Count = len(page.Results)
		return &page, nil
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, UsersPath, err)
	}
	if page.Count == 0 {
		page.Count = len(page.Results)
	}
	return &page, nil
}

// CreateUser creates a new user account.
func (c *Client) CreateUser(ctx context.Context, req models.UserRequest) (*models.UserAccount, error) {
	var res models.UserAccount
	if err := c.do(ctx, http.MethodPost, UsersPath, nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateUser updates a user account. An empty password is left unchanged.
func (c *Client) UpdateUser(ctx context.Context, id string, req models.UserUpdate) (*models.UserAccount, error) {
	var res models.UserAccount
	if err := c.do(ctx, http.MethodPatch, UsersPath+url.PathEscape(id)+"/", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteUser deletes a user account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, UsersPath+url.PathEscape(id)+"/", nil, nil, nil)
}

// RegisterUser registers an account through the admin registration endpoint.
func (c *Client) RegisterUser(ctx context.Context, req models.UserRequest) (*models.UserAccount, error) {
	var res models.UserAccount
	if err := c.do(ctx, http.MethodPost, RegisterPath, nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Predictions

// PredictionHistory fetches one page of stored predictions.
func (c *Client) PredictionHistory(ctx context.Context, page int) (*models.PredictionHistoryPage, error) {
	var res models.PredictionHistoryPage
	if err := c.do(ctx, http.MethodGet, PredictionsPath, pageParams(page), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
