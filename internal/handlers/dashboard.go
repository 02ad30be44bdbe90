package handlers

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"oncology-dashboard/internal/apiclient"
	"oncology-dashboard/internal/history"
	"oncology-dashboard/internal/models"
	"oncology-dashboard/internal/utils"
)

// DashboardHandler serves the admin and doctor dashboards.
type DashboardHandler struct {
	Client *apiclient.Client
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(client *apiclient.Client) *DashboardHandler {
	return &DashboardHandler{Client: client}
}

// AdminStats are the admin dashboard totals.
type AdminStats struct {
	TotalUsers       int `json:"total_users"`
	TotalDoctors     int `json:"total_doctors"`
	TotalPatients    int `json:"total_patients"`
	TotalPredictions int `json:"total_predictions"`
}

// DoctorStats are the doctor dashboard figures. Per-type counts cover the
// first history page only.
type DoctorStats struct {
	TotalPatients        int `json:"total_patients"`
	TotalPredictions     int `json:"total_predictions"`
	TreatmentPredictions int `json:"treatment_predictions"`
	SurvivalPredictions  int `json:"survival_predictions"`
	ImagePredictions     int `json:"image_predictions"`
}

func total[T any](p *models.Page[T]) int {
	if p.Count > 0 {
		return p.Count
	}
	return len(p.Results)
}

// GetAdminStats loads the four totals at once; any failure fails the screen.
func (h *DashboardHandler) GetAdminStats(c *gin.Context) {
	var (
		users       *models.Page[models.UserAccount]
		doctors     *models.Page[models.Doctor]
		patients    *models.Page[models.Patient]
		predictions *models.PredictionHistoryPage
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		users, err = h.Client.ListUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		doctors, err = h.Client.ListDoctors(ctx, 1)
		return err
	})
	g.Go(func() (err error) {
		patients, err = h.Client.ListPatients(ctx, 1)
		return err
	})
	g.Go(func() (err error) {
		predictions, err = h.Client.PredictionHistory(ctx, 1)
		return err
	})
	if err := g.Wait(); err != nil {
		respondBackendError(c, "load dashboard statistics", err)
		return
	}

	utils.Success(c, "Dashboard statistics fetched successfully", AdminStats{
		TotalUsers:       total(users),
		TotalDoctors:     total(doctors),
		TotalPatients:    total(patients),
		TotalPredictions: total(predictions),
	})
}

// GetDoctorStats loads the doctor dashboard figures.
func (h *DashboardHandler) GetDoctorStats(c *gin.Context) {
	var (
		patients    *models.Page[models.Patient]
		predictions *models.PredictionHistoryPage
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		patients, err = h.Client.ListPatients(ctx, 1)
		return err
	})
	g.Go(func() (err error) {
		predictions, err = h.Client.PredictionHistory(ctx, 1)
		return err
	})
	if err := g.Wait(); err != nil {
		respondBackendError(c, "load dashboard statistics", err)
		return
	}

	byType := history.CountByType(predictions.Results)
	utils.Success(c, "Dashboard statistics fetched successfully", DoctorStats{
		TotalPatients:        total(patients),
		TotalPredictions:     total(predictions),
		TreatmentPredictions: byType[models.PredictionTreatment],
		SurvivalPredictions:  byType[models.PredictionSurvival],
		ImagePredictions:     byType[models.PredictionImage],
	})
}
