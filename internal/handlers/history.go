package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"oncology-dashboard/internal/history"
	"oncology-dashboard/internal/models"
	"oncology-dashboard/internal/utils"
)

// HistoryHandler serves the prediction history and its exports.
type HistoryHandler struct {
	History *history.Service
	Now     func() time.Time
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(svc *history.Service) *HistoryHandler {
	return &HistoryHandler{History: svc, Now: time.Now}
}

// HistoryPageView is one history page with its navigation state.
type HistoryPageView struct {
	Count       int                       `json:"count"`
	Page        int                       `json:"page"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
	Results     []models.PredictionRecord `json:"results"`
}

// GetHistory returns one page of predictions.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	pageNum := pageQuery(c)
	page, err := h.History.FetchPage(c.Request.Context(), pageNum)
	if err != nil {
		respondBackendError(c, "fetch predictions", err)
		return
	}
	utils.Success(c, "Predictions fetched successfully", HistoryPageView{
		Count:       page.Count,
		Page:        pageNum,
		HasNext:     page.HasNext(),
		HasPrevious: page.HasPrevious(),
		Results:     page.Results,
	})
}

// ExportPage downloads the requested page as CSV (default) or JSON.
func (h *HistoryHandler) ExportPage(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "json" {
		utils.BadRequest(c, "format must be csv or json")
		return
	}

	page, err := h.History.FetchPage(c.Request.Context(), pageQuery(c))
	if err != nil {
		respondBackendError(c, "fetch predictions", err)
		return
	}

	var body []byte
	if format == "csv" {
		body, err = history.ToCSV(page.Results)
	} else {
		body, err = history.ToJSON(page.Results)
	}
	if err != nil {
		slog.Error("history export failed", "format", format, "error", err)
		utils.InternalServerError(c, "Failed to export predictions")
		return
	}
	h.attach(c, "prediction-history", format, body)
}

// ExportRecord downloads a single prediction from the requested page as
// JSON (default) or CSV.
func (h *HistoryHandler) ExportRecord(c *gin.Context) {
	id, ok := idParam(c, "prediction")
	if !ok {
		return
	}
	format := c.DefaultQuery("format", "json")
	if format != "csv" && format != "json" {
		utils.BadRequest(c, "format must be csv or json")
		return
	}

	page, err := h.History.FetchPage(c.Request.Context(), pageQuery(c))
	if err != nil {
		respondBackendError(c, "fetch predictions", err)
		return
	}
	record, found := history.Find(page.Results, id)
	if !found {
		utils.NotFound(c, "Prediction not found on this page")
		return
	}

	var body []byte
	if format == "csv" {
		body, err = history.ToCSV([]models.PredictionRecord{record})
	} else {
		body, err = history.ToJSON(record)
	}
	if err != nil {
		slog.Error("prediction export failed", "id", id, "format", format, "error", err)
		utils.InternalServerError(c, "Failed to export prediction")
		return
	}
	h.attach(c, fmt.Sprintf("prediction-%d", id), format, body)
}

func (h *HistoryHandler) attach(c *gin.Context, prefix, format string, body []byte) {
	contentType := "text/csv; charset=utf-8"
	if format == "json" {
		contentType = "application/json"
	}
	name := history.Filename(prefix, format, h.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, contentType, body)
}
