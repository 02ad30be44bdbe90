package history

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"oncology-dashboard/internal/models"
)

// CSVHeader is the fixed column set of a history export.
var CSVHeader = []string{
	"ID", "Type", "Patient Name", "Patient Age", "Patient Gender",
	"Doctor Name", "Doctor Specialization", "Result", "Date", "Notes",
}

// ToCSV writes one row per record, in input order, under CSVHeader.
func ToCSV(records []models.PredictionRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.PredictionType.Label(),
			r.PatientDetails.Name,
			strconv.Itoa(r.PatientDetails.Age),
			r.PatientDetails.Gender,
			r.DoctorDetails.Name,
			r.DoctorDetails.Specialization,
			ResultSummary(r),
			r.CreatedAt,
			notes(r),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write history csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ToJSON renders v (a page or a single record) as indented JSON.
func ToJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to write history json: %w", err)
	}
	return b, nil
}

// Filename names an export file, e.g. prediction-history_2025-06-01_14-30-00.csv.
func Filename(prefix, ext string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, at.Format("2006-01-02_15-04-05"), strings.TrimPrefix(ext, "."))
}

// ResultSummary is the Result cell: every treatment answer as "key: value"
// in key order, otherwise the prediction label.
func ResultSummary(r models.PredictionRecord) string {
	if len(r.Result) == 0 {
		return ""
	}
	var fields map[string]any
	if err := json.Unmarshal(r.Result, &fields); err != nil {
		return string(r.Result)
	}

	if r.PredictionType != models.PredictionTreatment {
		if p, ok := fields["prediction"]; ok && p != nil {
			return fmt.Sprint(p)
		}
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, fields[k]))
	}
	return strings.Join(parts, "; ")
}

func notes(r models.PredictionRecord) string {
	if r.Notes == nil {
		return ""
	}
	return *r.Notes
}
