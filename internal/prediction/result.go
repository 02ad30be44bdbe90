package prediction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"oncology-dashboard/internal/models"
)

// ErrMalformedResult is returned when a 2xx answer lacks the expected fields.
var ErrMalformedResult = errors.New("malformed prediction result")

// Result is the parsed answer of one prediction. Exactly one of the variant
// fields is set, matching Kind.
type Result struct {
	Kind      models.PredictionType `json:"kind"`
	Treatment *TreatmentResult      `json:"treatment,omitempty"`
	Survival  *SurvivalResult       `json:"survival,omitempty"`
	Image     *ImageResult          `json:"image,omitempty"`
}

// TreatmentResult holds a Yes or No per therapy.
type TreatmentResult struct {
	Chemotherapy   string `json:"chemotherapy"`
	RadioTherapy   string `json:"radio_therapy"`
	HormoneTherapy string `json:"hormone_therapy"`
}

// Recommendation is one therapy card.
type Recommendation struct {
	Therapy     string `json:"therapy"`
	Value       string `json:"value"`
	Recommended bool   `json:"recommended"`
	Label       string `json:"label"`
}

// Recommendations lists chemotherapy, radio therapy and hormone therapy in
// that order.
func (r TreatmentResult) Recommendations() []Recommendation {
	therapies := []struct{ name, value string }{
		{"Chemotherapy", r.Chemotherapy},
		{"Radio Therapy", r.RadioTherapy},
		{"Hormone Therapy", r.HormoneTherapy},
	}
	recs := make([]Recommendation, 0, len(therapies))
	for _, th := range therapies {
		ok := strings.EqualFold(th.value, "yes")
		label := "Not Recommended"
		if ok {
			label = "Recommended"
		}
		recs = append(recs, Recommendation{Therapy: th.name, Value: th.value, Recommended: ok, Label: label})
	}
	return recs
}

// SurvivalResult is the survival class and its probability.
type SurvivalResult struct {
	Prediction  string  `json:"prediction"`
	Probability float64 `json:"probability"`
}

// ImageResult is the tumor class and the model's confidence.
type ImageResult struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// label accepts a prediction given either as a string or as a number.
type label string

func (l *label) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*l = label(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*l = label(n.String())
	return nil
}

// ParseResult decodes a prediction answer for kind. Partial or out of range
// answers are rejected rather than shown.
func ParseResult(kind models.PredictionType, raw []byte) (*Result, error) {
	switch kind {
	case models.PredictionTreatment:
		var body struct {
			Chemotherapy   *string `json:"chemotherapy"`
			RadioTherapy   *string `json:"radio_therapy"`
			HormoneTherapy *string `json:"hormone_therapy"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
		}
		for _, v := range []*string{body.Chemotherapy, body.RadioTherapy, body.HormoneTherapy} {
			if v == nil || !isYesNo(*v) {
				return nil, fmt.Errorf("%w: treatment answer must be Yes or No for every therapy", ErrMalformedResult)
			}
		}
		return &Result{Kind: kind, Treatment: &TreatmentResult{
			Chemotherapy:   *body.Chemotherapy,
			RadioTherapy:   *body.RadioTherapy,
			HormoneTherapy: *body.HormoneTherapy,
		}}, nil

	case models.PredictionSurvival:
		pred, score, err := parseScored(raw, "probability")
		if err != nil {
			return nil, err
		}
		return &Result{Kind: kind, Survival: &SurvivalResult{Prediction: pred, Probability: score}}, nil

	case models.PredictionImage:
		pred, score, err := parseScored(raw, "confidence")
		if err != nil {
			return nil, err
		}
		return &Result{Kind: kind, Image: &ImageResult{Prediction: pred, Confidence: score}}, nil
	}
	return nil, fmt.Errorf("%w: unknown prediction type %q", ErrMalformedResult, kind)
}

func parseScored(raw []byte, scoreField string) (string, float64, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}

	var pred label
	rawPred, ok := body["prediction"]
	if !ok || json.Unmarshal(rawPred, &pred) != nil || pred == "" {
		return "", 0, fmt.Errorf("%w: missing prediction", ErrMalformedResult)
	}

	rawScore, ok := body[scoreField]
	if !ok {
		return "", 0, fmt.Errorf("%w: missing %s", ErrMalformedResult, scoreField)
	}
	score, err := parseScore(rawScore)
	if err != nil || score < 0 || score > 1 {
		return "", 0, fmt.Errorf("%w: %s must be within [0, 1]", ErrMalformedResult, scoreField)
	}
	return string(pred), score, nil
}

func parseScore(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

func isYesNo(v string) bool {
	return strings.EqualFold(v, "yes") || strings.EqualFold(v, "no")
}
