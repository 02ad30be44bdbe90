package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"oncology-dashboard/internal/apiclient"
	"oncology-dashboard/internal/models"
)

type call struct {
	path   string
	body   any
	fields map[string]string
	files  []models.Upload
}

// fakePoster answers every call with reply (or err) and records what was sent.
type fakePoster struct {
	mu    sync.Mutex
	calls []call
	reply string
	err   error
	// gate, when set, blocks each call until a value is received
	gate chan struct{}
}

func (f *fakePoster) record(c call, res any) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	reply, err := f.reply, f.err
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(reply), res)
}

func (f *fakePoster) PostJSON(ctx context.Context, path string, body, res any) error {
	return f.record(call{path: path, body: body}, res)
}

func (f *fakePoster) PostMultipart(ctx context.Context, path string, fields map[string]string, uploads []models.Upload, res any) error {
	return f.record(call{path: path, fields: fields, files: uploads}, res)
}

func (f *fakePoster) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func validSurvival() SurvivalInput {
	return SurvivalInput{
		TreatmentInput:          DefaultTreatmentInput(),
		TMBNonsynonymous:        2.5,
		TypeOfBreastSurgery:     "Mastectomy",
		Cellularity:             "High",
		Pam50ClaudinLowSubtype:  "LumA",
		IntegrativeCluster:      "4ER+",
		PrimaryTumorLaterality:  "Left",
		HistologicSubtype:       "Ductal/NST",
		ThreeGeneClassifier:     "ER+/HER2- Low Prolif",
		Cohort:                  1,
		OverallSurvivalMonths:   140.5,
		RelapseFreeStatusMonths: 120,
	}
}

func TestSubmit_PatientRequired(t *testing.T) {
	poster := &fakePoster{reply: `{"chemotherapy":"Yes","radio_therapy":"Yes","hormone_therapy":"Yes"}`}
	w := NewWorkflow(poster)

	got := w.Submit(context.Background(), "", "3", DefaultTreatmentInput())
	if got.State != StateFailed || got.Reason != ReasonPatientRequired {
		t.Fatalf("Submit() = %+v, want failed(PatientRequired)", got)
	}
	if poster.count() != 0 {
		t.Error("no request may be sent without a patient")
	}
	if w.State().Reason != ReasonPatientRequired {
		t.Errorf("State() = %+v", w.State())
	}
}

func TestSubmit_InvalidInputNeverSends(t *testing.T) {
	poster := &fakePoster{}
	w := NewWorkflow(poster)

	in := DefaultTreatmentInput()
	in.NeoplasmHistologicGrade = 4
	in.BRCA1 = 2
	got := w.Submit(context.Background(), "12", "3", in)
	if got.State != StateFailed || got.Reason != ReasonInvalidInput {
		t.Fatalf("Submit() = %+v, want failed(InvalidInput)", got)
	}
	if !errors.Is(got.Err, ErrInvalidInput) {
		t.Errorf("Err = %v, want ErrInvalidInput", got.Err)
	}
	if poster.count() != 0 {
		t.Error("an invalid form must not be sent")
	}
}

func TestSubmit_Treatment(t *testing.T) {
	poster := &fakePoster{reply: `{"chemotherapy":"Yes","radio_therapy":"No","hormone_therapy":"Yes"}`}
	w := NewWorkflow(poster)

	got := w.Submit(context.Background(), "12", "3", DefaultTreatmentInput())
	if got.State != StateSucceeded {
		t.Fatalf("Submit() = %+v", got)
	}
	if poster.calls[0].path != apiclient.TreatmentPredictPath {
		t.Errorf("path = %q", poster.calls[0].path)
	}

	recs := got.Result.Treatment.Recommendations()
	if len(recs) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(recs))
	}
	notRecommended := 0
	for _, r := range recs {
		if r.Label == "Not Recommended" {
			notRecommended++
			if r.Therapy != "Radio Therapy" {
				t.Errorf("%s marked not recommended", r.Therapy)
			}
		}
	}
	if notRecommended != 1 {
		t.Errorf("%d cards marked Not Recommended, want exactly 1", notRecommended)
	}
}

func TestSubmit_Survival(t *testing.T) {
	poster := &fakePoster{reply: `{"prediction":"Living","probability":0.82}`}
	w := NewWorkflow(poster)

	got := w.Submit(context.Background(), "12", "3", validSurvival())
	if got.State != StateSucceeded {
		t.Fatalf("Submit() = %+v (%v)", got, got.Err)
	}
	if got.Result.Survival.Prediction != "Living" || got.Result.Survival.Probability != 0.82 {
		t.Errorf("result = %+v", got.Result.Survival)
	}
	if poster.calls[0].path != apiclient.SurvivalPredictPath {
		t.Errorf("path = %q", poster.calls[0].path)
	}
}

func TestSubmit_Image(t *testing.T) {
	poster := &fakePoster{reply: `{"prediction":"malignant","confidence":0.91}`}
	w := NewWorkflow(poster)

	got := w.Submit(context.Background(), "12", "3", ImageInput{FileName: "scan.png", Data: []byte{0x89, 'P', 'N', 'G'}})
	if got.State != StateSucceeded || got.Result.Image.Confidence != 0.91 {
		t.Fatalf("Submit() = %+v (%v)", got, got.Err)
	}
	c := poster.calls[0]
	if c.path != apiclient.ImagePredictPath || c.fields["prediction_type"] != "image" || c.fields["patient_id"] != "12" {
		t.Errorf("call = %+v", c)
	}
	if len(c.files) != 1 || c.files[0].FieldName != "image" || c.files[0].FileName != "scan.png" {
		t.Errorf("files = %+v", c.files)
	}
}

func TestSubmit_Failures(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		err    error
		reason string
	}{
		{"server error", "", &apiclient.APIError{StatusCode: 500}, ReasonRequestFailed},
		{"bad request", "", &apiclient.APIError{StatusCode: 400}, ReasonRequestFailed},
		{"network", "", errors.New("connection refused"), ReasonRequestFailed},
		{"undecodable", "", fmt.Errorf("%w: eof", apiclient.ErrMalformedResponse), ReasonMalformedResponse},
		{"missing therapy", `{"chemotherapy":"Yes","radio_therapy":"No"}`, nil, ReasonMalformedResponse},
		{"not yes or no", `{"chemotherapy":"Maybe","radio_therapy":"No","hormone_therapy":"Yes"}`, nil, ReasonMalformedResponse},
		{"session expired", "", fmt.Errorf("%w: refresh rejected", apiclient.ErrSessionExpired), ReasonSessionExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorkflow(&fakePoster{reply: tt.reply, err: tt.err})
			got := w.Submit(context.Background(), "12", "3", DefaultTreatmentInput())
			if got.State != StateFailed || got.Reason != tt.reason {
				t.Fatalf("Submit() = %+v, want failed(%s)", got, tt.reason)
			}
			if got.Result != nil {
				t.Error("a failed submission must not carry a result")
			}
			if got.Message == "" {
				t.Error("expected a user-facing message")
			}
		})
	}
}

func TestSubmit_StaleSubmissionDoesNotOverwrite(t *testing.T) {
	poster := &fakePoster{reply: `{"chemotherapy":"Yes","radio_therapy":"No","hormone_therapy":"Yes"}`, gate: make(chan struct{})}
	w := NewWorkflow(poster)

	done := make(chan Snapshot)
	go func() {
		done <- w.Submit(context.Background(), "12", "3", DefaultTreatmentInput())
	}()

	// wait until the submission is in flight, then reset under it
	for w.State().State != StateSubmitting {
	}
	reset := w.Reset()
	close(poster.gate)

	outcome := <-done
	if outcome.State != StateSucceeded {
		t.Fatalf("the orphaned submission should still report its own outcome, got %+v", outcome)
	}
	if got := w.State(); got.State != StateIdle || got.Seq != reset.Seq {
		t.Errorf("State() = %+v, want the reset state", got)
	}
}

func TestReset(t *testing.T) {
	w := NewWorkflow(&fakePoster{reply: `{"prediction":"benign","confidence":0.6}`})
	w.Submit(context.Background(), "12", "3", ImageInput{FileName: "a.png", Data: []byte("x")})
	if w.State().State != StateSucceeded {
		t.Fatalf("State() = %+v", w.State())
	}
	if got := w.Reset(); got.State != StateIdle || got.Result != nil {
		t.Errorf("Reset() = %+v", got)
	}
}

func TestTreatmentPayload(t *testing.T) {
	in := DefaultTreatmentInput()
	first, _ := json.Marshal(TreatmentPayload(in, "12", "3"))
	second, _ := json.Marshal(TreatmentPayload(in, "12", "3"))
	if string(first) != string(second) {
		t.Error("payload shaping must be deterministic")
	}

	var body map[string]any
	if err := json.Unmarshal(first, &body); err != nil {
		t.Fatal(err)
	}
	if len(body) != 23 {
		t.Errorf("payload has %d fields, want 21 clinical fields plus patient and doctor", len(body))
	}
	for _, key := range []string{"age_at_diagnosis", "inferred_menopausal_state", "cdh1", "esr1"} {
		if _, ok := body[key]; !ok {
			t.Errorf("payload is missing %s", key)
		}
	}
	if body["patient_id"] != float64(12) || body["doctor_id"] != float64(3) {
		t.Errorf("numeric ids must be sent as numbers, got %v and %v", body["patient_id"], body["doctor_id"])
	}
}

func TestSurvivalPayload(t *testing.T) {
	b, err := json.Marshal(SurvivalPayload(validSurvival(), "P-12", "3"))
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]any
	if err := json.Unmarshal(b, &body); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"tumor_stage", "overall_survival_months", "relapse_free_status_months", "tmb_nonsynonymous"} {
		if _, ok := body[key]; !ok {
			t.Errorf("payload is missing %s", key)
		}
	}
	if body["patient_id"] != "P-12" {
		t.Errorf("non-numeric ids must be sent as given, got %v", body["patient_id"])
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(DefaultTreatmentInput()); err != nil {
		t.Errorf("default form must be valid: %v", err)
	}
	if err := Validate(validSurvival()); err != nil {
		t.Errorf("survival form must be valid: %v", err)
	}

	bad := DefaultTreatmentInput()
	bad.HER2Status = "Unknown"
	bad.TumorStage = 5
	if err := Validate(bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Validate() = %v, want ErrInvalidInput", err)
	}
	if err := Validate(ImageInput{FileName: "a.png"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty image must be rejected, got %v", err)
	}
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		name    string
		kind    models.PredictionType
		raw     string
		wantErr bool
	}{
		{"treatment lowercase", models.PredictionTreatment, `{"chemotherapy":"yes","radio_therapy":"no","hormone_therapy":"no"}`, false},
		{"survival numeric class", models.PredictionSurvival, `{"prediction":1,"probability":0.4}`, false},
		{"survival string probability", models.PredictionSurvival, `{"prediction":"Died","probability":"0.4"}`, false},
		{"survival out of range", models.PredictionSurvival, `{"prediction":"Died","probability":1.4}`, true},
		{"image missing confidence", models.PredictionImage, `{"prediction":"benign"}`, true},
		{"image null prediction", models.PredictionImage, `{"prediction":null,"confidence":0.5}`, true},
		{"not json", models.PredictionImage, `<html>`, true},
		{"unknown type", models.PredictionType("x"), `{}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResult(tt.kind, []byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseResult() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedResult) {
				t.Errorf("error must wrap ErrMalformedResult, got %v", err)
			}
		})
	}
}
