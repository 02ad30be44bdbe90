package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"oncology-dashboard/internal/apiclient"
	"oncology-dashboard/internal/models"
)

// Poster submits prediction requests to the backend.
type Poster interface {
	PostJSON(ctx context.Context, path string, body, res any) error
	PostMultipart(ctx context.Context, path string, fields map[string]string, uploads []models.Upload, res any) error
}

// State of a submission
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Failure reasons
const (
	ReasonPatientRequired   = "PatientRequired"
	ReasonInvalidInput      = "InvalidInput"
	ReasonRequestFailed     = "RequestFailed"
	ReasonMalformedResponse = "MalformedResponse"
	ReasonSessionExpired    = "SessionExpired"
)

const (
	msgPatientRequired = "Please select a patient before submitting."
	msgGenericFailure  = "Failed to get predictions. Please try again."
	msgSessionExpired  = "Your session has expired. Please sign in again."
)

// Snapshot is the observable state of a workflow.
type Snapshot struct {
	State   State   `json:"state"`
	Seq     uint64  `json:"seq"`
	Result  *Result `json:"result,omitempty"`
	Reason  string  `json:"reason,omitempty"`
	Message string  `json:"message,omitempty"`
	// Err is the underlying failure, kept for the caller and never shown.
	Err error `json:"-"`
}

// Workflow runs prediction submissions for one screen. Only the newest
// submission may change the visible state; older ones finish silently.
type Workflow struct {
	poster Poster

	mu    sync.Mutex
	seq   uint64
	state Snapshot
}

// NewWorkflow creates an idle workflow.
func NewWorkflow(p Poster) *Workflow {
	return &Workflow{poster: p, state: Snapshot{State: StateIdle}}
}

// State returns the current snapshot.
func (w *Workflow) State() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Reset returns the workflow to idle and orphans any submission in flight.
func (w *Workflow) Reset() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seq++
	w.state = Snapshot{State: StateIdle, Seq: w.seq}
	return w.state
}

// Submit validates in, sends it for patientID on behalf of doctorID and
// returns the outcome of this submission. Nothing is sent without a patient
// or with an invalid form.
func (w *Workflow) Submit(ctx context.Context, patientID, doctorID string, in Input) Snapshot {
	seq := w.begin()

	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return w.finish(seq, failed(ReasonPatientRequired, msgPatientRequired, errors.New("no patient selected")))
	}
	if err := Validate(in); err != nil {
		return w.finish(seq, failed(ReasonInvalidInput, err.Error(), err))
	}

	raw, err := w.send(ctx, patientID, doctorID, in)
	if err != nil {
		slog.Warn("prediction request failed", "type", in.Kind(), "patient_id", patientID, "error", err)
		if errors.Is(err, apiclient.ErrSessionExpired) {
			return w.finish(seq, failed(ReasonSessionExpired, msgSessionExpired, err))
		}
		reason := ReasonRequestFailed
		if errors.Is(err, apiclient.ErrMalformedResponse) {
			reason = ReasonMalformedResponse
		}
		return w.finish(seq, failed(reason, msgGenericFailure, err))
	}

	res, err := ParseResult(in.Kind(), raw)
	if err != nil {
		slog.Warn("prediction result rejected", "type", in.Kind(), "error", err)
		return w.finish(seq, failed(ReasonMalformedResponse, msgGenericFailure, err))
	}
	slog.Info("prediction completed", "type", in.Kind(), "patient_id", patientID)
	return w.finish(seq, Snapshot{State: StateSucceeded, Result: res})
}

func (w *Workflow) send(ctx context.Context, patientID, doctorID string, in Input) (json.RawMessage, error) {
	var raw json.RawMessage
	var err error
	switch v := in.(type) {
	case TreatmentInput:
		err = w.poster.PostJSON(ctx, apiclient.TreatmentPredictPath, TreatmentPayload(v, patientID, doctorID), &raw)
	case SurvivalInput:
		err = w.poster.PostJSON(ctx, apiclient.SurvivalPredictPath, SurvivalPayload(v, patientID, doctorID), &raw)
	case ImageInput:
		fields, uploads := ImageFields(v, patientID, doctorID)
		err = w.poster.PostMultipart(ctx, apiclient.ImagePredictPath, fields, uploads, &raw)
	default:
		err = fmt.Errorf("%w: unsupported form %T", ErrInvalidInput, in)
	}
	return raw, err
}

func (w *Workflow) begin() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seq++
	w.state = Snapshot{State: StateSubmitting, Seq: w.seq}
	return w.seq
}

// finish applies outcome only if no newer submission or reset happened since
// seq began.
func (w *Workflow) finish(seq uint64, outcome Snapshot) Snapshot {
	outcome.Seq = seq
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seq == seq {
		w.state = outcome
	}
	return outcome
}

func failed(reason, message string, err error) Snapshot {
	return Snapshot{State: StateFailed, Reason: reason, Message: message, Err: err}
}
