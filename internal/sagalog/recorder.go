package sagalog

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/urbandrive/storefront/pkg/enums"
	"github.com/urbandrive/storefront/pkg/logger"
)

// Recorder persists saga runs and steps. Recording failures are logged
// and swallowed: the step log must never break the flow it documents.
type Recorder struct {
	db   *gorm.DB
	logg *logger.Logger
}

// NewRecorder wires the recorder to a GORM handle.
func NewRecorder(db *gorm.DB, logg *logger.Logger) (*Recorder, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Recorder{db: db, logg: logg}, nil
}

// RunHandle tracks one in-flight run.
type RunHandle struct {
	recorder *Recorder
	runID    string
	seq      int
}

// Begin opens a run row in status running and returns its handle.
func (r *Recorder) Begin(ctx context.Context, kind enums.SagaKind, reservationID, userID int64) *RunHandle {
	run := Run{
		ID:            uuid.NewString(),
		Kind:          kind,
		ReservationID: strconv.FormatInt(reservationID, 10),
		UserID:        strconv.FormatInt(userID, 10),
		Status:        enums.SagaRunStatusRunning,
		StartedAt:     time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&run).Error; err != nil {
		r.logg.Error(ctx, "saga run insert failed", err)
	}
	return &RunHandle{recorder: r, runID: run.ID}
}

// RunID exposes the run identifier for correlation.
func (h *RunHandle) RunID() string {
	if h == nil {
		return ""
	}
	return h.runID
}

// Step records one step outcome.
func (h *RunHandle) Step(ctx context.Context, name string, status enums.SagaStepStatus, detail string) {
	if h == nil || h.recorder == nil {
		return
	}
	h.seq++
	step := Step{
		ID:         uuid.NewString(),
		RunID:      h.runID,
		Seq:        h.seq,
		Name:       name,
		Status:     status,
		Detail:     detail,
		RecordedAt: time.Now().UTC(),
	}
	if err := h.recorder.db.WithContext(ctx).Create(&step).Error; err != nil {
		h.recorder.logg.Error(ctx, "saga step insert failed", err)
	}
}

// OK records a successful step.
func (h *RunHandle) OK(ctx context.Context, name string) {
	h.Step(ctx, name, enums.SagaStepStatusOK, "")
}

// Failed records a failed step with the error text.
func (h *RunHandle) Failed(ctx context.Context, name string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	h.Step(ctx, name, enums.SagaStepStatusFailed, detail)
}

// Skipped records a step that did not need to run.
func (h *RunHandle) Skipped(ctx context.Context, name, reason string) {
	h.Step(ctx, name, enums.SagaStepStatusSkipped, reason)
}

// Finish closes the run with its terminal status.
func (h *RunHandle) Finish(ctx context.Context, status enums.SagaRunStatus, detail string) {
	if h == nil || h.recorder == nil {
		return
	}
	now := time.Now().UTC()
	err := h.recorder.db.WithContext(ctx).
		Model(&Run{}).
		Where("id = ?", h.runID).
		Updates(map[string]any{
			"status":      status,
			"detail":      detail,
			"finished_at": now,
		}).Error
	if err != nil {
		h.recorder.logg.Error(ctx, "saga run finish failed", err)
	}
}

// RunsForReservation returns the recorded runs for one reservation,
// newest first, with their steps. Used by the admin console.
func (r *Recorder) RunsForReservation(ctx context.Context, reservationID int64) ([]Run, map[string][]Step, error) {
	var runs []Run
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", strconv.FormatInt(reservationID, 10)).
		Order("started_at DESC").
		Find(&runs).Error
	if err != nil {
		return nil, nil, err
	}

	steps := make(map[string][]Step, len(runs))
	for _, run := range runs {
		var runSteps []Step
		err := r.db.WithContext(ctx).
			Where("run_id = ?", run.ID).
			Order("seq ASC").
			Find(&runSteps).Error
		if err != nil {
			return nil, nil, err
		}
		steps[run.ID] = runSteps
	}
	return runs, steps, nil
}
