package sagalog

import (
	"context"
	"errors"
	"io"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/urbandrive/storefront/pkg/enums"
	"github.com/urbandrive/storefront/pkg/logger"
)

func testRecorder(t *testing.T) (*Recorder, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Run{}, &Step{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	recorder, err := NewRecorder(db, logg)
	if err != nil {
		t.Fatalf("NewRecorder returned error: %v", err)
	}
	return recorder, db
}

func TestRecorderPersistsRunAndSteps(t *testing.T) {
	recorder, db := testRecorder(t)
	ctx := context.Background()

	handle := recorder.Begin(ctx, enums.SagaKindCheckout, 7, 5)
	if handle.RunID() == "" {
		t.Fatal("expected run id")
	}
	handle.OK(ctx, "fetch_reservation")
	handle.Failed(ctx, "bank_transfer", errors.New("insufficient funds"))
	handle.Skipped(ctx, "invoice", "no payment made")
	handle.Finish(ctx, enums.SagaRunStatusAborted, "transfer refused")

	var run Run
	if err := db.First(&run, "id = ?", handle.RunID()).Error; err != nil {
		t.Fatalf("loading run: %v", err)
	}
	if run.Status != enums.SagaRunStatusAborted {
		t.Fatalf("expected aborted run, got %s", run.Status)
	}
	if run.ReservationID != "7" || run.UserID != "5" {
		t.Fatalf("unexpected run identifiers: %+v", run)
	}
	if run.FinishedAt == nil {
		t.Fatal("expected finished_at to be set")
	}

	var steps []Step
	if err := db.Order("seq ASC").Find(&steps, "run_id = ?", handle.RunID()).Error; err != nil {
		t.Fatalf("loading steps: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	if steps[0].Name != "fetch_reservation" || steps[0].Status != enums.SagaStepStatusOK {
		t.Fatalf("unexpected first step: %+v", steps[0])
	}
	if steps[1].Status != enums.SagaStepStatusFailed || steps[1].Detail != "insufficient funds" {
		t.Fatalf("unexpected failed step: %+v", steps[1])
	}
	if steps[2].Status != enums.SagaStepStatusSkipped || steps[2].Detail != "no payment made" {
		t.Fatalf("unexpected skipped step: %+v", steps[2])
	}
}

func TestRunsForReservationNewestFirst(t *testing.T) {
	recorder, _ := testRecorder(t)
	ctx := context.Background()

	first := recorder.Begin(ctx, enums.SagaKindCheckout, 9, 5)
	first.OK(ctx, "fetch_reservation")
	first.Finish(ctx, enums.SagaRunStatusSucceeded, "")

	second := recorder.Begin(ctx, enums.SagaKindCancellation, 9, 5)
	second.OK(ctx, "fetch_reservation")
	second.Finish(ctx, enums.SagaRunStatusSucceeded, "")

	other := recorder.Begin(ctx, enums.SagaKindCheckout, 10, 6)
	other.Finish(ctx, enums.SagaRunStatusSucceeded, "")

	runs, steps, err := recorder.RunsForReservation(ctx, 9)
	if err != nil {
		t.Fatalf("RunsForReservation returned error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs for reservation 9, got %d", len(runs))
	}
	for _, run := range runs {
		if run.ReservationID != "9" {
			t.Fatalf("unexpected reservation id %s", run.ReservationID)
		}
		if len(steps[run.ID]) != 1 {
			t.Fatalf("expected 1 step for run %s, got %d", run.ID, len(steps[run.ID]))
		}
	}
}

func TestNilHandleIsSafe(t *testing.T) {
	var handle *RunHandle
	ctx := context.Background()
	handle.OK(ctx, "noop")
	handle.Failed(ctx, "noop", errors.New("ignored"))
	handle.Finish(ctx, enums.SagaRunStatusSucceeded, "")
	if handle.RunID() != "" {
		t.Fatal("nil handle should report empty run id")
	}
}
