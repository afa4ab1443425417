package engine

import (
	"testing"
	"time"

	"github.com/julianstephens/remindue/internal/gateway"
	"github.com/julianstephens/remindue/internal/models"
)

func TestDispatcherSnoozeAction(t *testing.T) {
	e, store, _ := newTestEngine()
	d := NewDispatcher(e)

	due := testNow.AddDate(0, 1, 0)
	o, err := e.Add(Draft{Title: "Rent", DueAt: due, Frequency: models.FrequencyMonthly})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	d.Handle(gateway.ActionEvent{Action: "SNOOZE", ObligationID: o.ID})

	got, _ := store.GetObligation(o.ID)
	if !got.DueAt.Equal(due.AddDate(0, 0, 1)) {
		t.Errorf("DueAt = %v, want %v", got.DueAt, due.AddDate(0, 0, 1))
	}
}

func TestDispatcherDeleteAction(t *testing.T) {
	e, store, _ := newTestEngine()
	d := NewDispatcher(e)

	o, err := e.Add(Draft{Title: "Rent", DueAt: testNow.AddDate(0, 1, 0), Frequency: models.FrequencyMonthly})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	d.Handle(gateway.ActionEvent{Action: "DELETE", ObligationID: o.ID})

	if _, err := store.GetObligation(o.ID); err == nil {
		t.Error("obligation still present after delete action")
	}
}

func TestDispatcherDropsMalformedAndUnknownEvents(t *testing.T) {
	e, store, _ := newTestEngine()
	d := NewDispatcher(e)

	due := testNow.AddDate(0, 1, 0)
	o, err := e.Add(Draft{Title: "Rent", DueAt: due, Frequency: models.FrequencyMonthly})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// None of these may mutate anything.
	d.Handle(gateway.ActionEvent{Action: "SNOOZE", ObligationID: ""})
	d.Handle(gateway.ActionEvent{Action: "ARCHIVE", ObligationID: o.ID})
	d.Handle(gateway.ActionEvent{Action: "SNOOZE", ObligationID: "no-such-id"})

	got, _ := store.GetObligation(o.ID)
	if !got.DueAt.Equal(due) {
		t.Errorf("DueAt = %v, want unchanged %v", got.DueAt, due)
	}
}

func TestDispatcherRegisterIsIdempotent(t *testing.T) {
	e, _, gw := newTestEngine()
	d := NewDispatcher(e)

	d.Register(gw)
	d.Register(gw)

	if len(gw.callbacks) != 1 {
		t.Errorf("registered %d callbacks, want 1", len(gw.callbacks))
	}
}

func TestDispatcherStaleSnoozeAfterDelete(t *testing.T) {
	e, store, _ := newTestEngine()
	d := NewDispatcher(e)

	o, err := e.Add(Draft{Title: "Rent", DueAt: testNow.Add(time.Hour), Frequency: models.FrequencyOneTime})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	d.Handle(gateway.ActionEvent{Action: "DELETE", ObligationID: o.ID})
	// A stale snooze from the already-dismissed notification must be a no-op.
	d.Handle(gateway.ActionEvent{Action: "SNOOZE", ObligationID: o.ID})

	if _, err := store.GetObligation(o.ID); err == nil {
		t.Error("stale snooze resurrected a deleted obligation")
	}
}
