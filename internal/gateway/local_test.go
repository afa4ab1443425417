package gateway

import (
	"sync"
	"testing"
	"time"
)

func newTestLocal() (*Local, *deliveryRecorder) {
	rec := &deliveryRecorder{}
	l := NewLocal("")
	l.deliver = rec.deliver
	return l, rec
}

type deliveryRecorder struct {
	mu        sync.Mutex
	delivered []Content
}

func (r *deliveryRecorder) deliver(content Content, actionURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered = append(r.delivered, content)
	return nil
}

func (r *deliveryRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.delivered)
}

func TestScheduleReturnsDistinctHandles(t *testing.T) {
	l, _ := newTestLocal()
	defer l.Close()

	h1, err := l.Schedule(Content{Title: "a"}, IntervalTrigger{Seconds: 3600})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	h2, err := l.Schedule(Content{Title: "b"}, IntervalTrigger{Seconds: 3600})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if h1 == "" || h2 == "" {
		t.Fatal("expected non-empty handles")
	}
	if h1 == h2 {
		t.Errorf("handles not distinct: %s", h1)
	}
}

func TestIntervalTriggerDelivers(t *testing.T) {
	l, rec := newTestLocal()
	defer l.Close()

	if _, err := l.Schedule(Content{Title: "due"}, IntervalTrigger{Seconds: 1}); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for rec.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("notification never delivered")
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestIntervalTriggerClampsToOneSecond(t *testing.T) {
	l, rec := newTestLocal()
	defer l.Close()

	if _, err := l.Schedule(Content{Title: "due"}, IntervalTrigger{Seconds: 0}); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for rec.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("notification never delivered")
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestCancelStopsPendingTimer(t *testing.T) {
	l, rec := newTestLocal()
	defer l.Close()

	handle, err := l.Schedule(Content{Title: "due"}, IntervalTrigger{Seconds: 1})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if err := l.Cancel(handle); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	time.Sleep(1500 * time.Millisecond)
	if n := rec.count(); n != 0 {
		t.Errorf("delivered %d notifications after cancel, want 0", n)
	}
}

func TestCancelUnknownHandleIsNoOp(t *testing.T) {
	l, _ := newTestLocal()
	defer l.Close()

	if err := l.Cancel("no-such-handle"); err != nil {
		t.Errorf("Cancel of unknown handle = %v, want nil", err)
	}
	if err := l.Cancel(""); err != nil {
		t.Errorf("Cancel of empty handle = %v, want nil", err)
	}
}

func TestWeeklyTriggerRegistersCronEntry(t *testing.T) {
	l, _ := newTestLocal()
	defer l.Close()

	handle, err := l.Schedule(Content{Title: "weekly"}, WeeklyTrigger{
		Weekday: time.Friday,
		Hour:    9,
		Minute:  30,
	})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	l.mu.Lock()
	_, ok := l.entries[handle]
	l.mu.Unlock()
	if !ok {
		t.Error("expected cron entry for weekly handle")
	}

	if err := l.Cancel(handle); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	l.mu.Lock()
	_, ok = l.entries[handle]
	l.mu.Unlock()
	if ok {
		t.Error("cron entry still present after cancel")
	}
}

func TestDispatchFansOutToCallbacks(t *testing.T) {
	l, _ := newTestLocal()
	defer l.Close()

	var (
		mu     sync.Mutex
		events []ActionEvent
	)
	done := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		l.OnActionResponse(func(ev ActionEvent) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
			done <- struct{}{}
		})
	}

	l.dispatch(ActionEvent{Action: "SNOOZE", ObligationID: "ob-1"})

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("callback never invoked")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for _, ev := range events {
		if ev.Action != "SNOOZE" || ev.ObligationID != "ob-1" {
			t.Errorf("unexpected event %+v", ev)
		}
	}
}
