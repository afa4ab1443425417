// Package gateway abstracts the local notification service. The engine
// schedules and cancels notifications through it and receives user action
// responses (snooze/delete taps) back from it.
package gateway

import "time"

// Content is the user-visible payload of a notification.
type Content struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	ObligationID string `json:"obligation_id,omitempty"`
	// Ack marks fire-and-forget acknowledgement notifications. They carry
	// no action buttons and their handles are never tracked.
	Ack bool `json:"ack,omitempty"`
}

// ActionEvent is an inbound notification action response.
type ActionEvent struct {
	Action       string `json:"action"`
	ObligationID string `json:"obligation_id"`
}

// Trigger describes when a notification fires. The set is sealed:
// AbsoluteTrigger, IntervalTrigger and WeeklyTrigger.
type Trigger interface {
	isTrigger()
}

// AbsoluteTrigger fires once at a wall-clock instant.
type AbsoluteTrigger struct {
	At time.Time
}

// IntervalTrigger fires once after a relative delay. Used instead of an
// absolute trigger when the due instant is imminent.
type IntervalTrigger struct {
	Seconds int
}

// WeeklyTrigger fires every week at the given weekday and time-of-day.
type WeeklyTrigger struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

func (AbsoluteTrigger) isTrigger() {}
func (IntervalTrigger) isTrigger() {}
func (WeeklyTrigger) isTrigger()   {}

type Gateway interface {
	// Schedule registers a notification and returns an opaque handle for
	// later cancellation.
	Schedule(content Content, trigger Trigger) (string, error)
	// Cancel removes a scheduled notification. Cancelling an unknown,
	// already-fired or already-cancelled handle is a no-op.
	Cancel(handle string) error
	// OnActionResponse registers a callback for inbound action events.
	// Callbacks are invoked asynchronously.
	OnActionResponse(fn func(ActionEvent))
}
