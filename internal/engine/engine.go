// Package engine coordinates obligation lifecycle: validation, persistence
// and the paired notification schedule. It maintains one invariant
// throughout: an obligation has at most one live notification, and its
// handle is empty exactly when nothing is scheduled.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/remindue/internal/constants"
	"github.com/julianstephens/remindue/internal/dates"
	"github.com/julianstephens/remindue/internal/gateway"
	"github.com/julianstephens/remindue/internal/locale"
	"github.com/julianstephens/remindue/internal/logger"
	"github.com/julianstephens/remindue/internal/models"
	"github.com/julianstephens/remindue/internal/storage"
)

type Engine struct {
	store    storage.Provider
	gateway  gateway.Gateway
	currency func() string
	now      func() time.Time

	// mu lets RollForward exclude all other mutations; regular operations
	// take the read side and serialize per obligation through locks.
	mu     sync.RWMutex
	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

type Option func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithCurrencyResolver overrides locale-based currency detection.
func WithCurrencyResolver(fn func() string) Option {
	return func(e *Engine) { e.currency = fn }
}

func New(store storage.Provider, gw gateway.Gateway, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		gateway:  gw,
		currency: locale.Currency,
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Draft is unvalidated user input for a new obligation.
type Draft struct {
	Title     string
	Amount    string
	DueAt     time.Time
	Frequency models.Frequency
	Notes     string
}

// Add validates a draft, schedules its due notification and persists the
// obligation. A gateway failure does not abort: the obligation is saved
// without a handle and the returned error wraps ErrNotificationUnavailable.
func (e *Engine) Add(draft Draft) (models.Obligation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	now := e.now()

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return models.Obligation{}, &ValidationError{Field: "title", Reason: "cannot be empty"}
	}

	var amount decimal.NullDecimal
	if raw := strings.TrimSpace(draft.Amount); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return models.Obligation{}, &ValidationError{Field: "amount", Reason: "must be a number"}
		}
		if d.IsNegative() {
			return models.Obligation{}, &ValidationError{Field: "amount", Reason: "cannot be negative"}
		}
		amount = decimal.NewNullDecimal(d)
	}

	// Parsing also canonicalizes aliases ("Monthly", "once"); the stored
	// value must be the canonical form or recurrence checks misfire.
	freq, err := models.ParseFrequency(string(draft.Frequency))
	if err != nil {
		return models.Obligation{}, &ValidationError{Field: "frequency", Reason: err.Error()}
	}

	if !draft.DueAt.After(now) {
		return models.Obligation{}, &ValidationError{Field: "due date", Reason: "must be in the future"}
	}

	o := models.Obligation{
		ID:        uuid.New().String(),
		Title:     title,
		Amount:    amount,
		Currency:  e.currency(),
		DueAt:     draft.DueAt,
		Frequency: freq,
		Notes:     strings.TrimSpace(draft.Notes),
		CreatedAt: now,
	}

	handle, schedErr := e.gateway.Schedule(dueContent(o), TriggerFor(o.Frequency, o.DueAt, now))
	if schedErr != nil {
		logger.Warn("failed to schedule notification", "id", o.ID, "error", schedErr)
	} else {
		o.NotificationHandle = handle
	}

	if err := e.store.UpsertObligation(o); err != nil {
		// Persistence is the source of truth; drop the orphan notification.
		if o.NotificationHandle != "" {
			_ = e.gateway.Cancel(o.NotificationHandle)
		}
		return models.Obligation{}, err
	}

	e.scheduleAck(o)

	if schedErr != nil {
		return o, fmt.Errorf("%w: %v", ErrNotificationUnavailable, schedErr)
	}
	return o, nil
}

// Remove deletes an obligation and cancels its notification. Removing an
// unknown id is a no-op, so a stale delete action from an old notification
// cannot fail.
func (e *Engine) Remove(id string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	unlock := e.lock(id)
	defer unlock()

	o, err := e.store.GetObligation(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if o.NotificationHandle != "" {
		if err := e.gateway.Cancel(o.NotificationHandle); err != nil {
			logger.Warn("failed to cancel notification", "id", id, "handle", o.NotificationHandle, "error", err)
		}
	}

	if err := e.store.DeleteObligation(id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return nil
}

// Snooze pushes an obligation's due date forward by the given number of
// days and replaces its notification. Returns ErrNotFound for unknown ids.
func (e *Engine) Snooze(id string, days int) (models.Obligation, error) {
	if days < 1 {
		return models.Obligation{}, &ValidationError{Field: "days", Reason: "must be at least 1"}
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	unlock := e.lock(id)
	defer unlock()

	o, err := e.store.GetObligation(id)
	if err != nil {
		return models.Obligation{}, err
	}

	return e.reschedule(o, dates.AddDays(o.DueAt, days))
}

// RollForward advances every recurring obligation whose due date has
// passed to its next occurrence at or after the current time, replacing
// each one's notification. It runs exclusively; no other mutation
// proceeds concurrently. Safe to call repeatedly.
func (e *Engine) RollForward() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	all, err := e.store.ListObligations()
	if err != nil {
		return err
	}

	var firstErr error
	for _, o := range all {
		if !o.Frequency.IsRecurring() || !o.DueAt.Before(now) {
			continue
		}

		next := dates.NextOccurrence(o.Frequency, o.DueAt)
		for next.Before(now) {
			next = dates.NextOccurrence(o.Frequency, next)
		}

		logger.Debug("rolling obligation forward", "id", o.ID, "from", o.DueAt, "to", next)
		if _, err := e.reschedule(o, next); err != nil && !errors.Is(err, ErrNotificationUnavailable) {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// RearmAll rebuilds gateway schedules for every obligation whose
// notification should currently be live: weekly obligations and anything
// due in the future. Scheduled triggers die with the process, so a
// restarted daemon must replace the stale persisted handles. Past-due
// one-time obligations are left untouched and past-due recurring ones are
// RollForward's job.
func (e *Engine) RearmAll() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	all, err := e.store.ListObligations()
	if err != nil {
		return err
	}

	var firstErr error
	for _, o := range all {
		if o.Frequency != models.FrequencyWeekly && !o.DueAt.After(now) {
			continue
		}

		logger.Debug("re-arming notification", "id", o.ID, "due", o.DueAt)
		if _, err := e.reschedule(o, o.DueAt); err != nil && !errors.Is(err, ErrNotificationUnavailable) {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// List returns all obligations ordered by due date. Readers wait out a
// running roll-forward or re-arm pass.
func (e *Engine) List() ([]models.Obligation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.ListObligations()
}

// Get returns a single obligation, ErrNotFound if it does not exist.
func (e *Engine) Get(id string) (models.Obligation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.GetObligation(id)
}

// reschedule moves an obligation to a new due date: cancel the old
// notification, schedule the replacement, persist. Cancellation failures
// are logged and swallowed; only persistence failures abort.
func (e *Engine) reschedule(o models.Obligation, newDue time.Time) (models.Obligation, error) {
	if o.NotificationHandle != "" {
		if err := e.gateway.Cancel(o.NotificationHandle); err != nil {
			logger.Warn("failed to cancel notification", "id", o.ID, "handle", o.NotificationHandle, "error", err)
		}
		o.NotificationHandle = ""
	}

	o.DueAt = newDue

	handle, schedErr := e.gateway.Schedule(dueContent(o), TriggerFor(o.Frequency, o.DueAt, e.now()))
	if schedErr != nil {
		logger.Warn("failed to schedule notification", "id", o.ID, "error", schedErr)
	} else {
		o.NotificationHandle = handle
	}

	if err := e.store.UpsertObligation(o); err != nil {
		if o.NotificationHandle != "" {
			_ = e.gateway.Cancel(o.NotificationHandle)
		}
		return models.Obligation{}, err
	}

	if schedErr != nil {
		return o, fmt.Errorf("%w: %v", ErrNotificationUnavailable, schedErr)
	}
	return o, nil
}

// scheduleAck fires a short confirmation notification. Its handle is
// deliberately not tracked; failure is logged and ignored.
func (e *Engine) scheduleAck(o models.Obligation) {
	content := gateway.Content{
		Title: "Saved: " + o.Title,
		Body:  "Reminder set for " + o.DueAt.Format(constants.DateFormat),
		Ack:   true,
	}
	if _, err := e.gateway.Schedule(content, gateway.IntervalTrigger{Seconds: constants.AckDelaySec}); err != nil {
		logger.Debug("failed to schedule acknowledgement", "id", o.ID, "error", err)
	}
}

func (e *Engine) lock(id string) func() {
	e.lockMu.Lock()
	m, ok := e.locks[id]
	if !ok {
		m = &sync.Mutex{}
		e.locks[id] = m
	}
	e.lockMu.Unlock()
	m.Lock()
	return m.Unlock
}

// TriggerFor selects how a due notification fires. Weekly obligations get
// a repeating weekday trigger. Otherwise an imminent due instant (within
// the short window) gets a relative delay of at least one second, and a
// distant one gets an absolute trigger.
func TriggerFor(freq models.Frequency, due time.Time, now time.Time) gateway.Trigger {
	if freq == models.FrequencyWeekly {
		return gateway.WeeklyTrigger{
			Weekday: due.Weekday(),
			Hour:    due.Hour(),
			Minute:  due.Minute(),
		}
	}

	delta := int(due.Sub(now).Round(time.Second).Seconds())
	if delta <= constants.ShortWindowSec {
		if delta < 1 {
			delta = 1
		}
		return gateway.IntervalTrigger{Seconds: delta}
	}
	return gateway.AbsoluteTrigger{At: due}
}

func dueContent(o models.Obligation) gateway.Content {
	body := "Due today"
	if o.HasAmount() {
		body = "Amount due: " + o.FormatAmount()
	}
	return gateway.Content{
		Title:        "Payment due: " + o.Title,
		Body:         body,
		ObligationID: o.ID,
	}
}
