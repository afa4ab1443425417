package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/julianstephens/remindue/internal/logger"
)

// Local delivers notifications through the tray application and runs an
// in-process scheduler: one-shot triggers are armed as timers, weekly
// triggers as cron entries. Action responses arrive on a loopback HTTP
// listener and fan out to registered callbacks.
type Local struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	entries map[string]cron.EntryID
	cron    *cron.Cron

	cbMu      sync.RWMutex
	callbacks []func(ActionEvent)

	listenAddr string
	srv        *http.Server

	// deliver is swappable for tests.
	deliver func(content Content, actionURL string) error
}

func NewLocal(listenAddr string) *Local {
	l := &Local{
		timers:     make(map[string]*time.Timer),
		entries:    make(map[string]cron.EntryID),
		cron:       cron.New(),
		listenAddr: listenAddr,
		deliver:    deliverToTray,
	}
	l.cron.Start()
	return l
}

func (l *Local) Schedule(content Content, trigger Trigger) (string, error) {
	handle := uuid.New().String()

	switch tr := trigger.(type) {
	case WeeklyTrigger:
		spec := fmt.Sprintf("%d %d * * %d", tr.Minute, tr.Hour, int(tr.Weekday))
		entryID, err := l.cron.AddFunc(spec, func() {
			l.fire(handle, content, true)
		})
		if err != nil {
			return "", fmt.Errorf("failed to schedule weekly notification: %w", err)
		}
		l.mu.Lock()
		l.entries[handle] = entryID
		l.mu.Unlock()
	case IntervalTrigger:
		secs := tr.Seconds
		if secs < 1 {
			secs = 1
		}
		l.arm(handle, content, time.Duration(secs)*time.Second)
	case AbsoluteTrigger:
		delay := time.Until(tr.At)
		if delay < time.Second {
			delay = time.Second
		}
		l.arm(handle, content, delay)
	default:
		return "", fmt.Errorf("unsupported trigger type %T", trigger)
	}

	return handle, nil
}

func (l *Local) Cancel(handle string) error {
	if handle == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.timers[handle]; ok {
		t.Stop()
		delete(l.timers, handle)
	}
	if entryID, ok := l.entries[handle]; ok {
		l.cron.Remove(entryID)
		delete(l.entries, handle)
	}

	// Unknown or already-fired handles are a no-op.
	return nil
}

func (l *Local) OnActionResponse(fn func(ActionEvent)) {
	l.cbMu.Lock()
	defer l.cbMu.Unlock()
	l.callbacks = append(l.callbacks, fn)
}

// StartActionListener binds the loopback endpoint that the tray posts
// notification action responses to.
func (l *Local) StartActionListener() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/action", l.handleAction)

	l.srv = &http.Server{
		Addr:         l.listenAddr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		if err := l.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("action listener failed", "error", err)
		}
	}()

	return nil
}

// Close stops the scheduler, pending timers and the action listener.
// Pending notifications are dropped, not delivered.
func (l *Local) Close() error {
	l.mu.Lock()
	for handle, t := range l.timers {
		t.Stop()
		delete(l.timers, handle)
	}
	for handle, entryID := range l.entries {
		l.cron.Remove(entryID)
		delete(l.entries, handle)
	}
	l.mu.Unlock()

	ctx := l.cron.Stop()
	<-ctx.Done()

	if l.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return l.srv.Shutdown(shutdownCtx)
	}
	return nil
}

func (l *Local) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var ev ActionEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)

	l.dispatch(ev)
}

func (l *Local) dispatch(ev ActionEvent) {
	l.cbMu.RLock()
	callbacks := make([]func(ActionEvent), len(l.callbacks))
	copy(callbacks, l.callbacks)
	l.cbMu.RUnlock()

	for _, fn := range callbacks {
		go fn(ev)
	}
}

// fire delivers a notification when its trigger elapses. One-shot handles
// are forgotten first so a late Cancel stays a no-op.
func (l *Local) fire(handle string, content Content, repeating bool) {
	if !repeating {
		l.mu.Lock()
		delete(l.timers, handle)
		l.mu.Unlock()
	}

	if err := l.deliver(content, l.actionURL()); err != nil {
		logger.Warn("notification delivery failed", "title", content.Title, "error", err)
	}
}

func (l *Local) arm(handle string, content Content, delay time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timers[handle] = time.AfterFunc(delay, func() {
		l.fire(handle, content, false)
	})
}

func (l *Local) actionURL() string {
	if l.listenAddr == "" {
		return ""
	}
	return fmt.Sprintf("http://%s/action", l.listenAddr)
}
