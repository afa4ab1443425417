package engine

import (
	"errors"
	"sync"

	"github.com/julianstephens/remindue/internal/constants"
	"github.com/julianstephens/remindue/internal/gateway"
	"github.com/julianstephens/remindue/internal/logger"
)

// Dispatcher routes notification action responses to engine operations.
type Dispatcher struct {
	engine *Engine

	mu         sync.Mutex
	registered bool
}

func NewDispatcher(e *Engine) *Dispatcher {
	return &Dispatcher{engine: e}
}

// Register subscribes the dispatcher to the gateway's action responses.
// Calling it again is a no-op, so process restarts and re-initialization
// paths cannot double-handle events.
func (d *Dispatcher) Register(gw gateway.Gateway) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.registered {
		return
	}
	d.registered = true
	gw.OnActionResponse(d.Handle)
}

// Handle processes one action event. Malformed events and unknown action
// kinds are dropped. Errors are logged, never propagated: there is no
// caller to report them to.
func (d *Dispatcher) Handle(ev gateway.ActionEvent) {
	if ev.ObligationID == "" {
		logger.Debug("dropping action event without obligation id", "action", ev.Action)
		return
	}

	switch ev.Action {
	case constants.ActionSnooze:
		if _, err := d.engine.Snooze(ev.ObligationID, constants.DefaultSnoozeDays); err != nil {
			if errors.Is(err, ErrNotFound) {
				// Stale notification for a removed obligation.
				logger.Debug("snooze action for unknown obligation", "id", ev.ObligationID)
				return
			}
			logger.Warn("snooze action failed", "id", ev.ObligationID, "error", err)
		}
	case constants.ActionDelete:
		if err := d.engine.Remove(ev.ObligationID); err != nil {
			logger.Warn("delete action failed", "id", ev.ObligationID, "error", err)
		}
	default:
		logger.Debug("dropping unknown action", "action", ev.Action, "id", ev.ObligationID)
	}
}
