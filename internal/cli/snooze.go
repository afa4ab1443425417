package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/remindue/internal/engine"
)

type SnoozeCmd struct {
	ID   string `arg:"" help:"Obligation ID."`
	Days int    `help:"Number of days to push the due date." default:"1"`
}

func (c *SnoozeCmd) Run(ctx *Context) error {
	o, err := ctx.Engine.Snooze(c.ID, c.Days)
	if errors.Is(err, engine.ErrNotFound) {
		return fmt.Errorf("no reminder with id %s", c.ID)
	}
	if err != nil && !errors.Is(err, engine.ErrNotificationUnavailable) {
		return err
	}

	fmt.Printf("✓ Snoozed: %s, now due %s\n", o.Title, o.DueAt.Format("2006-01-02 15:04"))
	if errors.Is(err, engine.ErrNotificationUnavailable) {
		fmt.Println("  Warning: new due date saved, but the notification could not be scheduled.")
	}
	return nil
}
