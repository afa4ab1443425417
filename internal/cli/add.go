package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/remindue/internal/engine"
	"github.com/julianstephens/remindue/internal/models"
)

type AddCmd struct {
	Title     string `arg:"" help:"What the payment is for."`
	Amount    string `help:"Amount due (e.g. 1250.50)."`
	Due       string `help:"Due date (YYYY-MM-DD)." required:""`
	Time      string `help:"Time of day for the reminder (HH:MM)."`
	Frequency string `help:"Repeat frequency (one_time|weekly|monthly|yearly)." default:"one_time"`
	Notes     string `help:"Free-form notes."`
}

func (c *AddCmd) Run(ctx *Context) error {
	freq, err := models.ParseFrequency(c.Frequency)
	if err != nil {
		return err
	}

	dueAt, err := ParseDueAt(c.Due, c.Time)
	if err != nil {
		return err
	}

	o, err := ctx.Engine.Add(engine.Draft{
		Title:     c.Title,
		Amount:    c.Amount,
		DueAt:     dueAt,
		Frequency: freq,
		Notes:     c.Notes,
	})
	if err != nil && !errors.Is(err, engine.ErrNotificationUnavailable) {
		return err
	}

	fmt.Printf("✓ Added: %s", o.Title)
	if o.HasAmount() {
		fmt.Printf(" (%s)", o.FormatAmount())
	}
	fmt.Printf(", due %s\n", o.DueAt.Format("2006-01-02 15:04"))
	fmt.Printf("  ID: %s\n", o.ID)

	if errors.Is(err, engine.ErrNotificationUnavailable) {
		fmt.Println("  Warning: reminder saved, but the notification could not be scheduled.")
	}

	return nil
}
