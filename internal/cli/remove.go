package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/remindue/internal/storage"
)

type RemoveCmd struct {
	ID  string `arg:"" help:"Obligation ID."`
	Yes bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *RemoveCmd) Run(ctx *Context) error {
	o, err := ctx.Engine.Get(c.ID)
	if errors.Is(err, storage.ErrNotFound) {
		// Removal of something already gone is not an error.
		fmt.Printf("No reminder with id %s\n", c.ID)
		return nil
	}
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Delete %q?", o.Title)).
					Value(&confirmed),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := ctx.Engine.Remove(c.ID); err != nil {
		return fmt.Errorf("failed to remove reminder: %w", err)
	}

	fmt.Printf("✓ Removed: %s\n", o.Title)
	return nil
}
