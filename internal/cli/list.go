package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	soonStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

type ListCmd struct {
	ShowIDs bool `help:"Show obligation IDs." name:"show-ids"`
}

func (c *ListCmd) Run(ctx *Context) error {
	obligations, err := ctx.Engine.List()
	if err != nil {
		return fmt.Errorf("failed to list obligations: %w", err)
	}
	if len(obligations) == 0 {
		fmt.Println("No reminders found")
		return nil
	}

	now := time.Now()
	fmt.Println("Reminders:")
	for _, o := range obligations {
		badge := ""
		switch DueBadge(now, o.DueAt) {
		case "Overdue":
			badge = " " + overdueStyle.Render("[Overdue]")
		case "Soon":
			badge = " " + soonStyle.Render("[Soon]")
		}

		amountStr := ""
		if o.HasAmount() {
			amountStr = " - " + o.FormatAmount()
		}

		fmt.Printf("  %s%s (%s, due %s)%s\n",
			o.Title, amountStr, o.Frequency, o.DueAt.Format("2006-01-02 15:04"), badge)

		if c.ShowIDs {
			fmt.Printf("      ID: %s\n", o.ID)
		}
		if o.Notes != "" {
			fmt.Printf("      %s\n", o.Notes)
		}
	}

	return nil
}
