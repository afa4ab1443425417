// Package tui is the interactive reminder list.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/remindue/internal/cli"
	"github.com/julianstephens/remindue/internal/constants"
	"github.com/julianstephens/remindue/internal/engine"
	"github.com/julianstephens/remindue/internal/models"
)

type Item struct {
	Obligation models.Obligation
}

func (i Item) Title() string {
	title := i.Obligation.Title
	if i.Obligation.HasAmount() {
		title = fmt.Sprintf("%s - %s", title, i.Obligation.FormatAmount())
	}
	switch cli.DueBadge(time.Now(), i.Obligation.DueAt) {
	case "Overdue":
		title = overdueStyle.Render("[Overdue]") + " " + title
	case "Soon":
		title = soonStyle.Render("[Soon]") + " " + title
	}
	return title
}

func (i Item) Description() string {
	desc := fmt.Sprintf("due %s (%s)",
		i.Obligation.DueAt.Format(constants.DateFormat+" "+constants.TimeFormat),
		i.Obligation.Frequency)
	if i.Obligation.Notes != "" {
		desc += " - " + i.Obligation.Notes
	}
	return desc
}

func (i Item) FilterValue() string { return i.Obligation.Title }

type KeyMap struct {
	Snooze  key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Snooze: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "snooze 1 day"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type Model struct {
	engine *engine.Engine
	list   list.Model
	keys   KeyMap
	status string
}

func NewModel(e *engine.Engine) Model {
	keys := DefaultKeyMap()

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Reminders"
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Snooze, keys.Delete, keys.Refresh}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Snooze, keys.Delete, keys.Refresh}
	}

	return Model{
		engine: e,
		list:   l,
		keys:   keys,
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadObligations
}
