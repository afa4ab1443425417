package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/remindue/internal/constants"
	"github.com/julianstephens/remindue/internal/engine"
	"github.com/julianstephens/remindue/internal/models"
)

type obligationsMsg []models.Obligation

type mutatedMsg struct {
	status string
}

type errMsg struct {
	err error
}

func (m Model) loadObligations() tea.Msg {
	obligations, err := m.engine.List()
	if err != nil {
		return errMsg{err}
	}
	return obligationsMsg(obligations)
}

func (m Model) snooze(id string) tea.Cmd {
	return func() tea.Msg {
		o, err := m.engine.Snooze(id, constants.DefaultSnoozeDays)
		if err != nil && !errors.Is(err, engine.ErrNotificationUnavailable) {
			return errMsg{err}
		}
		return mutatedMsg{status: fmt.Sprintf("Snoozed %s to %s", o.Title, o.DueAt.Format(constants.DateFormat))}
	}
}

func (m Model) remove(id, title string) tea.Cmd {
	return func() tea.Msg {
		if err := m.engine.Remove(id); err != nil {
			return errMsg{err}
		}
		return mutatedMsg{status: "Deleted " + title}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-1)
		return m, nil

	case obligationsMsg:
		items := make([]list.Item, len(msg))
		for i, o := range msg {
			items[i] = Item{Obligation: o}
		}
		return m, m.list.SetItems(items)

	case mutatedMsg:
		m.status = statusStyle.Render(msg.status)
		return m, m.loadObligations

	case errMsg:
		m.status = dangerStyle.Render(msg.err.Error())
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.status = ""
			return m, m.loadObligations
		case key.Matches(msg, m.keys.Snooze):
			if item, ok := m.list.SelectedItem().(Item); ok {
				return m, m.snooze(item.Obligation.ID)
			}
		case key.Matches(msg, m.keys.Delete):
			if item, ok := m.list.SelectedItem().(Item); ok {
				return m, m.remove(item.Obligation.ID, item.Obligation.Title)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}
