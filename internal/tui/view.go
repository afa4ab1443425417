package tui

func (m Model) View() string {
	view := m.list.View()
	if m.status != "" {
		view += "\n" + m.status
	}
	return docStyle.Render(view)
}
