package ui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title, header       lipgloss.Style
	item, itemSel       lipgloss.Style
	empty, status, hint lipgloss.Style
	warn, input         lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()

	return styles{
		title:   base.Bold(true).Padding(0, 1),
		header:  base.Bold(true),
		item:    base.PaddingLeft(2),
		itemSel: base.Bold(true),
		empty:   base.Faint(true).PaddingLeft(2),
		status:  base.PaddingLeft(1),
		hint:    base.Faint(true),
		warn:    base.Foreground(lipgloss.Color("214")),
		input:   base.Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}
