package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mafilu-cli/mafilu/icon"
	"github.com/mafilu-cli/mafilu/input"
	"github.com/mafilu-cli/mafilu/overlay"
	"github.com/mafilu-cli/mafilu/quality"
	"github.com/mafilu-cli/mafilu/style"
)

// menuItem is one row of a panel.
type menuItem struct {
	title  string
	detail string
	// selected marks the value currently in effect.
	selected bool
}

func (t menuItem) render(highlighted bool) string {
	var sb strings.Builder

	if highlighted {
		sb.WriteString(lipgloss.NewStyle().Foreground(style.AccentColor).Render("› "))
	} else {
		sb.WriteString("  ")
	}

	title := t.title
	if t.selected {
		title = lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(title)
	}
	sb.WriteString(title)

	if t.detail != "" {
		sb.WriteString(" ")
		sb.WriteString(style.Faint(t.detail))
	}
	if t.selected {
		sb.WriteString(" ")
		sb.WriteString(icon.Get(icon.Success))
	}

	return sb.String()
}

// menuItems lists the rows of the open panel, in cursor order.
func (b *statefulBubble) menuItems() []menuItem {
	switch {
	case b.overlay.Panel() == overlay.QualityPanel:
		return b.qualityItems()
	case b.overlay.Panel() != overlay.SettingsPanel:
		return nil
	}

	switch b.overlay.Menu() {
	case overlay.Speed:
		items := make([]menuItem, 0, len(input.SpeedLadder))
		for _, rate := range input.SpeedLadder {
			items = append(items, menuItem{
				title:    input.SpeedLabel(rate),
				selected: rate == b.machine.Rate(),
			})
		}
		return items
	case overlay.Quality:
		return b.qualityItems()
	}

	items := make([]menuItem, 0, len(overlay.RootEntries))
	for _, entry := range overlay.RootEntries {
		item := menuItem{title: entry.String()}
		switch entry {
		case overlay.Speed:
			item.detail = input.SpeedLabel(b.machine.Rate())
		case overlay.Quality:
			item.detail = b.quality.ActiveLabel()
		}
		items = append(items, item)
	}
	return items
}

func (b *statefulBubble) qualityItems() []menuItem {
	var items []menuItem
	for _, option := range b.quality.Options() {
		item := menuItem{
			title:    option.Label,
			detail:   option.Badge,
			selected: option.Index == b.quality.Active(),
		}
		if option.Recommended {
			item.detail = "(recommended)"
		}
		if option.Index == quality.Auto && !b.quality.AutoOnly() {
			if playing := b.quality.PlayingLabel(); playing != "" {
				item.detail = playing
			}
		}
		items = append(items, item)
	}
	return items
}
