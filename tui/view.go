package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mafilu-cli/mafilu/icon"
	"github.com/mafilu-cli/mafilu/input"
	"github.com/mafilu-cli/mafilu/overlay"
	"github.com/mafilu-cli/mafilu/style"
	"github.com/mafilu-cli/mafilu/util"
	"github.com/muesli/reflow/wordwrap"
)

const volumeWidth = 10

var (
	paddingStyle = lipgloss.NewStyle().Padding(1, 2)
	footerStyle  = lipgloss.NewStyle().Padding(0, 2)
	errorStyle   = lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
)

// footerHeight is the progress row, the controls row and the help row.
const footerHeight = 3

// layout locates the clickable rows of the footer.
type layout struct {
	progressRow int
	progress    input.Track
	controlsRow int
	volume      input.Track
}

func (b *statefulBubble) layout() layout {
	x, _ := footerStyle.GetFrameSize()
	left := x / 2

	return layout{
		progressRow: b.height - footerHeight,
		progress:    input.Track{X: left, Width: max(b.width-x, 1)},
		controlsRow: b.height - footerHeight + 1,
		volume:      input.Track{X: left + lipgloss.Width(b.controlsPrefix()), Width: volumeWidth},
	}
}

func (b *statefulBubble) View() string {
	b.keymap.state = b.state()
	b.keymap.menuOpen = b.overlay.IsOpen()

	var body string
	switch b.keymap.state {
	case loadingState:
		body = b.viewLoading()
	case errorState:
		body = b.viewError()
	case fatalState:
		body = b.viewFatal()
	case pausedState, promptState:
		body = b.viewPaused()
	default:
		body = b.viewPlaying()
	}

	if b.overlay.IsOpen() {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", b.viewPanel())
	}
	if b.helpC.ShowAll {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", b.helpC.View(b.keymap))
	}

	body = b.notifier.View(paddingStyle.Render(body))
	return b.fill(body) + "\n" + b.viewFooter()
}

// fill pads or cuts body to the rows above the footer.
func (b *statefulBubble) fill(body string) string {
	rows := max(b.height-footerHeight, 0)
	lines := strings.Split(body, "\n")
	if len(lines) > rows {
		lines = lines[:rows]
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (b *statefulBubble) viewLoading() string {
	lines := []string{
		style.Title("Loading"),
		"",
		b.spinnerC.View() + " " + b.titleOrURL(),
	}
	if b.options.Poster != "" {
		lines = append(lines, "", style.Faint("poster: "+b.options.Poster))
	}
	return strings.Join(lines, "\n")
}

func (b *statefulBubble) viewPlaying() string {
	if !b.controls.Visible() {
		return ""
	}
	return style.Faint(b.titleOrURL())
}

func (b *statefulBubble) viewPaused() string {
	lines := []string{
		lipgloss.NewStyle().Foreground(style.AccentColor).Bold(true).Render("mafilu") + style.Faint(" | Originals"),
		"",
	}
	if b.options.Title != "" {
		lines = append(lines, style.Bold(b.options.Title))
	}
	if b.options.Description != "" {
		x, _ := paddingStyle.GetFrameSize()
		lines = append(lines, "", style.Faint(wordwrap.String(b.options.Description, min(max(b.width-x, 20), 72))))
	}
	if b.dispatcher.TextFocus() {
		lines = append(lines, "", b.inputC.View())
	}
	return strings.Join(lines, "\n")
}

func (b *statefulBubble) viewError() string {
	message := "playback error"
	if fault := b.machine.Fault(); fault != nil {
		message = fault.Message
	}

	return strings.Join([]string{
		style.ErrorTitle("Error"),
		"",
		b.spinnerC.View() + " " + errorStyle.Render(util.Capitalize(message)),
	}, "\n")
}

func (b *statefulBubble) viewFatal() string {
	message := "playback not supported"
	if b.session == nil && b.lastError != nil {
		message = b.lastError.Error()
	} else if fault := b.machine.Fault(); fault != nil {
		message = fault.Message
	}

	return strings.Join([]string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " " + errorStyle.Render(wordwrap.String(util.Capitalize(message), max(b.width-4, 20))),
		"",
		fmt.Sprintf("Press %s to retry", style.Fg(style.WarningColor)("r")),
	}, "\n")
}

func (b *statefulBubble) viewPanel() string {
	var title string
	switch {
	case b.overlay.Panel() == overlay.QualityPanel:
		title = "Quality"
	default:
		title = b.overlay.Menu().String()
	}

	lines := []string{style.Bold(title)}
	for i, item := range b.menuItems() {
		lines = append(lines, item.render(i == b.overlay.Cursor()))
	}
	if b.quality.AutoOnly() && (b.overlay.Panel() == overlay.QualityPanel || b.overlay.Menu() == overlay.Quality) {
		lines = append(lines, style.Faint("Quality adapts to your connection speed"))
	}

	return style.Panel().Render(strings.Join(lines, "\n"))
}

// controlsPrefix is everything on the controls row left of the volume bar.
func (b *statefulBubble) controlsPrefix() string {
	playIcon := icon.Get(icon.Play)
	if b.machine != nil && b.machine.IsPlaying() {
		playIcon = icon.Get(icon.Pause)
	}

	var current, total float64
	volumeIcon := icon.Get(icon.Volume)
	if b.machine != nil {
		current, total = b.machine.CurrentTime(), b.machine.Duration()
		if b.machine.Muted() || b.machine.Volume() == 0 {
			volumeIcon = icon.Get(icon.Muted)
		}
	}

	return fmt.Sprintf("%s %s / %s  %s ", playIcon, util.FormatTime(current), util.FormatTime(total), volumeIcon)
}

func (b *statefulBubble) viewFooter() string {
	if b.session == nil || !b.controls.Visible() {
		return strings.Repeat("\n", footerHeight-1)
	}

	l := b.layout()
	m := b.machine

	volume := m.Volume()
	if m.Muted() {
		volume = 0
	}
	b.volumeC.Width = volumeWidth

	controls := b.controlsPrefix() + b.volumeC.ViewAs(volume)
	if rate := m.Rate(); rate != 1 {
		controls += "  " + style.Fg(style.AccentColor)(input.SpeedLabel(rate))
	}
	controls += "  " + icon.Get(icon.Quality) + " " + b.quality.ActiveLabel()
	if b.lastError != nil {
		controls += "  " + errorStyle.Render(b.lastError.Error())
	}

	rows := []string{
		b.viewProgress(l.progress.Width),
		controls,
		b.helpC.View(b.keymap),
	}
	if b.helpC.ShowAll {
		rows[2] = ""
	}
	return footerStyle.Render(strings.Join(rows, "\n"))
}

// viewProgress draws the played and the buffered part of the media.
func (b *statefulBubble) viewProgress(width int) string {
	duration := b.machine.Duration()
	if duration <= 0 || width <= 0 {
		return style.Faint(strings.Repeat("─", max(width, 0)))
	}

	played := int(util.Clamp(b.machine.CurrentTime()/duration, 0, 1) * float64(width))
	buffered := int(util.Clamp(b.machine.BufferedEnd()/duration, 0, 1) * float64(width))
	buffered = max(buffered, played)

	return lipgloss.NewStyle().Foreground(style.AccentColor).Render(strings.Repeat("━", played)) +
		lipgloss.NewStyle().Foreground(style.Subtext).Render(strings.Repeat("━", buffered-played)) +
		lipgloss.NewStyle().Foreground(style.Surface).Render(strings.Repeat("─", width-buffered))
}

func (b *statefulBubble) titleOrURL() string {
	if b.options.Title != "" {
		return b.options.Title
	}
	return b.options.URL
}
