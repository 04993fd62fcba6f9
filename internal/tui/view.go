package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/posediver/media-picker/internal/cli"
	"github.com/posediver/media-picker/internal/media"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	placeholderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 4).Foreground(lipgloss.Color("245"))
	itemStyle        = lipgloss.NewStyle().PaddingLeft(2)
	detailStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	presentingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 2)
	alertStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("203")).Padding(0, 1)
	buttonStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Padding(0, 2)
)

const placeholderArt = `┌─┬───────┬─┐
├─┤       ├─┤
├─┤   ▶   ├─┤
├─┤       ├─┤
└─┴───────┴─┘`

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Media Picker"))
	b.WriteString("\n\n")

	if len(m.snapshot.Results) == 0 {
		b.WriteString(placeholderStyle.Render(placeholderArt + "\n\nNo media yet"))
	} else {
		b.WriteString(m.galleryView())
	}
	b.WriteString("\n\n")

	if m.snapshot.Presented {
		b.WriteString(presentingStyle.Render(presentingText(m.snapshot.PresentedSource)))
		b.WriteString("\n\n")
	}

	if m.alert != "" {
		b.WriteString(m.alertView())
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.alertKeys))
		return b.String()
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) galleryView() string {
	refs := m.snapshot.Results
	lines := make([]string, 0, len(refs)+1)
	lines = append(lines, statusStyle.Render(fmt.Sprintf("%d item(s)", len(refs))))
	for i, ref := range refs {
		line := fmt.Sprintf("%d. %s  %s", i+1, ref.Name(), detailStyle.Render(sourceLabel(ref)+" · "+cli.Describe(ref)))
		lines = append(lines, itemStyle.Render(line))
	}
	return strings.Join(lines, "\n")
}

func (m Model) alertView() string {
	width := 50
	if m.width > 0 {
		width = min(width, m.width-4)
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Width(width).Render(m.alert),
		"",
		buttonStyle.Render("OK"),
	)
	return alertStyle.Render(content)
}

func sourceLabel(ref media.Reference) string {
	if ref.Source == media.SourceCamera {
		return "recorded"
	}
	return "from library"
}

func presentingText(source media.Source) string {
	if source == media.SourceCamera {
		return "Recording… finish or cancel in the camera window"
	}
	return "Choose media in the file dialog…"
}
