package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("62")  // Purple
	colorMuted   = lipgloss.Color("240") // Darker gray
	colorText    = lipgloss.Color("255")
	colorGood    = lipgloss.Color("78")  // Green
	colorFair    = lipgloss.Color("178") // Amber
	colorPoor    = lipgloss.Color("208") // Orange
	colorBad     = lipgloss.Color("196") // Red
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorText).
	Background(colorPrimary).
	Padding(0, 1)

var headingStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("212")).
	MarginTop(1)

var labelStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

var textStyle = lipgloss.NewStyle().
	Foreground(colorText)

var errorStyle = lipgloss.NewStyle().
	Foreground(colorBad).
	Bold(true)

var helpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(0, 1)

var statusBar = lipgloss.NewStyle().
	Foreground(colorText).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// gradeColor keys off the grade slug's letter
func gradeColor(slug string) lipgloss.Color {
	if slug == "" {
		return colorMuted
	}
	switch slug[0] {
	case 'a':
		return colorGood
	case 'b':
		return colorFair
	case 'c':
		return colorPoor
	default:
		return colorBad
	}
}

func gradeStyle(slug string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(gradeColor(slug))
}

var ratingColors = map[string]lipgloss.Color{
	"accurately-reported": colorGood,
	"partially-accurate":  colorFair,
	"misleading":          colorPoor,
	"unsupported":         colorBad,
}

func ratingStyle(slug string) lipgloss.Style {
	c, ok := ratingColors[slug]
	if !ok {
		c = colorMuted
	}
	return lipgloss.NewStyle().Foreground(c)
}
