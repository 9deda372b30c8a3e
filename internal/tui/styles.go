package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/meshinv/internal/version"
)

// AppName is shown in the container header
const AppName = "MESH DEVICE INVENTORY"

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 72 // Minimum supported terminal width
	DefaultWidth     = 100
	DefaultHeight    = 30
	ModalWidth       = 56
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor   = lipgloss.Color("#FFFFFF") // White
	SubtleColor = lipgloss.Color("#626262") // Gray
	BorderColor = lipgloss.Color("#7D56F4") // Purple (same as primary)
)

// Common styles
var (
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	MessageStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(1, 2)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Padding(1, 2)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	FilterChipStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 1)
)

// BuildHeaderContent creates header content with app name, version and source
func BuildHeaderContent(source string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " " + version.Version)

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(source)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderApplicationContainer wraps a screen in the full-terminal frame:
// header on top, content, and the help footer pinned to the bottom.
func RenderApplicationContainer(header, content, footerText string, terminalWidth, terminalHeight int) string {
	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Foreground(SubtleColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	styledHeader := headerStyle.Render(header)
	styledFooter := footerStyle.Render(footerText)

	// Pad content so the footer sits on the last rows
	used := lipgloss.Height(styledHeader) + lipgloss.Height(styledFooter) + 2
	contentHeight := terminalHeight - used
	if contentHeight < 1 {
		contentHeight = 1
	}
	styledContent := contentStyle.Height(contentHeight).Render(content)

	inner := lipgloss.JoinVertical(lipgloss.Left, styledHeader, styledContent, styledFooter)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}

// RenderModal centers modalContent on a dimmed full-screen backdrop
func RenderModal(modalContent string, terminalWidth, terminalHeight int) string {
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}

// Rect is a screen region in cells, end-exclusive
type Rect struct {
	X0, Y0, X1, Y1 int
}

// Contains reports whether the cell (x, y) lies inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

// ModalBounds returns where RenderModal places modalContent
func ModalBounds(modalContent string, terminalWidth, terminalHeight int) Rect {
	w := lipgloss.Width(modalContent)
	h := lipgloss.Height(modalContent)
	x := centerOffset(terminalWidth, w)
	y := centerOffset(terminalHeight, h)
	return Rect{X0: x, Y0: y, X1: x + w, Y1: y + h}
}

// centerOffset matches lipgloss.Place for center alignment: odd gaps put the
// extra cell after the content.
func centerOffset(total, size int) int {
	gap := total - size
	if gap <= 0 {
		return 0
	}
	return gap / 2
}

// SafeModalWidth keeps a modal inside the terminal
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	maxWidth := terminalWidth - 4
	if maxWidth < 40 {
		maxWidth = 40
	}
	if requestedWidth < maxWidth {
		return requestedWidth
	}
	return maxWidth
}
