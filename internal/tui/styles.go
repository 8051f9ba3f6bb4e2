package tui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorReddit    = lipgloss.Color("202") // Orange-red
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorError     = lipgloss.Color("196") // Red
	colorSuccess   = lipgloss.Color("78")  // Green
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorReddit).
	Padding(0, 1)

var subtitleStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Italic(true)

var inputErrorStyle = lipgloss.NewStyle().
	Foreground(colorError)

var hintStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

var bylineStyle = lipgloss.NewStyle().
	Foreground(colorSecondary)

var flairStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("24")).
	Padding(0, 1).
	MarginLeft(1)

var linkStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("39")).
	Underline(true)

var statsStyle = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

var postBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorReddit).
	Padding(0, 1)

var errorBanner = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(colorError).
	Padding(0, 1)

var historyTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

var selectedItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("62")).
	Padding(0, 1)

var normalItem = lipgloss.NewStyle().
	Padding(0, 1)

var statusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)
