package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorError     = lipgloss.Color("196")
	colorSplashBg  = lipgloss.Color("#1B1B1B")
	colorSplashFg  = lipgloss.Color("#E1E1E1")
)

// TitleStyle for the screen heading.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// HintStyle for secondary help text under the search box.
var HintStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(0, 1)

// InputStyle frames the search box.
var InputStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// CardStyle is the base species card; the background is set per species.
var CardStyle = lipgloss.NewStyle().
	Padding(0, 2).
	MarginLeft(1)

// MemberSelected style for the Pokémon under the cursor.
var MemberSelected = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// PagerEnabled and PagerDisabled render the prev/next affordances.
var (
	PagerEnabled = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)
	PagerDisabled = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true).
	Padding(0, 1)

// SplashTitle and SplashText style the welcome screen.
var (
	SplashTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))
	SplashText = lipgloss.NewStyle().
			Foreground(colorSplashFg)
	SplashButton = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 3)
	SplashFrame = lipgloss.NewStyle().
			Background(colorSplashBg).
			Padding(2, 6)
)

// DetailName and DetailHeader style the detail screen.
var (
	DetailName = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)
	DetailHeader = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Underline(true).
			Padding(0, 1)
	BackButton = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorSplashBg).
			Padding(0, 1)
)

// DebugPanel frames the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section headings inside the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
