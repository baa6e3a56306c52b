package ui

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abelbrown/pokesearch/internal/pokeapi"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	welcomeTitle    = "Welcome to Pokésearch"
	welcomeSubtitle = "Search Pokémon species and jump into details."
	homeTitle       = "Pokémon Search"
	searchLabel     = "Search species"
	searchHint      = "Searching as you type…"
	loadingText     = "Loading Pokémon..."
	noResultsText   = "No species found. Try another search."
	noSelectionText = "No Pokémon selected."
	noAbilitiesText = "No abilities listed."
)

// homeChrome is the number of lines above the card list: title, label,
// the bordered input (3) and the hint.
const homeChrome = 6

// capitalize upper-cases the first rune of an API name.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// truncateRunes clips s to n display cells, appending an ellipsis when
// anything was cut.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return runewidth.Truncate(s, n, "…")
}

func renderWelcome(width, height int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		SplashTitle.Render(welcomeTitle),
		"",
		SplashText.Render(welcomeSubtitle),
		"",
		SplashButton.Render("Start"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, SplashFrame.Render(content))
}

func (a App) renderHome(height int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(homeTitle) + "\n")
	b.WriteString(HintStyle.Render(searchLabel) + "\n")
	b.WriteString(InputStyle.Render(a.input.View()) + "\n")
	b.WriteString(HintStyle.Render(searchHint) + "\n")

	s := a.state
	switch {
	case s.IsLoading:
		b.WriteString(" " + a.spinner.View() + " " + loadingText)
		return b.String()
	case s.ErrorMessage != "":
		b.WriteString(ErrorStyle.Render(s.ErrorMessage) + "\n")
		b.WriteString(HintStyle.Render("Press ctrl+r to retry."))
		return b.String()
	case s.NoResults():
		b.WriteString(HintStyle.Render(noResultsText) + "\n")
	}

	// One line for the pager, one spare.
	listHeight := height - homeChrome - 2
	b.WriteString(a.renderCards(listHeight))
	b.WriteString("\n" + renderPager(s.CanGoPrevious(), s.CanGoNext(), s.CurrentPage+1, s.TotalPages()))
	return b.String()
}

// renderCards renders every species card, then windows the lines so the
// cursor row stays visible.
func (a App) renderCards(height int) string {
	if len(a.state.Species) == 0 || height < 1 {
		return ""
	}
	cardWidth := max(20, a.width-4)

	var lines []string
	cursorLine := 0
	rowIdx := 0
	for _, sp := range a.state.Species {
		style := cardStyle(sp.Color())
		var card []string
		card = append(card, truncateRunes(capitalize(sp.Name), cardWidth-4))
		card = append(card, fmt.Sprintf("Capture rate: %d", sp.CaptureRate))
		card = append(card, "Pokémon")
		for _, p := range sp.Pokemons {
			name := "  " + truncateRunes(capitalize(p.Name), cardWidth-8)
			if rowIdx == a.cursor {
				name = MemberSelected.Render("› " + truncateRunes(capitalize(p.Name), cardWidth-8))
				cursorLine = len(lines) + len(card)
			}
			card = append(card, name)
			rowIdx++
		}
		lines = append(lines, strings.Split(style.Width(cardWidth).Render(strings.Join(card, "\n")), "\n")...)
		lines = append(lines, "")
	}

	start := 0
	if cursorLine >= height {
		start = cursorLine - height + 1
	}
	end := min(len(lines), start+height)
	return strings.Join(lines[start:end], "\n")
}

func renderPager(canPrev, canNext bool, page, total int) string {
	prev := PagerDisabled.Render("◀ Prev")
	if canPrev {
		prev = PagerEnabled.Render("◀ Prev")
	}
	next := PagerDisabled.Render("Next ▶")
	if canNext {
		next = PagerEnabled.Render("Next ▶")
	}
	return " " + prev + "   " + fmt.Sprintf("Page %d of %d", page, total) + "   " + next
}

func renderDetail(p *pokeapi.Pokemon, width int) string {
	var b strings.Builder
	b.WriteString(BackButton.Render("← Back") + "\n\n")
	if p == nil {
		b.WriteString(HintStyle.Render(noSelectionText))
		return b.String()
	}
	b.WriteString(DetailName.Render(truncateRunes(capitalize(p.Name), max(10, width-2))) + "\n\n")
	b.WriteString(DetailHeader.Render("Abilities") + "\n")
	if len(p.Abilities) == 0 {
		b.WriteString(HintStyle.Render(noAbilitiesText))
		return b.String()
	}
	for _, ab := range p.Abilities {
		b.WriteString("  • " + ab + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
