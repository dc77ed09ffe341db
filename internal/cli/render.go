package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"TrendDeck/internal/colour"
	"TrendDeck/internal/domain"
)

func renderState(w io.Writer, state domain.PipelineState, selector colour.Selector) {
	switch state.Kind {
	case domain.StateFailed:
		fmt.Fprintf(w, "Pipeline failed: %s\n", state.Message)
	case domain.StateReady:
		renderDeck(w, state.Deck, selector)
	default:
		fmt.Fprintln(w, "Loading...")
	}
}

// renderDeck prints one row per card. The styled chip goes last so ANSI
// sequences and wide emoji do not disturb column alignment.
func renderDeck(w io.Writer, deck domain.Deck, selector colour.Selector) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCOLOUR\tTEXT\tURL\tCARD")
	for i, card := range deck {
		textColor := selector.PickTextColor(card.Color)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			i+1,
			card.Color,
			textColor,
			orDash(card.URL),
			cardChip(card, textColor),
		)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\n%d of %d cards filled\n", deck.Filled(), domain.DeckSize)
}

func cardChip(card domain.Card, textColor string) string {
	label := strings.TrimSpace(card.Emoji + " " + card.Title)
	if label == "" {
		label = "(empty)"
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(card.Color)).
		Foreground(lipgloss.Color(textColor)).
		Padding(0, 1).
		Render(label)
}

func renderHistory(w io.Writer, runs []domain.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No stored decks.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCREATED\tCARDS")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\n",
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04:05Z07:00"),
			run.Filled,
			domain.DeckSize,
		)
	}
	_ = tw.Flush()
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
