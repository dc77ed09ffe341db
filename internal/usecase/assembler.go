package usecase

import (
	"TrendDeck/internal/colour"
	"TrendDeck/internal/domain"
)

// Assemble builds the fixed-size deck. Missing articles become placeholders with the
// fallback colour, and any absent, short or invalid colour for a real article falls back
// to domain.FallbackColor. A nil colors slice means annotation produced nothing.
func Assemble(articles []domain.Article, colors []string) domain.Deck {
	var deck domain.Deck
	for i := range deck {
		var article domain.Article
		color := domain.FallbackColor
		if i < len(articles) {
			article = articles[i]
			if i < len(colors) && colour.IsValid(colors[i]) {
				color = colors[i]
			}
		}

		deck[i] = domain.Card{
			Title: article.Title,
			Emoji: article.Emoji,
			URL:   article.URL,
			Color: color,
		}
	}
	return deck
}
