package domain

import "time"

const (
	// DeckSize is the fixed number of slots in every deck.
	DeckSize = 20

	// FallbackColor replaces any missing or malformed AI colour.
	FallbackColor = "#FFFFFF"
)

// Article is a trending entry fetched from the feed.
type Article struct {
	Title string
	Emoji string
	URL   string
}

// Card pairs an article with a validated background colour.
type Card struct {
	Title string
	Emoji string
	URL   string
	Color string
}

// Placeholder reports whether the card fills a slot without an article.
func (c Card) Placeholder() bool {
	return c.Title == "" && c.Emoji == "" && c.URL == ""
}

// Deck is the ordered, fixed-length set of cards produced by one run.
type Deck [DeckSize]Card

// Cards returns the deck as a slice in positional order.
func (d Deck) Cards() []Card {
	return d[:]
}

// Filled counts the cards backed by an article.
func (d Deck) Filled() int {
	n := 0
	for _, c := range d {
		if !c.Placeholder() {
			n++
		}
	}
	return n
}

// DeckRun is a published deck snapshot kept in history.
type DeckRun struct {
	ID        string
	CreatedAt time.Time
	Deck      Deck
}

// RunSummary describes a stored run without its cards.
type RunSummary struct {
	ID        string
	CreatedAt time.Time
	Filled    int
}
