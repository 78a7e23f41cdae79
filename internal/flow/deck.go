package flow

import (
	"github.com/example/wordquest/internal/shuffle"
	"github.com/example/wordquest/pkg/models"
)

// Deck is a shuffled flashcard deck over a lesson's vocabulary.
// Navigation is clamped at both ends.
type Deck struct {
	cards []models.VocabItem
	index int
}

// NewDeck shuffles a copy of items into a deck
func NewDeck(src shuffle.Source, items []models.VocabItem) *Deck {
	return &Deck{cards: shuffle.Shuffle(src, items)}
}

// Card returns the current card
func (d *Deck) Card() (models.VocabItem, bool) {
	if len(d.cards) == 0 {
		return models.VocabItem{}, false
	}
	return d.cards[d.index], true
}

func (d *Deck) Index() int { return d.index }
func (d *Deck) Len() int   { return len(d.cards) }

func (d *Deck) HasNext() bool { return d.index < len(d.cards)-1 }
func (d *Deck) HasPrev() bool { return d.index > 0 }

// Next moves forward one card, reporting whether it moved
func (d *Deck) Next() bool {
	if !d.HasNext() {
		return false
	}
	d.index++
	return true
}

// Prev moves back one card, reporting whether it moved
func (d *Deck) Prev() bool {
	if !d.HasPrev() {
		return false
	}
	d.index--
	return true
}
