package deck

import (
	"fmt"
	"math/rand"
)

// Deck is an ordered 52-card sequence permuted by a seeded PRNG. The RNG is
// owned by the deck, so the same seed always yields the same permutation and
// therefore the same hand given identical actions.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a shuffled 52-card deck from the given seed.
func New(seed int64) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rand.New(rand.NewSource(seed)),
	}

	for rank := Two; rank <= Ace; rank++ {
		for suit := Spades; suit <= Clubs; suit++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}

	d.shuffle()
	return d
}

func (d *Deck) shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the first n cards. Drawing past the end of the
// deck cannot happen under the documented seat/street limits, so it is an
// invariant violation rather than a recoverable error.
func (d *Deck) Draw(n int) []Card {
	if n > len(d.cards) {
		panic(fmt.Sprintf("deck exhausted: draw %d with %d remaining", n, len(d.cards)))
	}

	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
