package game

import (
	"github.com/pattty847/poker-trainer/internal/deck"
)

// Player is the per-seat record for one hand. The seat list is the single
// source of truth; hero and the scripted opponent are lookups by seat, never
// separate storage.
type Player struct {
	Seat        int
	Stack       float64
	Position    string // btn or bb for the acting seats, empty otherwise
	Cards       []deck.Card
	Folded      bool
	Active      bool
	Contributed float64 // total chips put in this hand, never decreases
	CurrentBet  float64 // chips committed this street, reset at street boundaries
	Scripted    bool
}

// CanAct returns true if the seat can still take an action this hand
func (p *Player) CanAct() bool {
	return p.Active && !p.Folded && p.Stack > 0
}

// commit moves chips from the player's stack into the pot accounting.
// Callers validate amounts; commit clamps at the remaining stack so a
// scripted call can never drive a stack negative.
func (p *Player) commit(amount float64) float64 {
	if amount > p.Stack {
		amount = p.Stack
	}
	p.Stack -= amount
	p.Contributed += amount
	p.CurrentBet += amount
	return amount
}
