package game

import (
	"github.com/pattty847/poker-trainer/internal/classification"
)

// CallPolicy decides whether a seat calls a pending bet. Policies are pure
// and deterministic; the state machine invokes them synchronously inside the
// human seat's action, so a turn never suspends mid-decision.
type CallPolicy interface {
	ShouldCall(callAmount, pot float64) bool
}

// BetPolicy decides whether the scripted opponent bets when checked to.
type BetPolicy interface {
	ShouldBet(feats classification.Features) bool
}

// PotOddsPolicy calls whenever the pending price is at or below a fixed
// pot-odds threshold. No randomness, no bluffing.
type PotOddsPolicy struct {
	Threshold float64
}

// ShouldCall reports whether callAmount is priced in against the pot.
func (p PotOddsPolicy) ShouldCall(callAmount, pot float64) bool {
	if callAmount <= 0 {
		return true
	}
	return callAmount/(pot+callAmount) <= p.Threshold
}

// TextureBetPolicy bets dry boards and unsuited high-card boards, and checks
// back wet or monotone ones.
type TextureBetPolicy struct{}

// ShouldBet reports whether the opponent stabs at the given texture.
func (TextureBetPolicy) ShouldBet(feats classification.Features) bool {
	return feats.Type == classification.Dry || (feats.HighCardHeavy && !feats.Monotone)
}

// Default policy thresholds. The villain calls slightly wider than the hero.
const (
	villainCallThreshold = 0.40
	heroCallThreshold    = 0.38
)
