package game

import (
	"sort"

	"github.com/pattty847/poker-trainer/internal/classification"
	"github.com/pattty847/poker-trainer/internal/deck"
	"github.com/pattty847/poker-trainer/internal/evaluator"
)

// PotTier is one layer of the pot: the main pot first, then side pots funded
// only by deeper contributions.
type PotTier struct {
	Amount   float64
	Eligible []int // seats that can win this tier
}

// calculateSidePots layers the pot by distinct contribution levels among the
// live seats. Folded seats' chips still fund the tiers they reach, but a
// folded seat is never eligible to win one.
func (s *Session) calculateSidePots() []PotTier {
	levelSet := make(map[float64]bool)
	for _, p := range s.players {
		if p.Active && !p.Folded && p.Contributed > 0 {
			levelSet[p.Contributed] = true
		}
	}

	levels := make([]float64, 0, len(levelSet))
	for level := range levelSet {
		levels = append(levels, level)
	}
	sort.Float64s(levels)

	tiers := make([]PotTier, 0, len(levels))
	prev := 0.0
	for _, level := range levels {
		tier := PotTier{}
		for _, p := range s.players {
			// Each seat funds the slice of its contribution between the
			// previous level and this one, even when it falls short of level
			tier.Amount += min(p.Contributed, level) - min(p.Contributed, prev)
			if p.Contributed >= level && p.Active && !p.Folded {
				tier.Eligible = append(tier.Eligible, p.Seat)
			}
		}
		if tier.Amount > 0 && len(tier.Eligible) > 0 {
			tiers = append(tiers, tier)
		}
		prev = level
	}

	return tiers
}

// evaluateShowdown runs once per hand, when street advancement reaches
// showdown. A fold ends the hand without it. Each tier goes to the eligible
// seats tied at the best hand; the pot is zero afterwards.
func (s *Session) evaluateShowdown() {
	tiers := s.calculateSidePots()

	for i, tier := range tiers {
		winners := tier.Eligible
		if len(tier.Eligible) > 1 {
			winners = s.bestHands(tier.Eligible)
		}

		share := tier.Amount / float64(len(winners))
		for _, seat := range winners {
			s.players[seat].Stack += share
		}

		potIndex := i
		s.history = append(s.history, HistoryEntry{
			Actor:    ActorResult,
			Move:     "award",
			Street:   Showdown,
			PotIndex: &potIndex,
			Amount:   classification.Round2(tier.Amount),
			Winners:  winners,
			Share:    classification.Round2(share),
		})

		s.logger.Debug("pot awarded",
			"potIndex", potIndex,
			"amount", tier.Amount,
			"winners", winners)
	}

	s.pot = 0
}

// bestHands evaluates each eligible seat's seven cards and returns every
// seat tied at the maximal key.
func (s *Session) bestHands(eligible []int) []int {
	var best evaluator.Value
	var winners []int

	for _, seat := range eligible {
		p := s.players[seat]
		cards := make([]deck.Card, 0, len(p.Cards)+len(s.board))
		cards = append(cards, p.Cards...)
		cards = append(cards, s.board...)

		value := evaluator.Evaluate(cards)
		if winners == nil {
			best = value
			winners = []int{seat}
			continue
		}

		switch value.Compare(best) {
		case 1:
			best = value
			winners = []int{seat}
		case 0:
			winners = append(winners, seat)
		}
	}

	return winners
}
