// Package classification provides board texture analysis and the bet-size
// heuristic derived from it. Texture always reads the first three board
// cards (the flop), regardless of street.
package classification

import (
	"math"

	"github.com/pattty847/poker-trainer/internal/deck"
)

// BoardType represents the qualitative texture of a board
type BoardType string

const (
	Dry     BoardType = "dry"
	Wet     BoardType = "wet"
	Dynamic BoardType = "dynamic"
)

// SPRBucket buckets the stack-to-pot ratio
type SPRBucket string

const (
	Shallow SPRBucket = "shallow" // SPR < 3
	Mid     SPRBucket = "mid"     // 3 <= SPR <= 6
	Deep    SPRBucket = "deep"    // SPR > 6
)

// Features describes the texture of a flop plus the current SPR bucket.
type Features struct {
	Monotone      bool      `json:"monotone"`
	Paired        bool      `json:"paired"`
	Connected     bool      `json:"connected"`
	HighCardHeavy bool      `json:"highCardHeavy"`
	Type          BoardType `json:"type"`
	SPRBucket     SPRBucket `json:"sprBucket"`
}

// Classify analyzes the flop texture. With fewer than three board cards only
// the SPR bucket is meaningful; all booleans are false and the type is dry.
func Classify(board []deck.Card, spr float64) Features {
	feats := Features{Type: Dry, SPRBucket: bucketSPR(spr)}

	if len(board) < 3 {
		return feats
	}

	flop := board[:3]

	suits := make(map[deck.Suit]bool, 3)
	ranks := make(map[int]bool, 3)
	minRank, maxRank := int(deck.Ace), 0
	highCount := 0
	hasAce := false
	for _, c := range flop {
		suits[c.Suit] = true
		ranks[c.Value()] = true
		if c.Value() < minRank {
			minRank = c.Value()
		}
		if c.Value() > maxRank {
			maxRank = c.Value()
		}
		if c.Rank >= deck.Queen {
			highCount++
		}
		if c.IsAce() {
			hasAce = true
		}
	}

	feats.Monotone = len(suits) == 1
	feats.Paired = len(ranks) < 3
	feats.Connected = maxRank-minRank <= 4
	feats.HighCardHeavy = highCount >= 2 || hasAce

	if feats.Monotone || feats.Connected {
		feats.Type = Wet
	}
	if feats.Connected && feats.HighCardHeavy {
		feats.Type = Dynamic
	}

	return feats
}

func bucketSPR(spr float64) SPRBucket {
	switch {
	case spr < 3:
		return Shallow
	case spr <= 6:
		return Mid
	default:
		return Deep
	}
}

// RecommendedBetSize maps pot size and board features to a suggested bet,
// rounded to display precision.
func RecommendedBetSize(pot float64, feats Features) float64 {
	if pot <= 0 {
		return 0
	}

	base := 0.33
	switch {
	case feats.Type == Wet || feats.Type == Dynamic:
		if feats.SPRBucket == Shallow {
			base = 0.5
		} else {
			base = 0.66
		}
	case feats.Paired:
		base = 0.33
	case feats.HighCardHeavy && feats.SPRBucket != Deep:
		base = 0.25
	}

	return Round2(pot * base)
}

// Round2 rounds to two decimal places, the engine's display precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
