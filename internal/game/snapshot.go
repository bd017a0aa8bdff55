package game

import (
	"github.com/pattty847/poker-trainer/internal/classification"
	"github.com/pattty847/poker-trainer/internal/deck"
)

// Snapshot is the read-only state view handed to the service layer. Money is
// rounded to two decimals here and only here; internal accounting keeps full
// precision.
type Snapshot struct {
	SessionID string         `json:"sessionId,omitempty"`
	Street    Street         `json:"street"`
	Hero      SeatView       `json:"hero"`
	Villain   SeatView       `json:"villain"`
	Board     []deck.Card    `json:"board"`
	Pot       float64        `json:"pot"`
	SPR       float64        `json:"spr"`
	Action    LegalActions   `json:"action"`
	History   []HistoryEntry `json:"history"`
	Metadata  Metadata       `json:"metadata"`
}

// SeatView is the hero/villain summary; only the hero's cards are present.
type SeatView struct {
	Stack    float64     `json:"stack"`
	Position string      `json:"position"`
	Cards    []deck.Card `json:"cards,omitempty"`
}

// LegalActions describes what the human seat may do right now.
type LegalActions struct {
	ToAct string   `json:"toAct"`
	Legal []Action `json:"legal"`
	Min   float64  `json:"min"`
	Max   float64  `json:"max"`
}

// PlayerView is the public per-seat record. Hole cards are included for the
// hero seat only; other seats' stay empty (no showdown reveal).
type PlayerView struct {
	Seat        int         `json:"seat"`
	Stack       float64     `json:"stack"`
	Position    string      `json:"position"`
	Folded      bool        `json:"folded"`
	Active      bool        `json:"active"`
	Contributed float64     `json:"contributed"`
	CurrentBet  float64     `json:"current_bet"`
	Cards       []deck.Card `json:"cards"`
	Scripted    bool        `json:"isScriptedOpponent"`
}

// Metadata carries derived state for clients and coaches.
type Metadata struct {
	OpponentType  string                  `json:"opponentType"`
	BoardFeatures classification.Features `json:"boardFeatures"`
	ToActSeat     int                     `json:"toActSeat"`
	CurrentBet    float64                 `json:"currentBet"`
	Players       []PlayerView            `json:"players"`
}

// Snapshot returns the current state without mutating anything.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	hero := s.hero()
	villain := s.villain()
	spr := s.spr()
	feats := classification.Classify(s.board, spr)

	board := make([]deck.Card, len(s.board))
	copy(board, s.board)
	history := make([]HistoryEntry, len(s.history))
	copy(history, s.history)

	players := make([]PlayerView, len(s.players))
	for i, p := range s.players {
		view := PlayerView{
			Seat:        p.Seat,
			Stack:       classification.Round2(p.Stack),
			Position:    p.Position,
			Folded:      p.Folded,
			Active:      p.Active,
			Contributed: classification.Round2(p.Contributed),
			CurrentBet:  classification.Round2(p.CurrentBet),
			Cards:       []deck.Card{},
			Scripted:    p.Scripted,
		}
		if p == hero {
			view.Cards = append([]deck.Card{}, p.Cards...)
		}
		players[i] = view
	}

	heroCards := make([]deck.Card, len(hero.Cards))
	copy(heroCards, hero.Cards)

	return Snapshot{
		Street: s.street,
		Hero: SeatView{
			Stack:    classification.Round2(hero.Stack),
			Position: hero.Position,
			Cards:    heroCards,
		},
		Villain: SeatView{
			Stack:    classification.Round2(villain.Stack),
			Position: villain.Position,
		},
		Board:   board,
		Pot:     classification.Round2(s.pot),
		SPR:     classification.Round2(spr),
		Action:  s.legalActions(feats),
		History: history,
		Metadata: Metadata{
			OpponentType:  "deterministic_mock",
			BoardFeatures: feats,
			ToActSeat:     s.toAct,
			CurrentBet:    classification.Round2(s.currentBet),
			Players:       players,
		},
	}
}

// legalActions derives the human seat's options from the current street.
func (s *Session) legalActions(feats classification.Features) LegalActions {
	hero := s.hero()

	switch s.street {
	case Preflop:
		return LegalActions{
			ToAct: ActorHero,
			Legal: []Action{Fold, Call, Raise},
			Min:   classification.Round2(s.cfg.BigBlind * 2),
			Max:   classification.Round2(hero.Stack),
		}
	case Flop, Turn:
		return LegalActions{
			ToAct: ActorHero,
			Legal: []Action{Check, Bet},
			Min:   classification.RecommendedBetSize(s.pot, feats),
			Max:   classification.Round2(hero.Stack),
		}
	case River:
		// No betting modeled; the hand checks down
		return LegalActions{ToAct: ActorHero, Legal: []Action{Check}}
	default:
		return LegalActions{Legal: []Action{}}
	}
}
