package game

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/pattty847/poker-trainer/internal/classification"
	"github.com/pattty847/poker-trainer/internal/deck"
)

// Config holds the parameters a session is created with.
type Config struct {
	SmallBlind    float64
	BigBlind      float64
	StartingStack float64
	Seed          int64
	Seats         int // seats beyond the two acting ones exist for showdown distribution only
}

// Session owns one table: a deck, a seat list, the pot and the per-street
// betting state machine against the scripted opponent. All access is
// serialized by the session mutex; independent sessions share nothing.
type Session struct {
	mu sync.Mutex

	cfg  Config
	seed int64

	deck       *deck.Deck
	players    []*Player
	board      []deck.Card
	pot        float64
	street     Street
	currentBet float64 // highest committed amount this street
	toAct      int
	btnSeat    int
	history    []HistoryEntry

	heroPolicy    CallPolicy
	villainPolicy CallPolicy
	betPolicy     BetPolicy

	logger *log.Logger
}

// Option configures a session at construction time.
type Option func(*Session)

// WithLogger attaches a logger for per-action debug output.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithHeroPolicy overrides the hero's scripted call policy.
func WithHeroPolicy(p CallPolicy) Option {
	return func(s *Session) { s.heroPolicy = p }
}

// WithVillainPolicy overrides the opponent's call policy.
func WithVillainPolicy(p CallPolicy) Option {
	return func(s *Session) { s.villainPolicy = p }
}

// WithBetPolicy overrides the opponent's bet-or-check policy.
func WithBetPolicy(p BetPolicy) Option {
	return func(s *Session) { s.betPolicy = p }
}

// NewSession creates a session, posts blinds and deals hole cards.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if cfg.SmallBlind <= 0 || cfg.BigBlind <= cfg.SmallBlind {
		return nil, fmt.Errorf("invalid blinds %v/%v", cfg.SmallBlind, cfg.BigBlind)
	}
	if cfg.StartingStack < cfg.BigBlind {
		return nil, fmt.Errorf("starting stack %v below big blind", cfg.StartingStack)
	}
	if cfg.Seats < 2 {
		cfg.Seats = 2
	}

	s := &Session{
		cfg:           cfg,
		seed:          cfg.Seed,
		heroPolicy:    PotOddsPolicy{Threshold: heroCallThreshold},
		villainPolicy: PotOddsPolicy{Threshold: villainCallThreshold},
		betPolicy:     TextureBetPolicy{},
		logger:        log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.players = make([]*Player, cfg.Seats)
	for seat := range s.players {
		s.players[seat] = &Player{Seat: seat, Stack: cfg.StartingStack}
	}
	s.players[0].Active = true
	s.players[1].Active = true
	s.players[1].Scripted = true

	s.startHand()
	return s, nil
}

// ResetHand starts the next hand on the same session: reshuffle, rotate the
// button, reset per-hand fields, re-post blinds, re-deal. Stacks carry over.
func (s *Session) ResetHand(seed *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seed != nil {
		s.seed = *seed
	} else {
		// Advance deterministically so an unseeded reset still reshuffles
		s.seed++
	}
	s.btnSeat = 1 - s.btnSeat

	for _, p := range s.players {
		p.Position = ""
		p.Cards = nil
		p.Folded = false
		p.Contributed = 0
		p.CurrentBet = 0
	}

	s.startHand()
}

// startHand assumes per-hand fields are zeroed and the button is set.
func (s *Session) startHand() {
	s.deck = deck.New(s.seed)
	s.board = nil
	s.pot = 0
	s.street = Preflop
	s.currentBet = 0
	s.history = nil
	s.toAct = s.btnSeat

	btn := s.players[s.btnSeat]
	bb := s.players[1-s.btnSeat]
	btn.Position = PositionButton
	bb.Position = PositionBigBlind

	s.pot += btn.commit(s.cfg.SmallBlind)
	s.pot += bb.commit(s.cfg.BigBlind)
	s.currentBet = s.cfg.BigBlind
	s.appendAction(s.actorLabel(btn), "post_sb", sizeOf(s.cfg.SmallBlind))
	s.appendAction(s.actorLabel(bb), "post_bb", sizeOf(s.cfg.BigBlind))

	// Hero first for determinism, then the scripted opponent
	s.hero().Cards = s.deck.Draw(2)
	s.villain().Cards = s.deck.Draw(2)

	s.logger.Debug("hand started", "seed", s.seed, "button", s.btnSeat)
}

// hero returns the human acting seat; villain the scripted one. Lookups,
// never separate storage.
func (s *Session) hero() *Player {
	if s.players[0].Scripted {
		return s.players[1]
	}
	return s.players[0]
}

func (s *Session) villain() *Player {
	if s.players[0].Scripted {
		return s.players[0]
	}
	return s.players[1]
}

func (s *Session) actorLabel(p *Player) string {
	if p.Scripted {
		return ActorVillain
	}
	return ActorHero
}

// ApplyAction consumes exactly one decision from the human seat and, except
// on a fold, resolves the scripted opponent's reply in the same call. All
// validation happens before any mutation.
func (s *Session) ApplyAction(action Action, size *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.street {
	case Preflop:
		return s.applyPreflop(action, size)
	case Flop, Turn:
		return s.applyPostflop(action, size)
	case River:
		// No betting modeled on the river: a check checks the hand down
		if action != Check {
			return fmt.Errorf("%w: %s on river", ErrInvalidAction, action)
		}
		s.appendAction(ActorHero, string(Check), nil)
		s.appendAction(ActorVillain, string(Check), nil)
		s.advanceStreet()
		return nil
	default:
		return fmt.Errorf("%w: hand is over", ErrInvalidAction)
	}
}

func (s *Session) applyPreflop(action Action, size *float64) error {
	hero := s.hero()
	villain := s.villain()

	switch action {
	case Fold:
		s.appendAction(ActorHero, string(Fold), nil)
		hero.Folded = true
		s.street = Showdown
		s.logger.Debug("hero folded preflop", "pot", s.pot)
		return nil

	case Call:
		callAmt := s.cfg.BigBlind - s.cfg.SmallBlind
		if callAmt < 0 {
			callAmt = 0
		}
		s.pot += hero.commit(callAmt)
		s.appendAction(ActorHero, string(Call), sizeOf(callAmt))
		// Big blind checks behind, closing the round
		s.appendAction(ActorVillain, string(Check), nil)
		s.advanceToFlop()
		return nil

	case Raise:
		bet := s.cfg.BigBlind * 2.5
		if size != nil {
			bet = *size
		}
		if bet < s.cfg.BigBlind*2 {
			return fmt.Errorf("%w: raise %.2f below minimum %.2f", ErrInvalidAction, bet, s.cfg.BigBlind*2)
		}
		if bet-hero.CurrentBet > hero.Stack {
			return fmt.Errorf("%w: raise to %.2f with stack %.2f", ErrInsufficientStack, bet, hero.Stack)
		}

		s.pot += hero.commit(bet - hero.CurrentBet)
		s.currentBet = bet
		s.appendAction(ActorHero, string(Raise), sizeOf(bet))

		toCall := bet - villain.CurrentBet
		if s.villainPolicy.ShouldCall(toCall, s.pot) && toCall <= villain.Stack {
			s.pot += villain.commit(toCall)
			s.appendAction(ActorVillain, string(Call), sizeOf(toCall))
			s.advanceToFlop()
		} else {
			s.appendAction(ActorVillain, string(Fold), nil)
			villain.Folded = true
			s.street = Showdown
		}
		return nil

	default:
		return fmt.Errorf("%w: %s preflop", ErrInvalidAction, action)
	}
}

func (s *Session) applyPostflop(action Action, size *float64) error {
	hero := s.hero()
	villain := s.villain()

	switch action {
	case Check:
		s.appendAction(ActorHero, string(Check), nil)

		feats := classification.Classify(s.board, s.spr())
		if !s.betPolicy.ShouldBet(feats) {
			s.appendAction(ActorVillain, string(Check), nil)
			s.advanceStreet()
			return nil
		}

		vBet := classification.RecommendedBetSize(s.pot, feats)
		if vBet > villain.Stack {
			vBet = villain.Stack
		}
		s.pot += villain.commit(vBet)
		s.currentBet = villain.CurrentBet
		s.appendAction(ActorVillain, string(Bet), sizeOf(vBet))

		if s.heroPolicy.ShouldCall(vBet, s.pot) {
			s.pot += hero.commit(vBet)
			s.appendAction(ActorHero, string(Call), sizeOf(vBet))
			s.advanceStreet()
		} else {
			s.appendAction(ActorHero, string(Fold), nil)
			hero.Folded = true
			s.street = Showdown
		}
		return nil

	case Bet:
		amt := classification.Round2(s.pot * 0.33)
		if size != nil {
			amt = *size
		}
		if amt <= 0 {
			return fmt.Errorf("%w: bet must be positive", ErrInvalidAction)
		}
		if amt > hero.Stack {
			return fmt.Errorf("%w: bet %.2f with stack %.2f", ErrInsufficientStack, amt, hero.Stack)
		}

		s.pot += hero.commit(amt)
		s.currentBet = hero.CurrentBet
		s.appendAction(ActorHero, string(Bet), sizeOf(amt))

		if s.villainPolicy.ShouldCall(amt, s.pot) {
			s.pot += villain.commit(amt)
			s.appendAction(ActorVillain, string(Call), sizeOf(amt))
			s.advanceStreet()
		} else {
			s.appendAction(ActorVillain, string(Fold), nil)
			villain.Folded = true
			s.street = Showdown
		}
		return nil

	default:
		return fmt.Errorf("%w: %s on %s", ErrInvalidAction, action, s.street)
	}
}

func (s *Session) advanceToFlop() {
	s.resetStreetBets()
	s.board = append(s.board, s.deck.Draw(3)...)
	s.street = Flop
	s.toAct = 1 - s.btnSeat
	s.logger.Debug("street advanced", "street", s.street, "board", s.board, "pot", s.pot)
}

func (s *Session) advanceStreet() {
	s.resetStreetBets()
	switch s.street {
	case Flop:
		s.board = append(s.board, s.deck.Draw(1)...)
		s.street = Turn
	case Turn:
		s.board = append(s.board, s.deck.Draw(1)...)
		s.street = River
	case River:
		s.street = Showdown
		s.evaluateShowdown()
		return
	}
	s.toAct = 1 - s.btnSeat
	s.logger.Debug("street advanced", "street", s.street, "board", s.board, "pot", s.pot)
}

func (s *Session) resetStreetBets() {
	for _, p := range s.players {
		p.CurrentBet = 0
	}
	s.currentBet = 0
}

// spr is the combined acting stacks over the pot, or 0 for an empty pot.
func (s *Session) spr() float64 {
	if s.pot <= 0 {
		return 0
	}
	return (s.hero().Stack + s.villain().Stack) / s.pot
}

func (s *Session) appendAction(actor, move string, size *float64) {
	s.history = append(s.history, HistoryEntry{
		Actor:  actor,
		Move:   move,
		Size:   size,
		Street: s.street,
	})
}

// NextToAct returns the next acting seat that can still act, skipping folded
// and all-in seats, or -1 when nobody can. Forward-looking hook: only the
// two blind seats ever act in the current machine.
func (s *Session) NextToAct() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextToAct()
}

func (s *Session) nextToAct() int {
	for i := 0; i < 2; i++ {
		seat := (s.toAct + i) % 2
		if s.players[seat].CanAct() {
			return seat
		}
	}
	return -1
}

// ActivePlayers returns the seats still eligible to win the hand.
func (s *Session) ActivePlayers() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	seats := make([]int, 0, len(s.players))
	for _, p := range s.players {
		if p.Active && !p.Folded {
			seats = append(seats, p.Seat)
		}
	}
	return seats
}

// IsBettingRoundComplete reports whether every seat that can act has matched
// the street's bet level. Forward-looking hook for multi-way rotation.
func (s *Session) IsBettingRoundComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.players {
		if p.CanAct() && p.CurrentBet != s.currentBet {
			return false
		}
	}
	return true
}

func sizeOf(v float64) *float64 {
	r := classification.Round2(v)
	return &r
}
