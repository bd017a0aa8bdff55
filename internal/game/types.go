package game

// Street represents a betting phase of a hand. Streets only ever move
// forward, or jump straight to showdown on a fold.
type Street string

const (
	Preflop  Street = "preflop"
	Flop     Street = "flop"
	Turn     Street = "turn"
	River    Street = "river"
	Showdown Street = "showdown"
)

// Action represents a move available to the human seat
type Action string

const (
	Fold  Action = "fold"
	Call  Action = "call"
	Raise Action = "raise"
	Check Action = "check"
	Bet   Action = "bet"
)

// Position tags for the two acting seats
const (
	PositionButton   = "btn"
	PositionBigBlind = "bb"
)

// Actor labels used in the history log
const (
	ActorHero    = "hero"
	ActorVillain = "villain"
	ActorResult  = "result"
)

// HistoryEntry is one immutable event in a hand's append-only log. Blind
// posts are the first two entries of every hand. Result entries carry the
// pot-distribution fields; action entries leave them zero.
type HistoryEntry struct {
	Actor  string   `json:"actor"`
	Move   string   `json:"move"`
	Size   *float64 `json:"size"`
	Street Street   `json:"street"`

	PotIndex *int    `json:"potIndex,omitempty"`
	Amount   float64 `json:"amount,omitempty"`
	Winners  []int   `json:"winners,omitempty"`
	Share    float64 `json:"share,omitempty"`
}
