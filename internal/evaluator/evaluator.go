// Package evaluator ranks 7-card poker hands into a comparable key:
// a category, a lexicographic tie-break tuple, and the best five cards.
package evaluator

import (
	"sort"

	"github.com/pattty847/poker-trainer/internal/deck"
)

// Category represents the class of a poker hand (higher is better)
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns the string representation of a hand category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Value is the comparable result of evaluating a hand.
type Value struct {
	Category Category
	TieBreak []int // Rank values compared lexicographically within a category
	BestFive []deck.Card
}

// Compare returns 1 if v beats other, -1 if other beats v, 0 on a tie.
func (v Value) Compare(other Value) int {
	if v.Category != other.Category {
		if v.Category > other.Category {
			return 1
		}
		return -1
	}

	for i := 0; i < len(v.TieBreak) && i < len(other.TieBreak); i++ {
		if v.TieBreak[i] != other.TieBreak[i] {
			if v.TieBreak[i] > other.TieBreak[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Evaluate ranks the given cards (normally 2 hole + 5 board). It tolerates
// fewer than 7 cards so callers can probe partial boards defensively.
func Evaluate(cards []deck.Card) Value {
	bySuit := make(map[deck.Suit][]deck.Card, 4)
	byRank := make(map[int][]deck.Card, 13)
	for _, c := range cards {
		bySuit[c.Suit] = append(bySuit[c.Suit], c)
		byRank[c.Value()] = append(byRank[c.Value()], c)
	}

	// Flush requires five cards of one suit
	var flushCards []deck.Card
	for _, suited := range bySuit {
		if len(suited) >= 5 {
			flushCards = sortedDesc(suited)
			break
		}
	}

	// Straight flush: a straight restricted to the flush-suited subset
	if flushCards != nil {
		if high, five := bestStraight(flushCards); high > 0 {
			return Value{Category: StraightFlush, TieBreak: []int{high}, BestFive: five}
		}
	}

	// Group ranks by multiplicity, highest rank first within each group
	var quads, trips, pairs, singles []int
	for rank, group := range byRank {
		switch len(group) {
		case 4:
			quads = append(quads, rank)
		case 3:
			trips = append(trips, rank)
		case 2:
			pairs = append(pairs, rank)
		case 1:
			singles = append(singles, rank)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(quads)))
	sort.Sort(sort.Reverse(sort.IntSlice(trips)))
	sort.Sort(sort.Reverse(sort.IntSlice(pairs)))
	sort.Sort(sort.Reverse(sort.IntSlice(singles)))

	if len(quads) > 0 {
		quad := quads[0]
		kicker := bestKickers(byRank, []int{quad}, 1)
		five := append(append([]deck.Card{}, byRank[quad]...), kickerCards(byRank, kicker)...)
		return Value{Category: FourOfAKind, TieBreak: []int{quad, kicker[0]}, BestFive: five}
	}

	if len(trips) > 0 && (len(pairs) > 0 || len(trips) > 1) {
		trip := trips[0]
		pair := 0
		if len(trips) > 1 {
			pair = trips[1]
		}
		if len(pairs) > 0 && pairs[0] > pair {
			pair = pairs[0]
		}
		five := append(append([]deck.Card{}, byRank[trip]...), byRank[pair][:2]...)
		return Value{Category: FullHouse, TieBreak: []int{trip, pair}, BestFive: five}
	}

	if flushCards != nil {
		five := flushCards[:5]
		return Value{Category: Flush, TieBreak: ranksOf(five), BestFive: five}
	}

	if high, five := bestStraight(cards); high > 0 {
		return Value{Category: Straight, TieBreak: []int{high}, BestFive: five}
	}

	if len(trips) > 0 {
		trip := trips[0]
		kickers := bestKickers(byRank, []int{trip}, 2)
		five := append(append([]deck.Card{}, byRank[trip]...), kickerCards(byRank, kickers)...)
		return Value{Category: ThreeOfAKind, TieBreak: append([]int{trip}, kickers...), BestFive: five}
	}

	if len(pairs) >= 2 {
		high, low := pairs[0], pairs[1]
		kicker := bestKickers(byRank, []int{high, low}, 1)
		five := append(append([]deck.Card{}, byRank[high]...), byRank[low]...)
		five = append(five, kickerCards(byRank, kicker)...)
		return Value{Category: TwoPair, TieBreak: []int{high, low, kicker[0]}, BestFive: five}
	}

	if len(pairs) == 1 {
		pair := pairs[0]
		kickers := bestKickers(byRank, []int{pair}, 3)
		five := append(append([]deck.Card{}, byRank[pair]...), kickerCards(byRank, kickers)...)
		return Value{Category: OnePair, TieBreak: append([]int{pair}, kickers...), BestFive: five}
	}

	top := sortedDesc(cards)
	if len(top) > 5 {
		top = top[:5]
	}
	return Value{Category: HighCard, TieBreak: ranksOf(top), BestFive: top}
}

// bestStraight finds the highest 5-card straight among the given cards.
// Returns the straight's high rank (5 for the wheel) and one card per rank,
// or 0 and nil when no straight exists.
func bestStraight(cards []deck.Card) (int, []deck.Card) {
	byRank := make(map[int]deck.Card, len(cards))
	for _, c := range cards {
		if _, ok := byRank[c.Value()]; !ok {
			byRank[c.Value()] = c
		}
	}

	// Ace counts low only when completing the wheel
	if ace, ok := byRank[int(deck.Ace)]; ok {
		byRank[1] = ace
	}

	for high := int(deck.Ace); high >= 5; high-- {
		five := make([]deck.Card, 0, 5)
		for rank := high; rank > high-5; rank-- {
			card, ok := byRank[rank]
			if !ok {
				break
			}
			five = append(five, card)
		}
		if len(five) == 5 {
			return high, five
		}
	}
	return 0, nil
}

// bestKickers returns the n highest ranks not in the excluded set.
func bestKickers(byRank map[int][]deck.Card, exclude []int, n int) []int {
	excluded := make(map[int]bool, len(exclude))
	for _, rank := range exclude {
		excluded[rank] = true
	}

	ranks := make([]int, 0, len(byRank))
	for rank := range byRank {
		if !excluded[rank] {
			ranks = append(ranks, rank)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))

	if len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}

func kickerCards(byRank map[int][]deck.Card, ranks []int) []deck.Card {
	cards := make([]deck.Card, 0, len(ranks))
	for _, rank := range ranks {
		cards = append(cards, byRank[rank][0])
	}
	return cards
}

func sortedDesc(cards []deck.Card) []deck.Card {
	out := make([]deck.Card, len(cards))
	copy(out, cards)
	sort.Slice(out, func(i, j int) bool { return out[i].Rank > out[j].Rank })
	return out
}

func ranksOf(cards []deck.Card) []int {
	ranks := make([]int, len(cards))
	for i, c := range cards {
		ranks[i] = c.Value()
	}
	return ranks
}
