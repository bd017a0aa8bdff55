package game

import "errors"

var (
	// ErrInvalidAction is returned when an action is not in the current
	// street's legal set. No state is mutated.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInsufficientStack is returned when a bet or raise exceeds the
	// acting seat's remaining stack. No state is mutated.
	ErrInsufficientStack = errors.New("insufficient stack")
)
