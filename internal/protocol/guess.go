package protocol

import (
	"errors"
	"regexp"
)

var guessPattern = regexp.MustCompile(`^[0-9]{4}$`)

var ErrBadGuess = errors.New("guess must be exactly four digits")

// ValidateGuess checks the four-numeral pattern locally so malformed input
// never reaches the transport.
func ValidateGuess(guess string) error {
	if !guessPattern.MatchString(guess) {
		return ErrBadGuess
	}
	return nil
}

// Outcome classifies a guess result for rendering.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeCleanMiss Outcome = "clean_miss" // zero digits matched, bonus territory
	OutcomePartial   Outcome = "partial"
)

func (g GuessResult) Outcome() Outcome {
	switch {
	case g.IsCorrect:
		return OutcomeCorrect
	case g.Plus == 0 && g.Minus == 0:
		return OutcomeCleanMiss
	default:
		return OutcomePartial
	}
}
