package brackets

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the engine wraps exactly one of them,
// so callers can branch with errors.Is on the category alone.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrCollaborator = errors.New("collaborator error")
)

var (
	ErrInvalidBracketSize = fmt.Errorf("%w: bracket size must be a positive power of two", ErrValidation)
	ErrNegativeScore      = fmt.Errorf("%w: scores must be non-negative", ErrValidation)
	ErrTiedScore          = fmt.Errorf("%w: tied scores are not allowed, a match needs a winner", ErrValidation)
	ErrInvalidSlot        = fmt.Errorf("%w: slot must be A or B", ErrValidation)

	ErrMatchNotFound = fmt.Errorf("%w: match", ErrNotFound)

	ErrInsufficientParticipants = fmt.Errorf("%w: at least 2 eligible participants are required", ErrInvalidState)
	ErrSlotsNotFilled           = fmt.Errorf("%w: both slots of the match must be populated", ErrInvalidState)
	ErrResultLocked             = fmt.Errorf("%w: the winner has already advanced past the next match", ErrInvalidState)
	ErrNoTerminalMatch          = fmt.Errorf("%w: bracket has no single reachable terminal match", ErrInvalidState)
)
