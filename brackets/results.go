package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/google/uuid"
)

// ResultChange describes what applying a result did to the bracket.
type ResultChange struct {
	Match *models.Match
	// Next is the match that received the winner, nil for the terminal match.
	Next *models.Match
	// Terminal is set when the match decides the whole bracket.
	Terminal bool
	// Unchanged is set when the same result was submitted again.
	Unchanged bool
	// Displaced is the previous winner removed from Next by a correction.
	Displaced *uuid.UUID
}

func ValidateScores(scoreA, scoreB int) error {
	if scoreA < 0 || scoreB < 0 {
		return fmt.Errorf("%w (got %d:%d)", ErrNegativeScore, scoreA, scoreB)
	}
	if scoreA == scoreB {
		return fmt.Errorf("%w (got %d:%d)", ErrTiedScore, scoreA, scoreB)
	}
	return nil
}

// ApplyResult records a score on a match of b and moves the winner into the
// slot of the next match selected by the match position parity. Nothing is
// modified when an error is returned.
//
// A match can be re-scored. The same winner keeps its place downstream; a new
// winner replaces the old one in the next match only while that match is still
// pending, otherwise ErrResultLocked is returned.
func ApplyResult(b *models.Bracket, matchID string, scoreA, scoreB int) (*ResultChange, error) {
	if err := ValidateScores(scoreA, scoreB); err != nil {
		return nil, err
	}
	m, err := playableMatch(b, matchID)
	if err != nil {
		return nil, err
	}

	winner := *m.SlotA
	if scoreB > scoreA {
		winner = *m.SlotB
	}
	return decide(b, m, winner, scoreA, scoreB, models.MatchCompleted)
}

// ApplyForfeit completes a match as a walkover won by the participant in the
// slot opposite to forfeiting. Scores are reset to 0:0.
func ApplyForfeit(b *models.Bracket, matchID string, forfeiting models.Slot) (*ResultChange, error) {
	if forfeiting != models.SlotA && forfeiting != models.SlotB {
		return nil, fmt.Errorf("%w (got %q)", ErrInvalidSlot, forfeiting)
	}
	m, err := playableMatch(b, matchID)
	if err != nil {
		return nil, err
	}

	winner := *m.SlotA
	if forfeiting == models.SlotA {
		winner = *m.SlotB
	}
	return decide(b, m, winner, 0, 0, models.MatchWalkover)
}

func playableMatch(b *models.Bracket, matchID string) (*models.Match, error) {
	m := b.Match(matchID)
	if m == nil {
		return nil, fmt.Errorf("%w: %s in bracket %s", ErrMatchNotFound, matchID, b.ID)
	}
	if m.SlotA == nil || m.SlotB == nil {
		return nil, fmt.Errorf("%w (match %s)", ErrSlotsNotFilled, matchID)
	}
	return m, nil
}

func decide(b *models.Bracket, m *models.Match, winner uuid.UUID, scoreA, scoreB int, status models.MatchStatus) (*ResultChange, error) {
	idx := indexMatches(b.Matches)

	var next *models.Match
	if m.NextMatchID != nil {
		next = idx[*m.NextMatchID]
		if next == nil {
			return nil, fmt.Errorf("%w: match %s links to unknown match %s", ErrInvalidState, m.ID, *m.NextMatchID)
		}
	}
	change := &ResultChange{Match: m, Next: next, Terminal: next == nil}

	if m.IsDecided() && m.WinnerID != nil {
		sameWinner := *m.WinnerID == winner
		if sameWinner && m.Status == status && m.ScoreA == scoreA && m.ScoreB == scoreB {
			change.Unchanged = true
		}
		if !sameWinner {
			if next == nil || next.Status != models.MatchPending {
				return nil, fmt.Errorf("%w (match %s)", ErrResultLocked, m.ID)
			}
			previous := *m.WinnerID
			change.Displaced = &previous
		}
	}

	m.ScoreA, m.ScoreB = scoreA, scoreB
	m.Status = status
	m.IsBye = false
	m.WinnerID = &winner
	advance(idx, m, winner)

	return change, nil
}
