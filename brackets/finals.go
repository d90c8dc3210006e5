package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-bracket/models"
)

// NormalizeFinal guarantees that the last round holds exactly one match. A
// missing final is synthesized from the previous round; two parallel finals
// are joined under an extra round with a single deciding match.
func NormalizeFinal(b *models.Bracket) error {
	last := matchesInRound(b.Matches, b.NumRounds)

	switch len(last) {
	case 1:
		return nil
	case 0:
		feeders := matchesInRound(b.Matches, b.NumRounds-1)
		if err := joinUnder(b, feeders, b.NumRounds); err != nil {
			return err
		}
		if !hasRound(b, b.NumRounds) {
			b.Rounds = append(b.Rounds, models.Round{BracketID: b.ID, Number: b.NumRounds, MatchCount: 1})
		}
	default:
		if err := joinUnder(b, last, b.NumRounds+1); err != nil {
			return err
		}
		b.NumRounds++
		b.Rounds = append(b.Rounds, models.Round{BracketID: b.ID, Number: b.NumRounds, MatchCount: 1})
	}

	renameRounds(b)
	sortMatches(b.Matches)
	return nil
}

// joinUnder creates match 1 of the given round and points the feeders at it,
// carrying over the winners of feeders that are already decided.
func joinUnder(b *models.Bracket, feeders []*models.Match, round int) error {
	if len(feeders) == 0 || len(feeders) > 2 {
		return fmt.Errorf("%w: cannot join %d matches into a single final", ErrNoTerminalMatch, len(feeders))
	}

	final := newMatch(b.ID, round, 1)
	taken := make(map[models.Slot]bool, 2)
	for _, f := range feeders {
		slot := TargetSlot(f.Position)
		if taken[slot] {
			return fmt.Errorf("%w: matches %s collide on slot %s of the final", ErrNoTerminalMatch, f.ID, slot)
		}
		taken[slot] = true
	}
	for _, f := range feeders {
		id := final.ID
		f.NextMatchID = &id
		if f.WinnerID != nil {
			final.Set(TargetSlot(f.Position), f.WinnerID)
		}
	}
	b.Matches = append(b.Matches, final)
	return nil
}

func matchesInRound(matches []*models.Match, round int) []*models.Match {
	var out []*models.Match
	for _, m := range matches {
		if m.Round == round {
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out
}

func hasRound(b *models.Bracket, number int) bool {
	for _, r := range b.Rounds {
		if r.Number == number {
			return true
		}
	}
	return false
}
