package brackets

import (
	"github.com/Dosada05/tournament-bracket/models"
	"github.com/google/uuid"
)

// ResolveByes completes every pending match that has one participant and an
// opponent slot that can never be filled, advancing the lone participant. It
// re-scans until nothing changes, so stacked byes in sparse brackets cascade.
// Matches with no participant at all are left alone. It returns the number of
// matches it completed.
func ResolveByes(b *models.Bracket) int {
	sortMatches(b.Matches)
	idx := indexMatches(b.Matches)
	feeders := feedersOf(b.Matches)

	resolved := 0
	for {
		changed := false
		for _, m := range b.Matches {
			if m.Status != models.MatchPending {
				continue
			}
			hasA, hasB := m.SlotA != nil, m.SlotB != nil
			if hasA == hasB {
				continue
			}

			lone, empty := models.SlotA, models.SlotB
			if hasB {
				lone, empty = models.SlotB, models.SlotA
			}
			if !slotDead(feeders, m, empty) {
				continue
			}

			winner := *m.Get(lone)
			m.Status = models.MatchCompleted
			m.IsBye = true
			m.WinnerID = &winner
			m.ScoreA, m.ScoreB = 0, 0
			if lone == models.SlotA {
				m.ScoreA = 1
			} else {
				m.ScoreB = 1
			}
			advance(idx, m, winner)

			resolved++
			changed = true
		}
		if !changed {
			return resolved
		}
	}
}

// slotDead reports whether the slot can never receive a participant: it has no
// feeder match, or its feeder is empty and both of the feeder's slots are dead.
func slotDead(feeders map[string]map[models.Slot]*models.Match, m *models.Match, slot models.Slot) bool {
	feeder := feeders[m.ID][slot]
	if feeder == nil {
		return true
	}
	if feeder.WinnerID != nil || feeder.SlotA != nil || feeder.SlotB != nil {
		return false
	}
	return slotDead(feeders, feeder, models.SlotA) && slotDead(feeders, feeder, models.SlotB)
}

// advance writes the winner into the target slot of the next match and returns
// that match, or nil for the terminal match.
func advance(idx map[string]*models.Match, m *models.Match, winner uuid.UUID) *models.Match {
	if m.NextMatchID == nil {
		return nil
	}
	next, ok := idx[*m.NextMatchID]
	if !ok {
		return nil
	}
	next.Set(TargetSlot(m.Position), &winner)
	return next
}
