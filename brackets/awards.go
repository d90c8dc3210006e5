package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/google/uuid"
)

// AwardRecipients returns the participants that earn a badge of the given
// category. Placement categories need a decided terminal match; "all" returns
// every confirmed participant regardless of the bracket state.
func AwardRecipients(b *models.Bracket, category models.BadgeCategory, confirmed []*models.Participant) ([]uuid.UUID, error) {
	if category == models.BadgeAll {
		ids := make([]uuid.UUID, 0, len(confirmed))
		for _, p := range confirmed {
			ids = append(ids, p.ID)
		}
		return dedupe(ids), nil
	}

	terminal, err := TerminalMatch(b)
	if err != nil {
		return nil, err
	}
	if !terminal.IsDecided() || terminal.WinnerID == nil {
		return nil, fmt.Errorf("%w: final %s is not decided yet", ErrInvalidState, terminal.ID)
	}

	switch category {
	case models.BadgeFirst:
		return []uuid.UUID{*terminal.WinnerID}, nil
	case models.BadgeSecond:
		if loser := terminal.Loser(); loser != nil {
			return []uuid.UUID{*loser}, nil
		}
		return nil, nil
	case models.BadgeTop3:
		return semifinalLosers(b, terminal), nil
	default:
		return nil, fmt.Errorf("%w: unknown badge category %q", ErrValidation, category)
	}
}

// semifinalLosers collects everyone who played in the round before the final
// except the two finalists.
func semifinalLosers(b *models.Bracket, terminal *models.Match) []uuid.UUID {
	finalists := make(map[uuid.UUID]bool, 2)
	for _, id := range []*uuid.UUID{terminal.SlotA, terminal.SlotB} {
		if id != nil {
			finalists[*id] = true
		}
	}

	var ids []uuid.UUID
	for _, m := range matchesInRound(b.Matches, terminal.Round-1) {
		for _, id := range []*uuid.UUID{m.SlotA, m.SlotB} {
			if id != nil && !finalists[*id] {
				ids = append(ids, *id)
			}
		}
	}
	return dedupe(ids)
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
