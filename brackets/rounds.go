package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-bracket/models"
)

// RoundName names a round by its distance from the final round.
func RoundName(round, totalRounds int) string {
	switch {
	case round == totalRounds:
		return "Final"
	case round == totalRounds-1:
		return "Semifinal"
	case round == totalRounds-2 && totalRounds > 2:
		return "Quarterfinal"
	default:
		return fmt.Sprintf("Round %d", round)
	}
}

// MatchID is the identifier of the match at the given round and position.
func MatchID(round, position int) string {
	return fmt.Sprintf("R%dM%d", round, position)
}

// TargetSlot is the slot of the next match a winner from this position feeds.
func TargetSlot(position int) models.Slot {
	if position%2 == 1 {
		return models.SlotA
	}
	return models.SlotB
}

func renameRounds(b *models.Bracket) {
	total := len(b.Rounds)
	for i := range b.Rounds {
		b.Rounds[i].Name = RoundName(b.Rounds[i].Number, total)
	}
}
