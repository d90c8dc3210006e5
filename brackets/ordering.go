package brackets

import (
	"math/rand"
	"sort"

	"github.com/Dosada05/tournament-bracket/models"
)

// OrderParticipants returns a copy of participants in seed order: the first
// element becomes seed 1. Random mode runs two Fisher-Yates passes; ranked mode
// sorts by seed rank and shuffles the unranked participants after the ranked ones.
func OrderParticipants(participants []*models.Participant, mode models.SeedingMode, rng *rand.Rand) []*models.Participant {
	ordered := make([]*models.Participant, len(participants))
	copy(ordered, participants)

	if mode != models.SeedingRanked {
		shuffle(ordered, rng)
		shuffle(ordered, rng)
		return ordered
	}

	var ranked, unranked []*models.Participant
	for _, p := range ordered {
		if p.SeedRank != nil {
			ranked = append(ranked, p)
		} else {
			unranked = append(unranked, p)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].SeedRank < *ranked[j].SeedRank
	})
	shuffle(unranked, rng)

	return append(ranked, unranked...)
}

func shuffle[S ~[]E, E any](slice S, rng *rand.Rand) {
	rng.Shuffle(len(slice), func(i, j int) { slice[i], slice[j] = slice[j], slice[i] })
}
