package brackets

import (
	"context"
	"testing"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBracketPowerOfTwo(t *testing.T) {
	testCases := []struct {
		participants int
		rounds       int
	}{
		{2, 1},
		{4, 2},
		{8, 3},
		{16, 4},
		{32, 5},
	}

	for _, tc := range testCases {
		b := generate(t, makeParticipants(tc.participants))

		assert.Equal(t, tc.rounds, b.NumRounds)
		require.Len(t, b.Rounds, tc.rounds)
		assert.Len(t, b.Matches, tc.participants-1)

		for i, r := range b.Rounds {
			expected := tc.participants >> (i + 1)
			assert.Equal(t, expected, r.MatchCount, "round %d of %d", r.Number, tc.participants)
			assert.Len(t, matchesInRound(b.Matches, r.Number), expected)
		}

		for _, m := range b.Matches {
			if m.Round == tc.rounds {
				assert.Nil(t, m.NextMatchID, "final %s must be terminal", m.ID)
				continue
			}
			require.NotNil(t, m.NextMatchID, "match %s has no successor", m.ID)
			assert.Equal(t, MatchID(m.Round+1, (m.Position+1)/2), *m.NextMatchID)
		}

		assert.Zero(t, countWhere(b.Matches, func(m *models.Match) bool { return m.IsBye }))
		assert.Equal(t, models.BracketActive, b.Status)
		assert.Equal(t, tc.participants, b.ParticipantCount)
	}
}

func TestGenerateBracketWithByes(t *testing.T) {
	for _, n := range []int{3, 5, 6, 7, 12, 17} {
		b := generate(t, makeParticipants(n))
		_, size := RoundsFor(n)

		terminals := countWhere(b.Matches, func(m *models.Match) bool { return m.NextMatchID == nil })
		assert.Equal(t, 1, terminals, "n=%d", n)

		byes := countWhere(b.Matches, func(m *models.Match) bool { return m.IsBye })
		assert.Equal(t, size-n, byes, "n=%d", n)

		for _, m := range b.Matches {
			if !m.IsBye {
				continue
			}
			assert.Equal(t, 1, m.Round)
			assert.Equal(t, models.MatchCompleted, m.Status)
			require.NotNil(t, m.WinnerID)

			next := b.Match(*m.NextMatchID)
			require.NotNil(t, next)
			assert.Equal(t, *m.WinnerID, *next.Get(TargetSlot(m.Position)), "bye winner of %s not advanced", m.ID)
		}

		assert.NoError(t, Validate(b))
	}
}

func TestGenerateBracketThreeParticipants(t *testing.T) {
	participants := makeParticipants(3)
	b := generate(t, participants)

	completed := countWhere(b.Matches, func(m *models.Match) bool {
		return m.Round == 1 && m.Status == models.MatchCompleted
	})
	assert.Equal(t, 1, completed)

	// Seed 1 gets the bye against the empty seed 4 slot.
	bye := b.Match("R1M1")
	require.NotNil(t, bye)
	assert.True(t, bye.IsBye)
	assert.Equal(t, participants[0].ID, *bye.WinnerID)
	assert.Equal(t, 1, bye.ScoreA)
	assert.Equal(t, 0, bye.ScoreB)

	final := b.Match("R2M1")
	require.NotNil(t, final)
	require.NotNil(t, final.SlotA)
	assert.Equal(t, participants[0].ID, *final.SlotA)
	assert.Nil(t, final.SlotB)
	assert.Equal(t, models.MatchPending, final.Status)

	playable := b.Match("R1M2")
	assert.Equal(t, participants[1].ID, *playable.SlotA)
	assert.Equal(t, participants[2].ID, *playable.SlotB)
}

func TestGenerateBracketPlacesSeeds(t *testing.T) {
	participants := makeParticipants(8)
	b := generate(t, participants)

	pairs := map[string][2]int{
		"R1M1": {1, 8},
		"R1M2": {4, 5},
		"R1M3": {2, 7},
		"R1M4": {3, 6},
	}
	for id, seeds := range pairs {
		m := b.Match(id)
		require.NotNil(t, m)
		assert.Equal(t, participants[seeds[0]-1].ID, *m.SlotA, "%s slot A", id)
		assert.Equal(t, participants[seeds[1]-1].ID, *m.SlotB, "%s slot B", id)
	}
}

func TestGenerateBracketRoundNames(t *testing.T) {
	b := generate(t, makeParticipants(32))

	names := make([]string, 0, len(b.Rounds))
	for _, r := range b.Rounds {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Round 1", "Round 2", "Quarterfinal", "Semifinal", "Final"}, names)
}

func TestGenerateBracketKeepsIdentifiers(t *testing.T) {
	tournament := &models.Tournament{ID: uuid.New()}
	bracketID := uuid.New()

	b, err := NewSingleEliminationGenerator(nil).GenerateBracket(context.Background(), GenerateBracketParams{
		Tournament:   tournament,
		Participants: makeParticipants(4),
		BracketID:    bracketID,
	})
	require.NoError(t, err)

	assert.Equal(t, bracketID, b.ID)
	assert.Equal(t, tournament.ID, b.TournamentID)
	for _, m := range b.Matches {
		assert.Equal(t, bracketID, m.BracketID)
	}
	for _, r := range b.Rounds {
		assert.Equal(t, bracketID, r.BracketID)
	}
}

func TestGenerateBracketInsufficientParticipants(t *testing.T) {
	gen := NewSingleEliminationGenerator(discardLogger())
	for _, n := range []int{0, 1} {
		_, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{Participants: makeParticipants(n)})
		assert.ErrorIs(t, err, ErrInsufficientParticipants)
		assert.ErrorIs(t, err, ErrInvalidState)
	}
}

func TestGenerateBracketCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSingleEliminationGenerator(discardLogger()).GenerateBracket(ctx, GenerateBracketParams{Participants: makeParticipants(4)})
	assert.ErrorIs(t, err, context.Canceled)
}
