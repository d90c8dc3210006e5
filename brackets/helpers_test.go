package brackets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeParticipants(n int) []*models.Participant {
	tournamentID := uuid.New()
	out := make([]*models.Participant, n)
	for i := range out {
		out[i] = &models.Participant{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			UserID:       uuid.New(),
			DisplayName:  fmt.Sprintf("Player %d", i+1),
			Status:       models.ParticipantConfirmed,
		}
	}
	return out
}

func generate(t *testing.T, participants []*models.Participant) *models.Bracket {
	t.Helper()
	b, err := NewSingleEliminationGenerator(discardLogger()).GenerateBracket(context.Background(), GenerateBracketParams{
		Tournament:   &models.Tournament{ID: uuid.New(), Name: "Spring Cup"},
		Participants: participants,
	})
	require.NoError(t, err)
	return b
}

// skeleton builds an empty, fully linked bracket with the given number of rounds.
func skeleton(numRounds int) *models.Bracket {
	size := 1 << numRounds
	b := &models.Bracket{ID: uuid.New(), Status: models.BracketActive, NumRounds: numRounds, BracketSize: size}
	for r := 1; r <= numRounds; r++ {
		b.Rounds = append(b.Rounds, models.Round{BracketID: b.ID, Number: r, Name: RoundName(r, numRounds), MatchCount: size >> r})
		for p := 1; p <= size>>r; p++ {
			m := newMatch(b.ID, r, p)
			if r < numRounds {
				next := MatchID(r+1, (p+1)/2)
				m.NextMatchID = &next
			}
			b.Matches = append(b.Matches, m)
		}
	}
	return b
}

func record(t *testing.T, b *models.Bracket, matchID string, scoreA, scoreB int) *ResultChange {
	t.Helper()
	change, err := ApplyResult(b, matchID, scoreA, scoreB)
	require.NoError(t, err)
	return change
}

func idPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func countWhere(matches []*models.Match, pred func(*models.Match) bool) int {
	n := 0
	for _, m := range matches {
		if pred(m) {
			n++
		}
	}
	return n
}
