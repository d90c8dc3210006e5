package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Dosada05/tournament-bracket/db"
	"github.com/Dosada05/tournament-bracket/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := db.Connect(db.DriverSQLite, "file::memory:?_foreign_keys=on", time.Second)
	require.NoError(t, err, "Failed to connect to in-memory DB")
	require.NoError(t, db.Migrate(conn), "Failed to apply migrations")

	t.Cleanup(func() { conn.Close() })
	return conn
}

func createTournament(t *testing.T, conn *sqlx.DB) *models.Tournament {
	t.Helper()

	tournament := &models.Tournament{Name: "Spring Cup", Status: models.StatusRegistration}
	require.NoError(t, NewTournamentRepository(conn).Create(context.Background(), nil, tournament))
	return tournament
}

func createParticipants(t *testing.T, conn *sqlx.DB, tournamentID uuid.UUID, n int, status models.ParticipantStatus) []*models.Participant {
	t.Helper()

	repo := NewParticipantRepository(conn)
	participants := make([]*models.Participant, 0, n)
	for i := 0; i < n; i++ {
		p := &models.Participant{
			TournamentID: tournamentID,
			UserID:       uuid.New(),
			DisplayName:  fmt.Sprintf("Player %d", i+1),
			Status:       status,
		}
		require.NoError(t, repo.Create(context.Background(), nil, p))
		participants = append(participants, p)
	}
	return participants
}
