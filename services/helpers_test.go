package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/tournament-bracket/db"
	"github.com/Dosada05/tournament-bracket/models"
	"github.com/Dosada05/tournament-bracket/repositories"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

type notification struct {
	tournamentID uuid.UUID
	messageType  string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) Notify(tournamentID uuid.UUID, messageType string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{tournamentID: tournamentID, messageType: messageType})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.messageType)
	}
	return out
}

type recordingArchiver struct {
	mu       sync.Mutex
	archived []uuid.UUID
	err      error
}

func (a *recordingArchiver) Archive(_ context.Context, _ *models.Tournament, b *models.Bracket) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return "", a.err
	}
	a.archived = append(a.archived, b.ID)
	return "brackets/" + b.ID.String() + ".json", nil
}

type fixture struct {
	conn         *sqlx.DB
	tournaments  repositories.TournamentRepository
	participants repositories.ParticipantRepository
	brackets     repositories.BracketRepository
	badges       repositories.BadgeRepository

	notifier *recordingNotifier
	archiver *recordingArchiver

	bracketService BracketService
	matchService   MatchService
	badgeService   BadgeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.Connect(db.DriverSQLite, "file::memory:?_foreign_keys=on", time.Second)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { conn.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		conn:         conn,
		tournaments:  repositories.NewTournamentRepository(conn),
		participants: repositories.NewParticipantRepository(conn),
		brackets:     repositories.NewBracketRepository(conn),
		badges:       repositories.NewBadgeRepository(conn),
		notifier:     &recordingNotifier{},
		archiver:     &recordingArchiver{},
	}
	f.badgeService = NewBadgeService(conn, f.tournaments, f.participants, f.brackets, f.badges, logger)
	f.bracketService = NewBracketService(conn, f.tournaments, f.participants, f.brackets, nil, f.notifier, f.archiver, logger)
	f.matchService = NewMatchService(conn, f.tournaments, f.brackets, f.badgeService, f.notifier, f.archiver, logger)
	return f
}

func (f *fixture) tournament(t *testing.T, confirmed, registered int) (*models.Tournament, []*models.Participant) {
	t.Helper()
	ctx := context.Background()

	tournament := &models.Tournament{Name: "Club Championship", Status: models.StatusRegistration}
	require.NoError(t, f.tournaments.Create(ctx, nil, tournament))

	var eligible []*models.Participant
	for i := 0; i < confirmed+registered; i++ {
		p := &models.Participant{
			TournamentID: tournament.ID,
			UserID:       uuid.New(),
			DisplayName:  fmt.Sprintf("Player %d", i+1),
			Status:       models.ParticipantConfirmed,
		}
		if i >= confirmed {
			p.Status = models.ParticipantRegistered
		}
		require.NoError(t, f.participants.Create(ctx, nil, p))
		if i < confirmed {
			eligible = append(eligible, p)
		}
	}
	return tournament, eligible
}

func (f *fixture) activeBracket(t *testing.T, tournamentID uuid.UUID) *models.Bracket {
	t.Helper()
	b, err := f.brackets.GetActiveByTournament(context.Background(), nil, tournamentID)
	require.NoError(t, err)
	return b
}

// playable returns the first pending match with both slots filled.
func playable(b *models.Bracket) *models.Match {
	for _, m := range b.Matches {
		if m.Status == models.MatchPending && m.SlotA != nil && m.SlotB != nil {
			return m
		}
	}
	return nil
}

// playOut records 2:1 for slot A on every match until the bracket is finished.
func (f *fixture) playOut(t *testing.T, tournamentID uuid.UUID) *MatchResult {
	t.Helper()

	var last *MatchResult
	for i := 0; i < 64; i++ {
		b := f.activeBracket(t, tournamentID)
		m := playable(b)
		if m == nil {
			return last
		}
		result, err := f.matchService.RecordResult(context.Background(), b.ID, m.ID, 2, 1)
		require.NoError(t, err)
		last = result
	}
	t.Fatal("bracket did not finish")
	return nil
}
