package repositories

import (
	"context"
	"testing"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgeRepository_Assignments(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewBadgeRepository(conn)
	ctx := context.Background()
	tournament := createTournament(t, conn)

	gold := &models.Badge{Name: "Champion", Points: 100}
	medal := &models.Badge{Name: "Podium", Points: 30}
	require.NoError(t, repo.Create(ctx, nil, gold))
	require.NoError(t, repo.Create(ctx, nil, medal))
	assert.ErrorIs(t, repo.Create(ctx, nil, &models.Badge{Name: "Champion"}), ErrBadgeNameConflict)

	err := repo.ReplaceAssignments(ctx, nil, tournament.ID, []models.BadgeAssignment{
		{BadgeID: gold.ID, Category: models.BadgeFirst},
		{BadgeID: medal.ID, Category: models.BadgeTop3},
	})
	require.NoError(t, err)

	assignments, err := repo.ListAssignments(ctx, nil, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, assignments, 2)

	err = repo.ReplaceAssignments(ctx, nil, tournament.ID, []models.BadgeAssignment{
		{BadgeID: medal.ID, Category: models.BadgeSecond},
	})
	require.NoError(t, err)

	assignments, err = repo.ListAssignments(ctx, nil, tournament.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, models.BadgeAssignment{TournamentID: tournament.ID, BadgeID: medal.ID, Category: models.BadgeSecond}, assignments[0])
}

func TestBadgeRepository_ReplaceAssignmentsValidation(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewBadgeRepository(conn)
	ctx := context.Background()
	tournament := createTournament(t, conn)

	err := repo.ReplaceAssignments(ctx, nil, tournament.ID, []models.BadgeAssignment{
		{BadgeID: uuid.New(), Category: "fourth"},
	})
	assert.ErrorIs(t, err, ErrBadgeCategoryInvalid)

	err = repo.ReplaceAssignments(ctx, nil, tournament.ID, []models.BadgeAssignment{
		{BadgeID: uuid.New(), Category: models.BadgeAll},
	})
	assert.ErrorIs(t, err, ErrBadgeNotFound)
}

func TestBadgeRepository_GrantOnce(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewBadgeRepository(conn)
	ctx := context.Background()
	tournament := createTournament(t, conn)
	player := createParticipants(t, conn, tournament.ID, 1, models.ParticipantConfirmed)[0]

	badge := &models.Badge{Name: "Finisher", Points: 5}
	require.NoError(t, repo.Create(ctx, nil, badge))

	has, err := repo.HasBadge(ctx, nil, player.UserID, badge.ID)
	require.NoError(t, err)
	assert.False(t, has)

	award := &models.BadgeAward{
		TournamentID:  tournament.ID,
		BadgeID:       badge.ID,
		Category:      models.BadgeAll,
		UserID:        player.UserID,
		ParticipantID: player.ID,
	}
	require.NoError(t, repo.Grant(ctx, nil, award))

	has, err = repo.HasBadge(ctx, nil, player.UserID, badge.ID)
	require.NoError(t, err)
	assert.True(t, has)

	again := *award
	again.ID = uuid.Nil
	assert.ErrorIs(t, repo.Grant(ctx, nil, &again), ErrBadgeAlreadyAwarded)

	awards, err := repo.ListAwards(ctx, nil, tournament.ID)
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, player.UserID, awards[0].UserID)
}
