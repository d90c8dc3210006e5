package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrBadgeNotFound        = errors.New("badge not found")
	ErrBadgeNameConflict    = errors.New("badge with this name already exists")
	ErrBadgeAlreadyAwarded  = errors.New("user already holds this badge")
	ErrBadgeCategoryInvalid = errors.New("badge category is invalid")
)

type BadgeRepository interface {
	Create(ctx context.Context, exec SQLExecutor, badge *models.Badge) error
	ListAssignments(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]models.BadgeAssignment, error)
	// ReplaceAssignments swaps the whole badge configuration of a tournament.
	ReplaceAssignments(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID, assignments []models.BadgeAssignment) error
	HasBadge(ctx context.Context, exec SQLExecutor, userID, badgeID uuid.UUID) (bool, error)
	Grant(ctx context.Context, exec SQLExecutor, award *models.BadgeAward) error
	ListAwards(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]models.BadgeAward, error)
}

type sqlBadgeRepository struct {
	db *sqlx.DB
}

func NewBadgeRepository(db *sqlx.DB) BadgeRepository {
	return &sqlBadgeRepository{db: db}
}

func (r *sqlBadgeRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *sqlBadgeRepository) Create(ctx context.Context, exec SQLExecutor, b *models.Badge) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO badges (id, name, description, points, created_at)
		VALUES (:id, :name, :description, :points, :created_at)`

	_, err := sqlx.NamedExecContext(ctx, r.getExecutor(exec), query, b)
	if err != nil && isUniqueViolation(err) {
		return ErrBadgeNameConflict
	}
	return err
}

func (r *sqlBadgeRepository) ListAssignments(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]models.BadgeAssignment, error) {
	query := `
		SELECT tournament_id, badge_id, category
		FROM tournament_badges
		WHERE tournament_id = $1
		ORDER BY category, badge_id`

	assignments := make([]models.BadgeAssignment, 0)
	if err := sqlx.SelectContext(ctx, r.getExecutor(exec), &assignments, query, tournamentID); err != nil {
		return nil, fmt.Errorf("failed to list badge assignments for tournament %s: %w", tournamentID, err)
	}
	return assignments, nil
}

func (r *sqlBadgeRepository) ReplaceAssignments(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID, assignments []models.BadgeAssignment) error {
	for i := range assignments {
		assignments[i].TournamentID = tournamentID
		if !assignments[i].Category.Valid() {
			return fmt.Errorf("%w: %q", ErrBadgeCategoryInvalid, assignments[i].Category)
		}
	}

	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx, `DELETE FROM tournament_badges WHERE tournament_id = $1`, tournamentID); err != nil {
		return fmt.Errorf("failed to clear badge assignments for tournament %s: %w", tournamentID, err)
	}
	if len(assignments) == 0 {
		return nil
	}

	query := `
		INSERT INTO tournament_badges (tournament_id, badge_id, category)
		VALUES (:tournament_id, :badge_id, :category)`
	if _, err := sqlx.NamedExecContext(ctx, executor, query, assignments); err != nil {
		switch {
		case isForeignKeyViolation(err):
			if constraintName(err) == "tournament_badges_tournament_id_fkey" {
				return ErrTournamentNotFound
			}
			return ErrBadgeNotFound
		case isUniqueViolation(err):
			return fmt.Errorf("%w: duplicate assignment", ErrBadgeCategoryInvalid)
		}
		return fmt.Errorf("failed to insert badge assignments for tournament %s: %w", tournamentID, err)
	}
	return nil
}

func (r *sqlBadgeRepository) HasBadge(ctx context.Context, exec SQLExecutor, userID, badgeID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM badge_awards WHERE user_id = $1 AND badge_id = $2)`
	if err := sqlx.GetContext(ctx, r.getExecutor(exec), &exists, query, userID, badgeID); err != nil {
		return false, fmt.Errorf("failed to check badge %s of user %s: %w", badgeID, userID, err)
	}
	return exists, nil
}

func (r *sqlBadgeRepository) Grant(ctx context.Context, exec SQLExecutor, a *models.BadgeAward) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AwardedAt.IsZero() {
		a.AwardedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO badge_awards (id, tournament_id, badge_id, category, user_id, participant_id, awarded_at)
		VALUES (:id, :tournament_id, :badge_id, :category, :user_id, :participant_id, :awarded_at)`

	_, err := sqlx.NamedExecContext(ctx, r.getExecutor(exec), query, a)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return ErrBadgeAlreadyAwarded
	case isForeignKeyViolation(err):
		return ErrBadgeNotFound
	}
	return fmt.Errorf("failed to grant badge %s to user %s: %w", a.BadgeID, a.UserID, err)
}

func (r *sqlBadgeRepository) ListAwards(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]models.BadgeAward, error) {
	query := `
		SELECT id, tournament_id, badge_id, category, user_id, participant_id, awarded_at
		FROM badge_awards
		WHERE tournament_id = $1
		ORDER BY awarded_at, id`

	awards := make([]models.BadgeAward, 0)
	if err := sqlx.SelectContext(ctx, r.getExecutor(exec), &awards, query, tournamentID); err != nil {
		return nil, fmt.Errorf("failed to list badge awards for tournament %s: %w", tournamentID, err)
	}
	return awards, nil
}
