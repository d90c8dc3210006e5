package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentInvalidState = errors.New("tournament status or seeding mode is invalid")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id uuid.UUID, status models.TournamentStatus) error
	SetActiveBracket(ctx context.Context, exec SQLExecutor, id uuid.UUID, bracketID *uuid.UUID) error
	UpdateOverallWinner(ctx context.Context, exec SQLExecutor, id uuid.UUID, winnerParticipantID *uuid.UUID) error
}

type sqlTournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) TournamentRepository {
	return &sqlTournamentRepository{db: db}
}

func (r *sqlTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *sqlTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = models.StatusSoon
	}
	if t.SeedingMode == "" {
		t.SeedingMode = models.SeedingRandom
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	query := `
		INSERT INTO tournaments (id, name, status, seeding_mode, bracket_id, overall_winner_participant_id, created_at, updated_at)
		VALUES (:id, :name, :status, :seeding_mode, :bracket_id, :overall_winner_participant_id, :created_at, :updated_at)`

	_, err := sqlx.NamedExecContext(ctx, r.getExecutor(exec), query, t)
	return r.handleTournamentError(err)
}

func (r *sqlTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Tournament, error) {
	query := `
		SELECT id, name, status, seeding_mode, bracket_id, overall_winner_participant_id, created_at, updated_at
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	if err := sqlx.GetContext(ctx, r.getExecutor(exec), t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %s: %w", id, err)
	}
	return t, nil
}

func (r *sqlTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id uuid.UUID, status models.TournamentStatus) error {
	query := `UPDATE tournaments SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *sqlTournamentRepository) SetActiveBracket(ctx context.Context, exec SQLExecutor, id uuid.UUID, bracketID *uuid.UUID) error {
	query := `UPDATE tournaments SET bracket_id = $1, updated_at = $2 WHERE id = $3`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, bracketID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set active bracket for tournament %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// UpdateOverallWinner sets or clears the overall winner of the tournament.
func (r *sqlTournamentRepository) UpdateOverallWinner(ctx context.Context, exec SQLExecutor, id uuid.UUID, winnerParticipantID *uuid.UUID) error {
	query := `UPDATE tournaments SET overall_winner_participant_id = $1, updated_at = $2 WHERE id = $3`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, winnerParticipantID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update overall winner for tournament %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *sqlTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	switch constraintName(err) {
	case "tournaments_status_check", "tournaments_seeding_mode_check":
		return fmt.Errorf("%w: %v", ErrTournamentInvalidState, err)
	}
	return err
}
