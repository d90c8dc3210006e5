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
	ErrParticipantConflict          = errors.New("user is already registered for this tournament")
	ErrParticipantTournamentInvalid = errors.New("participant tournament reference is invalid")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, participant *models.Participant) error
	// ListByTournament returns the participants of a tournament in registration
	// order. With no statuses given every participant is returned.
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID, statuses ...models.ParticipantStatus) ([]*models.Participant, error)
}

type sqlParticipantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) ParticipantRepository {
	return &sqlParticipantRepository{db: db}
}

func (r *sqlParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *sqlParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = models.ParticipantRegistered
	}
	p.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO participants (id, tournament_id, user_id, display_name, secondary_handle, seed_rank, status, created_at)
		VALUES (:id, :tournament_id, :user_id, :display_name, :secondary_handle, :seed_rank, :status, :created_at)`

	_, err := sqlx.NamedExecContext(ctx, r.getExecutor(exec), query, p)
	return r.handleParticipantError(err)
}

func (r *sqlParticipantRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID, statuses ...models.ParticipantStatus) ([]*models.Participant, error) {
	executor := r.getExecutor(exec)

	query := `
		SELECT id, tournament_id, user_id, display_name, secondary_handle, seed_rank, status, created_at
		FROM participants
		WHERE tournament_id = ?`
	args := []interface{}{tournamentID}
	if len(statuses) > 0 {
		query += ` AND status IN (?)`
		args = append(args, statuses)
	}
	query += ` ORDER BY created_at, id`

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build participant query: %w", err)
	}

	participants := make([]*models.Participant, 0)
	if err := sqlx.SelectContext(ctx, executor, &participants, executor.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list participants for tournament %s: %w", tournamentID, err)
	}
	return participants, nil
}

func (r *sqlParticipantRepository) handleParticipantError(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return ErrParticipantConflict
	case isForeignKeyViolation(err):
		return ErrParticipantTournamentInvalid
	}
	return err
}
