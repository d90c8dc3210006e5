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
	ErrBracketNotFound           = errors.New("bracket not found")
	ErrMatchNotFound             = errors.New("match not found")
	ErrBracketParticipantInvalid = errors.New("match references a participant outside the tournament")
)

type BracketRepository interface {
	// Create stores the bracket together with its rounds and matches.
	Create(ctx context.Context, exec SQLExecutor, bracket *models.Bracket) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Bracket, error)
	GetActiveByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) (*models.Bracket, error)
	// ListByTournament returns bracket headers, newest first, without rounds or matches.
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Bracket, error)
	UpdateMatch(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id uuid.UUID, status models.BracketStatus) error
}

type sqlBracketRepository struct {
	db *sqlx.DB
}

func NewBracketRepository(db *sqlx.DB) BracketRepository {
	return &sqlBracketRepository{db: db}
}

func (r *sqlBracketRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const bracketColumns = `id, tournament_id, status, participant_count, num_rounds, bracket_size, created_at`

const matchColumns = `
	bracket_id, id, round, position, slot_a, slot_b, winner_id,
	score_a, score_b, status, is_bye, next_match_id, updated_at`

func (r *sqlBracketRepository) Create(ctx context.Context, exec SQLExecutor, b *models.Bracket) error {
	if len(b.Rounds) == 0 || len(b.Matches) == 0 {
		return fmt.Errorf("bracket %s has no rounds or matches", b.ID)
	}
	executor := r.getExecutor(exec)

	_, err := sqlx.NamedExecContext(ctx, executor, `
		INSERT INTO brackets (`+bracketColumns+`)
		VALUES (:id, :tournament_id, :status, :participant_count, :num_rounds, :bracket_size, :created_at)`, b)
	if err != nil {
		return r.handleBracketError(err)
	}

	for i := range b.Rounds {
		b.Rounds[i].BracketID = b.ID
	}
	_, err = sqlx.NamedExecContext(ctx, executor, `
		INSERT INTO rounds (bracket_id, number, name, match_count)
		VALUES (:bracket_id, :number, :name, :match_count)`, b.Rounds)
	if err != nil {
		return fmt.Errorf("failed to insert rounds of bracket %s: %w", b.ID, err)
	}

	for _, m := range b.Matches {
		m.BracketID = b.ID
	}
	_, err = sqlx.NamedExecContext(ctx, executor, `
		INSERT INTO matches (`+matchColumns+`)
		VALUES (
			:bracket_id, :id, :round, :position, :slot_a, :slot_b, :winner_id,
			:score_a, :score_b, :status, :is_bye, :next_match_id, :updated_at
		)`, b.Matches)
	if err != nil {
		return r.handleBracketError(err)
	}

	return nil
}

func (r *sqlBracketRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Bracket, error) {
	executor := r.getExecutor(exec)

	b := &models.Bracket{}
	err := sqlx.GetContext(ctx, executor, b, `SELECT `+bracketColumns+` FROM brackets WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketNotFound
		}
		return nil, fmt.Errorf("failed to get bracket %s: %w", id, err)
	}

	if err := r.loadStructure(ctx, executor, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *sqlBracketRepository) GetActiveByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) (*models.Bracket, error) {
	executor := r.getExecutor(exec)

	b := &models.Bracket{}
	query := `
		SELECT ` + bracketColumns + `
		FROM brackets
		WHERE tournament_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`
	err := sqlx.GetContext(ctx, executor, b, query, tournamentID, models.BracketActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketNotFound
		}
		return nil, fmt.Errorf("failed to get active bracket of tournament %s: %w", tournamentID, err)
	}

	if err := r.loadStructure(ctx, executor, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *sqlBracketRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Bracket, error) {
	brackets := make([]*models.Bracket, 0)
	query := `SELECT ` + bracketColumns + ` FROM brackets WHERE tournament_id = $1 ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, r.getExecutor(exec), &brackets, query, tournamentID); err != nil {
		return nil, fmt.Errorf("failed to list brackets of tournament %s: %w", tournamentID, err)
	}
	return brackets, nil
}

func (r *sqlBracketRepository) loadStructure(ctx context.Context, executor SQLExecutor, b *models.Bracket) error {
	b.Rounds = make([]models.Round, 0, b.NumRounds)
	err := sqlx.SelectContext(ctx, executor, &b.Rounds, `
		SELECT bracket_id, number, name, match_count
		FROM rounds
		WHERE bracket_id = $1
		ORDER BY number`, b.ID)
	if err != nil {
		return fmt.Errorf("failed to load rounds of bracket %s: %w", b.ID, err)
	}

	b.Matches = make([]*models.Match, 0, b.BracketSize)
	err = sqlx.SelectContext(ctx, executor, &b.Matches, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE bracket_id = $1
		ORDER BY round, position`, b.ID)
	if err != nil {
		return fmt.Errorf("failed to load matches of bracket %s: %w", b.ID, err)
	}
	return nil
}

// UpdateMatch writes the mutable state of a match: slots, winner, scores and status.
func (r *sqlBracketRepository) UpdateMatch(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	m.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE matches SET
			slot_a = :slot_a,
			slot_b = :slot_b,
			winner_id = :winner_id,
			score_a = :score_a,
			score_b = :score_b,
			status = :status,
			is_bye = :is_bye,
			next_match_id = :next_match_id,
			updated_at = :updated_at
		WHERE bracket_id = :bracket_id AND id = :id`

	result, err := sqlx.NamedExecContext(ctx, r.getExecutor(exec), query, m)
	if err != nil {
		return r.handleBracketError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *sqlBracketRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id uuid.UUID, status models.BracketStatus) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `UPDATE brackets SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of bracket %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrBracketNotFound)
}

func (r *sqlBracketRepository) handleBracketError(err error) error {
	switch {
	case err == nil:
		return nil
	case isForeignKeyViolation(err):
		switch constraintName(err) {
		case "brackets_tournament_id_fkey":
			return ErrTournamentNotFound
		}
		return fmt.Errorf("%w: %v", ErrBracketParticipantInvalid, err)
	}
	return err
}
