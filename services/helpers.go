package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Notifier pushes live updates to the clients watching a tournament.
type Notifier interface {
	Notify(tournamentID uuid.UUID, messageType string, payload interface{})
}

// BracketArchiver stores a read-only copy of a bracket outside the database.
type BracketArchiver interface {
	Archive(ctx context.Context, tournament *models.Tournament, bracket *models.Bracket) (string, error)
}

type nopNotifier struct{}

func (nopNotifier) Notify(uuid.UUID, string, interface{}) {}

// withTx runs fn inside a transaction. It commits when fn returns nil and
// rolls back on error or panic.
func withTx(ctx context.Context, db *sqlx.DB, logger *slog.Logger, fn func(tx *sqlx.Tx) error) (txErr error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", ErrCollaborator, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			logger.Debug("rolling back transaction", slog.Any("error", txErr))
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr), slog.Any("original_error", txErr))
				txErr = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			logger.Error("transaction commit failed", slog.Any("error", cErr))
			txErr = fmt.Errorf("%w: failed to commit transaction: %w", ErrCollaborator, cErr)
		}
	}()

	txErr = fn(tx)
	return txErr
}

// archive uploads the bracket snapshot. Failures are only logged: the
// database stays the source of truth.
func archive(ctx context.Context, archiver BracketArchiver, logger *slog.Logger, tournament *models.Tournament, bracket *models.Bracket) {
	if archiver == nil || tournament == nil || bracket == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	key, err := archiver.Archive(ctx, tournament, bracket)
	if err != nil {
		logger.Error("failed to archive bracket snapshot",
			slog.String("tournament_id", tournament.ID.String()),
			slog.String("bracket_id", bracket.ID.String()),
			slog.Any("error", err))
		return
	}
	logger.Info("bracket snapshot archived",
		slog.String("bracket_id", bracket.ID.String()),
		slog.String("key", key))
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
