package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-bracket/brackets"
	"github.com/Dosada05/tournament-bracket/models"
	"github.com/Dosada05/tournament-bracket/repositories"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// MatchResult is what a recorded result changed.
type MatchResult struct {
	Match              *models.Match       `json:"match"`
	NextMatch          *models.Match       `json:"next_match,omitempty"`
	TournamentFinished bool                `json:"tournament_finished"`
	WinnerID           *uuid.UUID          `json:"overall_winner_participant_id,omitempty"`
	Badges             *DistributionReport `json:"badges,omitempty"`
}

type MatchService interface {
	RecordResult(ctx context.Context, bracketID uuid.UUID, matchID string, scoreA, scoreB int) (*MatchResult, error)
	// RecordForfeit completes the match as a walkover for the opponent of the forfeiting slot.
	RecordForfeit(ctx context.Context, bracketID uuid.UUID, matchID string, forfeiting models.Slot) (*MatchResult, error)
}

type matchService struct {
	db             *sqlx.DB
	tournamentRepo repositories.TournamentRepository
	bracketRepo    repositories.BracketRepository
	badgeService   BadgeService
	notifier       Notifier
	archiver       BracketArchiver
	logger         *slog.Logger
}

func NewMatchService(
	db *sqlx.DB,
	tournamentRepo repositories.TournamentRepository,
	bracketRepo repositories.BracketRepository,
	badgeService BadgeService,
	notifier Notifier,
	archiver BracketArchiver,
	logger *slog.Logger,
) MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &matchService{
		db:             db,
		tournamentRepo: tournamentRepo,
		bracketRepo:    bracketRepo,
		badgeService:   badgeService,
		notifier:       notifier,
		archiver:       archiver,
		logger:         logger,
	}
}

type applyFunc func(b *models.Bracket) (*brackets.ResultChange, error)

func (s *matchService) RecordResult(ctx context.Context, bracketID uuid.UUID, matchID string, scoreA, scoreB int) (*MatchResult, error) {
	if err := brackets.ValidateScores(scoreA, scoreB); err != nil {
		return nil, err
	}
	return s.record(ctx, bracketID, matchID, func(b *models.Bracket) (*brackets.ResultChange, error) {
		return brackets.ApplyResult(b, matchID, scoreA, scoreB)
	})
}

func (s *matchService) RecordForfeit(ctx context.Context, bracketID uuid.UUID, matchID string, forfeiting models.Slot) (*MatchResult, error) {
	if forfeiting != models.SlotA && forfeiting != models.SlotB {
		return nil, fmt.Errorf("%w (got %q)", brackets.ErrInvalidSlot, forfeiting)
	}
	return s.record(ctx, bracketID, matchID, func(b *models.Bracket) (*brackets.ResultChange, error) {
		return brackets.ApplyForfeit(b, matchID, forfeiting)
	})
}

// record loads the bracket, applies the change and persists every touched row
// in one transaction. A decided terminal match finishes the tournament and
// distributes its badges in the same transaction.
func (s *matchService) record(ctx context.Context, bracketID uuid.UUID, matchID string, apply applyFunc) (*MatchResult, error) {
	var (
		result     = &MatchResult{}
		tournament *models.Tournament
		bracket    *models.Bracket
	)

	err := withTx(ctx, s.db, s.logger, func(tx *sqlx.Tx) error {
		var err error
		bracket, err = s.bracketRepo.GetByID(ctx, tx, bracketID)
		if err != nil {
			return handleRepositoryError(err, "load bracket")
		}
		if bracket.Status != models.BracketActive {
			return fmt.Errorf("%w (bracket %s)", ErrBracketInactive, bracketID)
		}

		tournament, err = s.tournamentRepo.GetByID(ctx, tx, bracket.TournamentID)
		if err != nil {
			return handleRepositoryError(err, "load tournament")
		}
		if tournament.Status == models.StatusCanceled {
			return fmt.Errorf("%w (status %s)", ErrTournamentClosed, tournament.Status)
		}

		change, err := apply(bracket)
		if err != nil {
			return err
		}
		result.Match = change.Match
		result.NextMatch = change.Next

		if err := s.bracketRepo.UpdateMatch(ctx, tx, change.Match); err != nil {
			return handleRepositoryError(err, "update match")
		}
		if change.Next != nil {
			if err := s.bracketRepo.UpdateMatch(ctx, tx, change.Next); err != nil {
				return handleRepositoryError(err, "update next match")
			}
		}

		if !change.Terminal || tournament.Status == models.StatusCompleted {
			return nil
		}
		return s.finish(ctx, tx, tournament, bracket, change.Match, result)
	})
	if err != nil {
		s.logger.Warn("match result rejected",
			slog.String("bracket_id", bracketID.String()),
			slog.String("match_id", matchID),
			slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("match result recorded",
		slog.String("tournament_id", tournament.ID.String()),
		slog.String("bracket_id", bracketID.String()),
		slog.String("match_id", matchID),
		slog.Bool("tournament_finished", result.TournamentFinished))

	s.notifier.Notify(tournament.ID, brackets.MessageMatchUpdated, result)
	if result.TournamentFinished {
		s.notifier.Notify(tournament.ID, brackets.MessageTournamentFinished, result)
		archive(ctx, s.archiver, s.logger, tournament, bracket)
	}
	return result, nil
}

func (s *matchService) finish(ctx context.Context, tx *sqlx.Tx, tournament *models.Tournament, bracket *models.Bracket, final *models.Match, result *MatchResult) error {
	if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, models.StatusCompleted); err != nil {
		return handleRepositoryError(err, "complete tournament")
	}
	if err := s.tournamentRepo.UpdateOverallWinner(ctx, tx, tournament.ID, final.WinnerID); err != nil {
		return handleRepositoryError(err, "set overall winner")
	}
	tournament.Status = models.StatusCompleted
	tournament.OverallWinnerParticipantID = final.WinnerID

	result.TournamentFinished = true
	result.WinnerID = final.WinnerID

	if s.badgeService == nil {
		return nil
	}
	report, err := s.badgeService.DistributeTx(ctx, tx, tournament, bracket)
	if err != nil {
		return err
	}
	result.Badges = report
	return nil
}
