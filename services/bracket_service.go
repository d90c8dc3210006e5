package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-bracket/brackets"
	"github.com/Dosada05/tournament-bracket/models"
	"github.com/Dosada05/tournament-bracket/repositories"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

type BracketService interface {
	GenerateBracket(ctx context.Context, tournamentID uuid.UUID) (*brackets.BracketView, error)
	// ResetBracket deactivates the current bracket, if any, and generates a new one.
	ResetBracket(ctx context.Context, tournamentID uuid.UUID) (*brackets.BracketView, error)
	GetBracketView(ctx context.Context, tournamentID uuid.UUID) (*brackets.BracketView, error)
	ListBrackets(ctx context.Context, tournamentID uuid.UUID) ([]*models.Bracket, error)
}

type bracketService struct {
	db              *sqlx.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	bracketRepo     repositories.BracketRepository
	generator       brackets.BracketGenerator
	notifier        Notifier
	archiver        BracketArchiver
	logger          *slog.Logger
}

func NewBracketService(
	db *sqlx.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	bracketRepo repositories.BracketRepository,
	generator brackets.BracketGenerator,
	notifier Notifier,
	archiver BracketArchiver,
	logger *slog.Logger,
) BracketService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if generator == nil {
		generator = brackets.NewSingleEliminationGenerator(logger)
	}
	return &bracketService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		bracketRepo:     bracketRepo,
		generator:       generator,
		notifier:        notifier,
		archiver:        archiver,
		logger:          logger,
	}
}

func (s *bracketService) GenerateBracket(ctx context.Context, tournamentID uuid.UUID) (*brackets.BracketView, error) {
	var (
		tournament   *models.Tournament
		bracket      *models.Bracket
		participants []*models.Participant
	)

	err := withTx(ctx, s.db, s.logger, func(tx *sqlx.Tx) error {
		var err error
		tournament, err = s.tournamentRepo.GetByID(ctx, tx, tournamentID)
		if err != nil {
			return handleRepositoryError(err, "load tournament")
		}
		if tournament.Status == models.StatusCompleted || tournament.Status == models.StatusCanceled {
			return fmt.Errorf("%w (status %s)", ErrTournamentClosed, tournament.Status)
		}

		_, err = s.bracketRepo.GetActiveByTournament(ctx, tx, tournamentID)
		switch {
		case err == nil:
			return ErrBracketAlreadyExists
		case !errors.Is(err, repositories.ErrBracketNotFound):
			return handleRepositoryError(err, "load active bracket")
		}

		bracket, participants, err = s.generateInTx(ctx, tx, tournament)
		return err
	})
	if err != nil {
		s.logger.Warn("bracket generation failed", slog.String("tournament_id", tournamentID.String()), slog.Any("error", err))
		return nil, err
	}

	view := brackets.BuildView(tournament, bracket, participants)
	s.notifier.Notify(tournamentID, brackets.MessageBracketGenerated, view)
	return view, nil
}

func (s *bracketService) ResetBracket(ctx context.Context, tournamentID uuid.UUID) (*brackets.BracketView, error) {
	var (
		tournament   *models.Tournament
		previous     *models.Bracket
		bracket      *models.Bracket
		participants []*models.Participant
	)

	err := withTx(ctx, s.db, s.logger, func(tx *sqlx.Tx) error {
		var err error
		tournament, err = s.tournamentRepo.GetByID(ctx, tx, tournamentID)
		if err != nil {
			return handleRepositoryError(err, "load tournament")
		}
		if tournament.Status == models.StatusCanceled {
			return fmt.Errorf("%w (status %s)", ErrTournamentClosed, tournament.Status)
		}

		previous, err = s.bracketRepo.GetActiveByTournament(ctx, tx, tournamentID)
		switch {
		case err == nil:
			if err := s.bracketRepo.UpdateStatus(ctx, tx, previous.ID, models.BracketInactive); err != nil {
				return handleRepositoryError(err, "deactivate bracket")
			}
			previous.Status = models.BracketInactive
		case errors.Is(err, repositories.ErrBracketNotFound):
			previous = nil
		default:
			return handleRepositoryError(err, "load active bracket")
		}

		if tournament.OverallWinnerParticipantID != nil {
			if err := s.tournamentRepo.UpdateOverallWinner(ctx, tx, tournamentID, nil); err != nil {
				return handleRepositoryError(err, "clear overall winner")
			}
			tournament.OverallWinnerParticipantID = nil
		}

		bracket, participants, err = s.generateInTx(ctx, tx, tournament)
		return err
	})
	if err != nil {
		s.logger.Warn("bracket reset failed", slog.String("tournament_id", tournamentID.String()), slog.Any("error", err))
		return nil, err
	}

	if previous != nil {
		s.logger.Info("bracket deactivated",
			slog.String("tournament_id", tournamentID.String()),
			slog.String("bracket_id", previous.ID.String()))
		archive(ctx, s.archiver, s.logger, tournament, previous)
	}

	view := brackets.BuildView(tournament, bracket, participants)
	s.notifier.Notify(tournamentID, brackets.MessageBracketGenerated, view)
	return view, nil
}

// generateInTx builds a bracket from the eligible participants, stores it and
// makes it the active bracket of an active tournament.
func (s *bracketService) generateInTx(ctx context.Context, tx *sqlx.Tx, tournament *models.Tournament) (*models.Bracket, []*models.Participant, error) {
	participants, err := s.participantRepo.ListByTournament(ctx, tx, tournament.ID, models.EligibleStatuses...)
	if err != nil {
		return nil, nil, handleRepositoryError(err, "list eligible participants")
	}

	ordered := brackets.OrderParticipants(participants, tournament.SeedingMode, newRand())
	bracket, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Tournament:   tournament,
		Participants: ordered,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.bracketRepo.Create(ctx, tx, bracket); err != nil {
		return nil, nil, handleRepositoryError(err, "store bracket")
	}
	if err := s.tournamentRepo.SetActiveBracket(ctx, tx, tournament.ID, &bracket.ID); err != nil {
		return nil, nil, handleRepositoryError(err, "set active bracket")
	}
	if tournament.Status != models.StatusActive {
		if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, models.StatusActive); err != nil {
			return nil, nil, handleRepositoryError(err, "start tournament")
		}
		tournament.Status = models.StatusActive
	}
	tournament.BracketID = &bracket.ID

	s.logger.Info("bracket stored",
		slog.String("tournament_id", tournament.ID.String()),
		slog.String("bracket_id", bracket.ID.String()),
		slog.String("generator", s.generator.GetName()),
		slog.Int("participants", len(participants)))

	return bracket, participants, nil
}

// GetBracketView returns ErrBracketNotFound when the tournament has no active bracket.
func (s *bracketService) GetBracketView(ctx context.Context, tournamentID uuid.UUID) (*brackets.BracketView, error) {
	var (
		tournament   *models.Tournament
		bracket      *models.Bracket
		participants []*models.Participant
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		tournament, err = s.tournamentRepo.GetByID(gCtx, nil, tournamentID)
		return handleRepositoryError(err, "load tournament")
	})

	g.Go(func() error {
		var err error
		bracket, err = s.bracketRepo.GetActiveByTournament(gCtx, nil, tournamentID)
		return handleRepositoryError(err, "load active bracket")
	})

	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.ListByTournament(gCtx, nil, tournamentID)
		return handleRepositoryError(err, "list participants")
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return brackets.BuildView(tournament, bracket, participants), nil
}

func (s *bracketService) ListBrackets(ctx context.Context, tournamentID uuid.UUID) ([]*models.Bracket, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, handleRepositoryError(err, "load tournament")
	}
	list, err := s.bracketRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err, "list brackets")
	}
	return list, nil
}
