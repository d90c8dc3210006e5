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
)

// DistributionReport summarizes one badge distribution run.
type DistributionReport struct {
	TournamentID uuid.UUID           `json:"tournament_id"`
	Granted      []models.BadgeAward `json:"granted"`
	Skipped      int                 `json:"skipped"`
}

type BadgeService interface {
	SetAssignments(ctx context.Context, tournamentID uuid.UUID, assignments []models.BadgeAssignment) ([]models.BadgeAssignment, error)
	// Distribute re-runs the distribution for a completed tournament. Badges
	// the users already hold are skipped.
	Distribute(ctx context.Context, tournamentID uuid.UUID) (*DistributionReport, error)
	// DistributeTx grants the configured badges of a finished bracket inside the caller's transaction.
	DistributeTx(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, bracket *models.Bracket) (*DistributionReport, error)
}

type badgeService struct {
	db              *sqlx.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	bracketRepo     repositories.BracketRepository
	badgeRepo       repositories.BadgeRepository
	logger          *slog.Logger
}

func NewBadgeService(
	db *sqlx.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	bracketRepo repositories.BracketRepository,
	badgeRepo repositories.BadgeRepository,
	logger *slog.Logger,
) BadgeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &badgeService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		bracketRepo:     bracketRepo,
		badgeRepo:       badgeRepo,
		logger:          logger,
	}
}

func (s *badgeService) SetAssignments(ctx context.Context, tournamentID uuid.UUID, assignments []models.BadgeAssignment) ([]models.BadgeAssignment, error) {
	for _, a := range assignments {
		if !a.Category.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrBadgeCategoryInvalid, a.Category)
		}
	}

	var stored []models.BadgeAssignment
	err := withTx(ctx, s.db, s.logger, func(tx *sqlx.Tx) error {
		if _, err := s.tournamentRepo.GetByID(ctx, tx, tournamentID); err != nil {
			return handleRepositoryError(err, "load tournament")
		}
		if err := s.badgeRepo.ReplaceAssignments(ctx, tx, tournamentID, dedupeAssignments(assignments)); err != nil {
			return handleRepositoryError(err, "replace badge assignments")
		}
		var err error
		stored, err = s.badgeRepo.ListAssignments(ctx, tx, tournamentID)
		return handleRepositoryError(err, "list badge assignments")
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *badgeService) Distribute(ctx context.Context, tournamentID uuid.UUID) (*DistributionReport, error) {
	var report *DistributionReport
	err := withTx(ctx, s.db, s.logger, func(tx *sqlx.Tx) error {
		tournament, err := s.tournamentRepo.GetByID(ctx, tx, tournamentID)
		if err != nil {
			return handleRepositoryError(err, "load tournament")
		}
		if tournament.Status != models.StatusCompleted || tournament.BracketID == nil {
			return fmt.Errorf("%w (status %s)", ErrTournamentNotDecided, tournament.Status)
		}

		bracket, err := s.bracketRepo.GetByID(ctx, tx, *tournament.BracketID)
		if err != nil {
			return handleRepositoryError(err, "load bracket")
		}

		report, err = s.DistributeTx(ctx, tx, tournament, bracket)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *badgeService) DistributeTx(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, bracket *models.Bracket) (*DistributionReport, error) {
	report := &DistributionReport{TournamentID: tournament.ID, Granted: make([]models.BadgeAward, 0)}

	assignments, err := s.badgeRepo.ListAssignments(ctx, exec, tournament.ID)
	if err != nil {
		return nil, handleRepositoryError(err, "list badge assignments")
	}
	if len(assignments) == 0 {
		return report, nil
	}

	confirmed, err := s.participantRepo.ListByTournament(ctx, exec, tournament.ID, models.EligibleStatuses...)
	if err != nil {
		return nil, handleRepositoryError(err, "list eligible participants")
	}
	byID := make(map[uuid.UUID]*models.Participant, len(confirmed))
	for _, p := range confirmed {
		byID[p.ID] = p
	}

	for _, a := range assignments {
		recipients, err := brackets.AwardRecipients(bracket, a.Category, confirmed)
		if err != nil {
			return nil, err
		}

		for _, participantID := range recipients {
			p, ok := byID[participantID]
			if !ok {
				s.logger.Warn("badge recipient is not an eligible participant",
					slog.String("tournament_id", tournament.ID.String()),
					slog.String("participant_id", participantID.String()))
				report.Skipped++
				continue
			}

			has, err := s.badgeRepo.HasBadge(ctx, exec, p.UserID, a.BadgeID)
			if err != nil {
				return nil, handleRepositoryError(err, "check badge")
			}
			if has {
				report.Skipped++
				continue
			}

			award := models.BadgeAward{
				TournamentID:  tournament.ID,
				BadgeID:       a.BadgeID,
				Category:      a.Category,
				UserID:        p.UserID,
				ParticipantID: p.ID,
			}
			if err := s.badgeRepo.Grant(ctx, exec, &award); err != nil {
				if errors.Is(err, repositories.ErrBadgeAlreadyAwarded) {
					report.Skipped++
					continue
				}
				return nil, handleRepositoryError(err, "grant badge")
			}
			report.Granted = append(report.Granted, award)
		}
	}

	s.logger.Info("badges distributed",
		slog.String("tournament_id", tournament.ID.String()),
		slog.Int("granted", len(report.Granted)),
		slog.Int("skipped", report.Skipped))

	return report, nil
}

func dedupeAssignments(assignments []models.BadgeAssignment) []models.BadgeAssignment {
	type key struct {
		badgeID  uuid.UUID
		category models.BadgeCategory
	}
	seen := make(map[key]bool, len(assignments))
	out := make([]models.BadgeAssignment, 0, len(assignments))
	for _, a := range assignments {
		k := key{a.BadgeID, a.Category}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	return out
}
