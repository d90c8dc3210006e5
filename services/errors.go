package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-bracket/brackets"
	"github.com/Dosada05/tournament-bracket/repositories"
)

// Категории ошибок совпадают с категориями движка сеток, чтобы HTTP-слой
// проверял только их.
var (
	ErrValidation   = brackets.ErrValidation
	ErrNotFound     = brackets.ErrNotFound
	ErrInvalidState = brackets.ErrInvalidState
	ErrCollaborator = brackets.ErrCollaborator
)

var (
	ErrBadgeCategoryInvalid = fmt.Errorf("%w: unknown badge category", ErrValidation)

	ErrTournamentNotFound = fmt.Errorf("%w: tournament", ErrNotFound)
	ErrBracketNotFound    = fmt.Errorf("%w: bracket", ErrNotFound)
	ErrBadgeNotFound      = fmt.Errorf("%w: badge", ErrNotFound)

	ErrBracketInactive      = fmt.Errorf("%w: bracket is no longer active", ErrInvalidState)
	ErrBracketAlreadyExists = fmt.Errorf("%w: tournament already has an active bracket", ErrInvalidState)
	ErrTournamentClosed     = fmt.Errorf("%w: tournament is completed or canceled", ErrInvalidState)
	ErrTournamentNotDecided = fmt.Errorf("%w: tournament has no decided final yet", ErrInvalidState)
)

// handleRepositoryError переводит ошибки репозиториев в ошибки сервисов.
// Ошибки движка возвращаются без изменений.
func handleRepositoryError(err error, op string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidState), errors.Is(err, ErrCollaborator):
		return err
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrBracketNotFound):
		return ErrBracketNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return brackets.ErrMatchNotFound
	case errors.Is(err, repositories.ErrBadgeNotFound):
		return ErrBadgeNotFound
	case errors.Is(err, repositories.ErrBadgeCategoryInvalid):
		return fmt.Errorf("%w: %v", ErrBadgeCategoryInvalid, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrCollaborator, op, err)
}
