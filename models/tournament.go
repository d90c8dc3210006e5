package models

import (
	"time"

	"github.com/google/uuid"
)

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusSoon         TournamentStatus = "soon"
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

// SeedingMode определяет порядок, в котором участники получают посев.
type SeedingMode string

const (
	SeedingRandom SeedingMode = "random"
	SeedingRanked SeedingMode = "ranked"
)

// Tournament is owned by the admin panel; the bracket engine only reads it and
// writes back the status, the active bracket and the overall winner.
type Tournament struct {
	ID                         uuid.UUID        `json:"id" db:"id"`
	Name                       string           `json:"name" db:"name"`
	Status                     TournamentStatus `json:"status" db:"status"`
	SeedingMode                SeedingMode      `json:"seeding_mode" db:"seeding_mode"`
	BracketID                  *uuid.UUID       `json:"bracket_id,omitempty" db:"bracket_id"`
	OverallWinnerParticipantID *uuid.UUID       `json:"overall_winner_participant_id,omitempty" db:"overall_winner_participant_id"`
	CreatedAt                  time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt                  time.Time        `json:"updated_at" db:"updated_at"`
}

func (t *Tournament) IsFinished() bool {
	return t.Status == StatusCompleted
}
