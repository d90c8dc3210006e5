package models

import (
	"time"

	"github.com/google/uuid"
)

type ParticipantStatus string

const (
	ParticipantRegistered ParticipantStatus = "registered"
	ParticipantConfirmed  ParticipantStatus = "confirmed"
	ParticipantCheckedIn  ParticipantStatus = "checked_in"
)

// EligibleStatuses перечисляет статусы, с которыми участник попадает в сетку.
var EligibleStatuses = []ParticipantStatus{ParticipantConfirmed, ParticipantCheckedIn}

type Participant struct {
	ID              uuid.UUID         `json:"id" db:"id"`
	TournamentID    uuid.UUID         `json:"tournament_id" db:"tournament_id"`
	UserID          uuid.UUID         `json:"user_id" db:"user_id"`
	DisplayName     string            `json:"display_name" db:"display_name"`
	SecondaryHandle *string           `json:"secondary_handle,omitempty" db:"secondary_handle"`
	SeedRank        *int              `json:"seed_rank,omitempty" db:"seed_rank"`
	Status          ParticipantStatus `json:"status" db:"status"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
}
