package models

import (
	"time"

	"github.com/google/uuid"
)

// BadgeCategory is the finishing position a badge is configured for.
type BadgeCategory string

const (
	BadgeFirst  BadgeCategory = "first"
	BadgeSecond BadgeCategory = "second"
	BadgeTop3   BadgeCategory = "top3"
	BadgeAll    BadgeCategory = "all"
)

func (c BadgeCategory) Valid() bool {
	switch c {
	case BadgeFirst, BadgeSecond, BadgeTop3, BadgeAll:
		return true
	}
	return false
}

type Badge struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Points      int       `json:"points" db:"points"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type BadgeAssignment struct {
	TournamentID uuid.UUID     `json:"tournament_id" db:"tournament_id"`
	BadgeID      uuid.UUID     `json:"badge_id" db:"badge_id"`
	Category     BadgeCategory `json:"category" db:"category"`
}

type BadgeAward struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	TournamentID  uuid.UUID     `json:"tournament_id" db:"tournament_id"`
	BadgeID       uuid.UUID     `json:"badge_id" db:"badge_id"`
	Category      BadgeCategory `json:"category" db:"category"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	ParticipantID uuid.UUID     `json:"participant_id" db:"participant_id"`
	AwardedAt     time.Time     `json:"awarded_at" db:"awarded_at"`
}
