package models

import (
	"time"

	"github.com/google/uuid"
)

type BracketStatus string

const (
	BracketActive   BracketStatus = "active"
	BracketInactive BracketStatus = "inactive"
)

type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchCompleted MatchStatus = "completed"
	MatchWalkover  MatchStatus = "walkover"
)

// Slot обозначает одну из двух позиций участника в матче.
type Slot string

const (
	SlotA Slot = "A"
	SlotB Slot = "B"
)

// Bracket is one generation of a tournament's draw. A regeneration deactivates
// the previous bracket instead of rewriting it.
type Bracket struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	TournamentID     uuid.UUID     `json:"tournament_id" db:"tournament_id"`
	Status           BracketStatus `json:"status" db:"status"`
	ParticipantCount int           `json:"participant_count" db:"participant_count"`
	NumRounds        int           `json:"num_rounds" db:"num_rounds"`
	BracketSize      int           `json:"bracket_size" db:"bracket_size"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`

	Rounds  []Round  `json:"rounds" db:"-"`
	Matches []*Match `json:"matches" db:"-"`
}

type Round struct {
	BracketID  uuid.UUID `json:"-" db:"bracket_id"`
	Number     int       `json:"number" db:"number"`
	Name       string    `json:"name" db:"name"`
	MatchCount int       `json:"match_count" db:"match_count"`
}

// Match is addressed by "R{round}M{position}" inside its bracket.
type Match struct {
	ID          string      `json:"id" db:"id"`
	BracketID   uuid.UUID   `json:"bracket_id" db:"bracket_id"`
	Round       int         `json:"round" db:"round"`
	Position    int         `json:"position" db:"position"`
	SlotA       *uuid.UUID  `json:"slot_a" db:"slot_a"`
	SlotB       *uuid.UUID  `json:"slot_b" db:"slot_b"`
	WinnerID    *uuid.UUID  `json:"winner_id" db:"winner_id"`
	ScoreA      int         `json:"score_a" db:"score_a"`
	ScoreB      int         `json:"score_b" db:"score_b"`
	Status      MatchStatus `json:"status" db:"status"`
	IsBye       bool        `json:"is_bye" db:"is_bye"`
	NextMatchID *string     `json:"next_match_id" db:"next_match_id"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

func (m *Match) IsDecided() bool {
	return m.Status == MatchCompleted || m.Status == MatchWalkover
}

func (m *Match) Get(slot Slot) *uuid.UUID {
	if slot == SlotA {
		return m.SlotA
	}
	return m.SlotB
}

func (m *Match) Set(slot Slot, participantID *uuid.UUID) {
	if slot == SlotA {
		m.SlotA = participantID
		return
	}
	m.SlotB = participantID
}

// Loser возвращает участника, проигравшего матч, или nil, если матч не сыгран
// или был проходом.
func (m *Match) Loser() *uuid.UUID {
	if m.WinnerID == nil || m.SlotA == nil || m.SlotB == nil {
		return nil
	}
	if *m.SlotA == *m.WinnerID {
		return m.SlotB
	}
	return m.SlotA
}

func (b *Bracket) Match(id string) *Match {
	for _, m := range b.Matches {
		if m.ID == id {
			return m
		}
	}
	return nil
}
