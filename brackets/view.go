package brackets

import (
	"github.com/Dosada05/tournament-bracket/models"
	"github.com/google/uuid"
)

// PlaceholderName is shown for a slot that has no participant yet.
const PlaceholderName = "TBD"

type SlotView struct {
	ParticipantID   *uuid.UUID `json:"participant_id"`
	DisplayName     string     `json:"display_name"`
	SecondaryHandle *string    `json:"secondary_handle,omitempty"`
	Score           int        `json:"score"`
	IsWinner        bool       `json:"is_winner"`
}

type MatchView struct {
	ID          string             `json:"id"`
	Round       int                `json:"round"`
	Position    int                `json:"position"`
	Status      models.MatchStatus `json:"status"`
	IsBye       bool               `json:"is_bye"`
	NextMatchID *string            `json:"next_match_id"`
	SlotA       SlotView           `json:"slot_a"`
	SlotB       SlotView           `json:"slot_b"`
}

type RoundView struct {
	Number  int         `json:"number"`
	Name    string      `json:"name"`
	Matches []MatchView `json:"matches"`
}

// BracketView is the read-only projection of a bracket used for rendering.
type BracketView struct {
	BracketID        uuid.UUID               `json:"bracket_id"`
	TournamentID     uuid.UUID               `json:"tournament_id"`
	TournamentName   string                  `json:"tournament_name"`
	TournamentStatus models.TournamentStatus `json:"tournament_status"`
	Status           models.BracketStatus    `json:"status"`
	ParticipantCount int                     `json:"participant_count"`
	Rounds           []RoundView             `json:"rounds"`
	Winner           *SlotView               `json:"winner,omitempty"`
}

func BuildView(t *models.Tournament, b *models.Bracket, participants []*models.Participant) *BracketView {
	byID := make(map[uuid.UUID]*models.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}

	view := &BracketView{
		BracketID:        b.ID,
		TournamentID:     b.TournamentID,
		Status:           b.Status,
		ParticipantCount: b.ParticipantCount,
		Rounds:           make([]RoundView, 0, len(b.Rounds)),
	}
	if t != nil {
		view.TournamentName = t.Name
		view.TournamentStatus = t.Status
		if t.OverallWinnerParticipantID != nil {
			winner := slotView(byID, t.OverallWinnerParticipantID, 0, nil)
			winner.IsWinner = true
			view.Winner = &winner
		}
	}

	for _, r := range b.Rounds {
		rv := RoundView{Number: r.Number, Name: r.Name}
		for _, m := range matchesInRound(b.Matches, r.Number) {
			rv.Matches = append(rv.Matches, MatchView{
				ID:          m.ID,
				Round:       m.Round,
				Position:    m.Position,
				Status:      m.Status,
				IsBye:       m.IsBye,
				NextMatchID: m.NextMatchID,
				SlotA:       slotView(byID, m.SlotA, m.ScoreA, m.WinnerID),
				SlotB:       slotView(byID, m.SlotB, m.ScoreB, m.WinnerID),
			})
		}
		view.Rounds = append(view.Rounds, rv)
	}
	return view
}

func slotView(byID map[uuid.UUID]*models.Participant, id *uuid.UUID, score int, winner *uuid.UUID) SlotView {
	sv := SlotView{ParticipantID: id, DisplayName: PlaceholderName, Score: score}
	if id == nil {
		return sv
	}
	if p, ok := byID[*id]; ok {
		sv.DisplayName = p.DisplayName
		sv.SecondaryHandle = p.SecondaryHandle
	} else {
		sv.DisplayName = id.String()
	}
	sv.IsWinner = winner != nil && *winner == *id
	return sv
}
