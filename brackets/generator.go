package brackets

import (
	"context"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/google/uuid"
)

// GenerateBracketParams carries the input of a bracket generation. Participants
// must already be in seed order (see OrderParticipants).
type GenerateBracketParams struct {
	Tournament   *models.Tournament
	Participants []*models.Participant
	BracketID    uuid.UUID
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) (*models.Bracket, error)

	GetName() string
}
