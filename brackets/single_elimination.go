package brackets

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/google/uuid"
)

type SingleEliminationGenerator struct {
	logger *slog.Logger
}

func NewSingleEliminationGenerator(logger *slog.Logger) BracketGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SingleEliminationGenerator{logger: logger}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket builds every round and match with forward links, places the
// seeded participants into the first round, auto-advances byes and makes sure
// the bracket ends in exactly one terminal match.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*models.Bracket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	participants := params.Participants
	n := len(participants)
	if n < 2 {
		return nil, fmt.Errorf("%w (found %d)", ErrInsufficientParticipants, n)
	}

	numRounds, bracketSize := RoundsFor(n)
	positions, err := SeedPositions(bracketSize)
	if err != nil {
		return nil, err
	}

	bracketID := params.BracketID
	if bracketID == uuid.Nil {
		bracketID = uuid.New()
	}

	b := &models.Bracket{
		ID:               bracketID,
		Status:           models.BracketActive,
		ParticipantCount: n,
		NumRounds:        numRounds,
		BracketSize:      bracketSize,
		CreatedAt:        time.Now().UTC(),
		Rounds:           make([]models.Round, 0, numRounds),
		Matches:          make([]*models.Match, 0, bracketSize-1),
	}
	if params.Tournament != nil {
		b.TournamentID = params.Tournament.ID
	}

	g.logger.Debug("generating single elimination bracket",
		slog.String("bracket_id", b.ID.String()),
		slog.Int("participants", n),
		slog.Int("rounds", numRounds),
		slog.Int("bracket_size", bracketSize),
		slog.Int("byes", bracketSize-n))

	for r := 1; r <= numRounds; r++ {
		matchCount := bracketSize >> uint(r)
		b.Rounds = append(b.Rounds, models.Round{
			BracketID:  b.ID,
			Number:     r,
			Name:       RoundName(r, numRounds),
			MatchCount: matchCount,
		})

		for p := 1; p <= matchCount; p++ {
			m := newMatch(b.ID, r, p)
			if r < numRounds {
				next := MatchID(r+1, (p+1)/2)
				m.NextMatchID = &next
			}
			if r == 1 {
				m.SlotA = seededParticipant(participants, positions[2*p-2])
				m.SlotB = seededParticipant(participants, positions[2*p-1])
			}
			b.Matches = append(b.Matches, m)
		}
	}

	byes := ResolveByes(b)

	if err := NormalizeFinal(b); err != nil {
		return nil, err
	}
	if err := Validate(b); err != nil {
		return nil, fmt.Errorf("generated bracket failed validation: %w", err)
	}

	g.logger.Info("bracket generated",
		slog.String("bracket_id", b.ID.String()),
		slog.Int("matches", len(b.Matches)),
		slog.Int("auto_advanced", byes))

	return b, nil
}

func seededParticipant(participants []*models.Participant, seed int) *uuid.UUID {
	if seed < 1 || seed > len(participants) {
		return nil
	}
	id := participants[seed-1].ID
	return &id
}

func newMatch(bracketID uuid.UUID, round, position int) *models.Match {
	return &models.Match{
		ID:        MatchID(round, position),
		BracketID: bracketID,
		Round:     round,
		Position:  position,
		Status:    models.MatchPending,
		UpdatedAt: time.Now().UTC(),
	}
}

func sortMatches(matches []*models.Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].Position < matches[j].Position
	})
}

func indexMatches(matches []*models.Match) map[string]*models.Match {
	idx := make(map[string]*models.Match, len(matches))
	for _, m := range matches {
		idx[m.ID] = m
	}
	return idx
}

// feedersOf maps a match ID to the matches whose winners feed it, by target slot.
func feedersOf(matches []*models.Match) map[string]map[models.Slot]*models.Match {
	feeders := make(map[string]map[models.Slot]*models.Match)
	for _, m := range matches {
		if m.NextMatchID == nil {
			continue
		}
		if feeders[*m.NextMatchID] == nil {
			feeders[*m.NextMatchID] = make(map[models.Slot]*models.Match, 2)
		}
		feeders[*m.NextMatchID][TargetSlot(m.Position)] = m
	}
	return feeders
}
