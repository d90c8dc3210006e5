package brackets

import (
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/dominikbraun/graph"
)

// BracketGraph holds the matches of a bracket as vertices. Edges run from a
// match to the matches feeding it, so a traversal from the terminal match walks
// down the tree towards the first round.
type BracketGraph struct {
	graph.Graph[string, *models.Match]
}

func matchHash(m *models.Match) string {
	return m.ID
}

// NewBracketGraph builds the feeder graph and rejects duplicate match IDs,
// links to unknown matches and cycles.
func NewBracketGraph(matches []*models.Match) (*BracketGraph, error) {
	g := graph.New(matchHash, graph.Directed(), graph.PreventCycles())

	for _, m := range matches {
		if err := g.AddVertex(m); err != nil {
			if errors.Is(err, graph.ErrVertexAlreadyExists) {
				return nil, fmt.Errorf("%w: duplicate match %s", ErrInvalidState, m.ID)
			}
			return nil, err
		}
	}

	for _, m := range matches {
		if m.NextMatchID == nil {
			continue
		}
		err := g.AddEdge(*m.NextMatchID, m.ID)
		switch {
		case err == nil:
		case errors.Is(err, graph.ErrVertexNotFound):
			return nil, fmt.Errorf("%w: match %s links to unknown match %s", ErrInvalidState, m.ID, *m.NextMatchID)
		case errors.Is(err, graph.ErrEdgeCreatesCycle):
			return nil, fmt.Errorf("%w: link %s -> %s creates a cycle", ErrInvalidState, m.ID, *m.NextMatchID)
		default:
			return nil, err
		}
	}

	return &BracketGraph{Graph: g}, nil
}

// TerminalMatch returns the unique match without a successor.
func TerminalMatch(b *models.Bracket) (*models.Match, error) {
	var terminal *models.Match
	for _, m := range b.Matches {
		if m.NextMatchID != nil {
			continue
		}
		if terminal != nil {
			return nil, fmt.Errorf("%w: both %s and %s have no successor", ErrNoTerminalMatch, terminal.ID, m.ID)
		}
		terminal = m
	}
	if terminal == nil {
		return nil, ErrNoTerminalMatch
	}
	return terminal, nil
}

// Validate checks the structural invariants every stored bracket must hold:
// one terminal match reachable from every other match, feeders exactly one
// round below the match they feed, and at most one feeder per slot.
func Validate(b *models.Bracket) error {
	if len(b.Matches) == 0 {
		return fmt.Errorf("%w: bracket has no matches", ErrInvalidState)
	}

	g, err := NewBracketGraph(b.Matches)
	if err != nil {
		return err
	}

	terminal, err := TerminalMatch(b)
	if err != nil {
		return err
	}

	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return fmt.Errorf("failed to read bracket graph: %w", err)
	}
	for id, edges := range adjacency {
		m, _ := g.Vertex(id)
		taken := make(map[models.Slot]string, 2)
		for feederID := range edges {
			feeder, _ := g.Vertex(feederID)
			if feeder.Round != m.Round-1 {
				return fmt.Errorf("%w: match %s in round %d feeds %s in round %d", ErrInvalidState, feeder.ID, feeder.Round, m.ID, m.Round)
			}
			slot := TargetSlot(feeder.Position)
			if other, ok := taken[slot]; ok {
				return fmt.Errorf("%w: matches %s and %s both feed slot %s of %s", ErrInvalidState, other, feeder.ID, slot, m.ID)
			}
			taken[slot] = feeder.ID
		}
	}

	reached := 0
	err = graph.BFS(g.Graph, terminal.ID, func(string) bool {
		reached++
		return false
	})
	if err != nil {
		return fmt.Errorf("failed to traverse bracket graph: %w", err)
	}
	if reached != len(b.Matches) {
		return fmt.Errorf("%w: only %d of %d matches reach %s", ErrNoTerminalMatch, reached, len(b.Matches), terminal.ID)
	}

	return nil
}
