package brackets

import (
	"testing"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveByesCascadesThroughEmptyMatches(t *testing.T) {
	b := skeleton(3)
	first, second := uuid.New(), uuid.New()
	b.Match("R1M1").SlotA = idPtr(first)
	b.Match("R1M3").SlotA = idPtr(second)

	resolved := ResolveByes(b)

	assert.Equal(t, 4, resolved)
	for _, id := range []string{"R1M1", "R2M1", "R1M3", "R2M2"} {
		m := b.Match(id)
		assert.Equal(t, models.MatchCompleted, m.Status, id)
		assert.True(t, m.IsBye, id)
	}

	// Empty matches are never auto-resolved.
	for _, id := range []string{"R1M2", "R1M4"} {
		m := b.Match(id)
		assert.Equal(t, models.MatchPending, m.Status, id)
		assert.Nil(t, m.WinnerID, id)
	}

	final := b.Match("R3M1")
	require.NotNil(t, final.SlotA)
	require.NotNil(t, final.SlotB)
	assert.Equal(t, first, *final.SlotA)
	assert.Equal(t, second, *final.SlotB)
	assert.Equal(t, models.MatchPending, final.Status)
}

func TestResolveByesWaitsForLiveFeeder(t *testing.T) {
	b := skeleton(2)
	a, c, d := uuid.New(), uuid.New(), uuid.New()
	b.Match("R1M1").SlotA = idPtr(a)
	b.Match("R1M2").SlotA = idPtr(c)
	b.Match("R1M2").SlotB = idPtr(d)

	assert.Equal(t, 1, ResolveByes(b))

	final := b.Match("R2M1")
	assert.Equal(t, a, *final.SlotA)
	assert.Nil(t, final.SlotB)
	assert.Equal(t, models.MatchPending, final.Status, "final still waits for R1M2")
}

func TestResolveByesIsStable(t *testing.T) {
	b := generate(t, makeParticipants(5))
	assert.Zero(t, ResolveByes(b))
}
