package brackets

import (
	"testing"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/stretchr/testify/assert"
)

func TestRoundName(t *testing.T) {
	expected := map[int]string{
		5: "Final",
		4: "Semifinal",
		3: "Quarterfinal",
		2: "Round 2",
		1: "Round 1",
	}
	for round, name := range expected {
		assert.Equal(t, name, RoundName(round, 5), "round %d", round)
	}

	assert.Equal(t, "Final", RoundName(2, 2))
	assert.Equal(t, "Semifinal", RoundName(1, 2))
	assert.Equal(t, "Final", RoundName(1, 1))
}

func TestTargetSlot(t *testing.T) {
	assert.Equal(t, models.SlotA, TargetSlot(1))
	assert.Equal(t, models.SlotB, TargetSlot(2))
	assert.Equal(t, models.SlotA, TargetSlot(7))
	assert.Equal(t, models.SlotB, TargetSlot(8))
}
