package brackets

import (
	"fmt"
	"math"
)

// SeedPositions returns, for each first-round slot of a bracket of the given
// size, the seed (1-based) placed there. Seeds 1 and 2 land in opposite halves,
// seeds 1..4 in different quarters, and so on down to the first round, where
// seed s always meets seed bracketSize+1-s.
func SeedPositions(bracketSize int) ([]int, error) {
	if !isPowerOfTwo(bracketSize) {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidBracketSize, bracketSize)
	}

	positions := make([]int, bracketSize)
	var assign func(seed, start, length int)
	assign = func(seed, start, length int) {
		if length == 1 {
			positions[start] = seed
			return
		}
		half := length / 2
		assign(seed, start, half)
		// The opponent at this level is the complement among the
		// 2*bracketSize/length seeds still alive when the two halves meet.
		assign(2*bracketSize/length+1-seed, start+half, half)
	}
	assign(1, 0, bracketSize)

	fillUnassigned(positions)
	return positions, nil
}

// fillUnassigned replaces empty or duplicated entries with the missing seeds in
// ascending order and reports how many slots it had to repair.
func fillUnassigned(positions []int) int {
	n := len(positions)
	seen := make([]bool, n+1)
	var broken []int
	for i, seed := range positions {
		if seed < 1 || seed > n || seen[seed] {
			broken = append(broken, i)
			continue
		}
		seen[seed] = true
	}
	if len(broken) == 0 {
		return 0
	}

	next := 1
	for _, i := range broken {
		for seen[next] {
			next++
		}
		positions[i] = next
		seen[next] = true
	}
	return len(broken)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// RoundsFor returns the number of rounds and the bracket size for n participants.
func RoundsFor(n int) (numRounds, bracketSize int) {
	if n < 2 {
		return 0, 1
	}
	numRounds = int(math.Ceil(math.Log2(float64(n))))
	return numRounds, 1 << uint(numRounds)
}
