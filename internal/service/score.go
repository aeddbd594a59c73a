package service

import "math"

const (
	// minScoringLength is shared with the session layer's minimum word length.
	minScoringLength = 4

	// maxTierLength is the nine seeded letters of a puzzle; longer words fall
	// past the tier table and land on the floor.
	maxTierLength = 9

	// rareThreshold splits the Zipf-like frequency scale: below it a word
	// counts as rare.
	rareThreshold = 3.5

	scoreFloor = 5
)

// ScoreWord maps a word and its corpus frequency (lower = rarer) to a point
// value. Words under the minimum length score 0; every other word scores at
// least the floor. Deterministic, and blind to word content beyond length.
func ScoreWord(word string, frequency float64) int {
	n := len([]rune(word))
	if n < minScoringLength {
		return 0
	}

	isRare := frequency < rareThreshold
	isShort := n <= 5

	var points float64
	switch {
	case n > maxTierLength:
		points = 0
	case isRare && isShort:
		points = 80 + float64(6-n)*10
	case isRare:
		points = 50 + float64(10-n)*5
	case isShort:
		points = 10 + float64(6-n)*2
	default:
		points = 20 + float64(10-n)*3
	}

	score := int(math.Round(points))
	if score < scoreFloor {
		return scoreFloor
	}

	return score
}
