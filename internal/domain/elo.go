package domain

import "math"

const (
	KFactor       = 32.0
	InitialRating = 1200
)

// ExpectedScore is the probability-like score A is expected to take from B.
func ExpectedScore(ratingA, ratingB int) float64 {
	return 1.0 / (1.0 + math.Pow(10.0, float64(ratingB-ratingA)/400.0))
}

// CalculateElo returns the new rating for player A.
// score is 1.0 for a win, 0.5 for a draw, and 0.0 for a loss.
func CalculateElo(ratingA, ratingB int, score float64) int {
	newRating := float64(ratingA) + KFactor*(score-ExpectedScore(ratingA, ratingB))
	if newRating < 0 {
		return 0
	}
	return int(math.Round(newRating))
}

// OutcomeScore converts a finished game into the Elo score of side.
func OutcomeScore(status GameStatus, winner, side Color) float64 {
	switch {
	case status == StatusDraw:
		return 0.5
	case winner == side:
		return 1.0
	default:
		return 0.0
	}
}

// UpdatePair rates both contestants of one game at once.
func UpdatePair(ratingA, ratingB int, scoreA float64) (int, int) {
	return CalculateElo(ratingA, ratingB, scoreA), CalculateElo(ratingB, ratingA, 1.0-scoreA)
}
