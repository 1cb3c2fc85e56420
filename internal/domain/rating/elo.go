package rating

import "math"

// KFactor is the maximum rating swing of a single match.
const KFactor = 30

// Expected is the win probability of a player against an opponent rating.
func Expected(playerRating, opponentRating float64) float64 {
	return 1 / (1 + math.Pow(10, (opponentRating-playerRating)/400))
}

// Change is the rounded rating delta for one result.
func Change(playerRating, opponentRating float64, won bool) int {
	actual := 0.0
	if won {
		actual = 1
	}
	return int(math.Round(KFactor * (actual - Expected(playerRating, opponentRating))))
}

// Apply returns the new rating, never below zero.
func Apply(current, change int) int {
	return max(0, current+change)
}

// Average is the mean rating of a roster; zero for an empty roster.
func Average(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}
