package adapters

import (
	"strings"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
)

// Vocabulary is the fixed keyword set counted by the sentiment and
// headline adapters. The stored keyword map stays an open mapping; this
// list only drives extraction.
var Vocabulary = []string{
	"liquidation", "margin call", "rekt", "funding", "open interest",
	"crash", "rally",
}

var (
	bullishWords = []string{"rally", "surge", "bull", "up", "green", "gain"}
	bearishWords = []string{"crash", "drop", "bear", "down", "red", "loss", "liquidat"}
)

// countKeywords tallies vocabulary hits across titles. Every vocabulary
// entry appears in the result, zero or not, so downstream half-window
// sums see a stable key set.
func countKeywords(titles []string) models.KeywordCount {
	counts := make(models.KeywordCount, len(Vocabulary))
	for _, k := range Vocabulary {
		counts[k] = 0
	}
	for _, title := range titles {
		lower := strings.ToLower(title)
		for _, k := range Vocabulary {
			if strings.Contains(lower, k) {
				counts[k]++
			}
		}
	}
	return counts
}

// extractKeywords returns the vocabulary entries present in a single title.
func extractKeywords(title string) models.KeywordList {
	lower := strings.ToLower(title)
	var out models.KeywordList
	for _, k := range Vocabulary {
		if strings.Contains(lower, k) {
			out = append(out, k)
		}
	}
	return out
}

// polarityScore scores each title at most +1 for bullish wording and -1
// for bearish wording, normalized by title count. Per-title contributions
// are in {-1, 0, 1}, so the result stays within [-1, 1]; zero when there
// are no titles.
func polarityScore(titles []string) float64 {
	if len(titles) == 0 {
		return 0
	}
	score := 0.0
	for _, title := range titles {
		lower := strings.ToLower(title)
		if containsAny(lower, bullishWords) {
			score++
		}
		if containsAny(lower, bearishWords) {
			score--
		}
	}
	return score / float64(len(titles))
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
