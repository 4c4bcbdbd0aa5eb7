package adapters

import (
	"context"
	"math/rand"
	"time"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
)

// SentimentAdapter samples market chatter from the global news feed and
// attributes it to the requested pair. The fallback fabricates a sample
// in the same value domains.
type SentimentAdapter struct {
	deps    Deps
	apiKey  string
	baseURL string
}

func NewSentimentAdapter(deps Deps, apiKey string) *SentimentAdapter {
	return &SentimentAdapter{deps: deps, apiKey: apiKey, baseURL: cryptoPanicURL}
}

func (a *SentimentAdapter) Fetch(ctx context.Context, pair models.Pair) []models.SentimentObservation {
	primary := func(ctx context.Context) ([]models.SentimentObservation, error) {
		posts, err := fetchCryptoPanicPosts(ctx, a.deps, a.baseURL, a.apiKey)
		if err != nil {
			return nil, err
		}
		titles := make([]string, len(posts))
		for i, p := range posts {
			titles[i] = p.Title
		}
		return []models.SentimentObservation{{
			Pair:      pair.String(),
			TS:        observationTime(time.Now().UTC()),
			Mentions:  len(titles),
			ScoreNorm: polarityScore(titles),
			Keywords:  countKeywords(titles),
		}}, nil
	}
	return resolve(ctx, a.deps, "sentiment", pair.String(), primary, func() []models.SentimentObservation {
		return syntheticSentiment(pair, time.Now().UTC())
	})
}

func syntheticSentiment(pair models.Pair, now time.Time) []models.SentimentObservation {
	mentions := 5 + rand.Intn(46)
	counts := make(models.KeywordCount, len(Vocabulary))
	for _, k := range Vocabulary {
		counts[k] = rand.Intn(mentions/2 + 1)
	}
	return []models.SentimentObservation{{
		Pair:      pair.String(),
		TS:        observationTime(now),
		Mentions:  mentions,
		ScoreNorm: rand.Float64()*2 - 1,
		Keywords:  counts,
	}}
}
