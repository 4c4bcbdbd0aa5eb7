package adapters

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
)

// HeadlineAdapter fetches the global headline feed once per cycle. The
// fallback is a single synthetic headline so downstream consumers always
// see the same shape.
type HeadlineAdapter struct {
	deps    Deps
	apiKey  string
	baseURL string
}

func NewHeadlineAdapter(deps Deps, apiKey string) *HeadlineAdapter {
	return &HeadlineAdapter{deps: deps, apiKey: apiKey, baseURL: cryptoPanicURL}
}

func (a *HeadlineAdapter) Fetch(ctx context.Context) []models.Headline {
	primary := func(ctx context.Context) ([]models.Headline, error) {
		posts, err := fetchCryptoPanicPosts(ctx, a.deps, a.baseURL, a.apiKey)
		if err != nil {
			return nil, err
		}
		rows := make([]models.Headline, 0, len(posts))
		for _, p := range posts {
			ts := p.PublishedAt
			if ts.IsZero() {
				ts = time.Now().UTC()
			}
			rows = append(rows, models.Headline{
				ID:       headlineID(p.URL, p.Title),
				TS:       ts.UTC(),
				Source:   p.Source.Title,
				Title:    p.Title,
				URL:      p.URL,
				Keywords: extractKeywords(p.Title),
			})
		}
		return rows, nil
	}
	return resolve(ctx, a.deps, "headlines", "global", primary, func() []models.Headline {
		return syntheticHeadlines(time.Now().UTC())
	})
}

// headlineID derives a stable id from the story URL so re-ingesting the
// same story conflicts and does nothing.
func headlineID(url, title string) int64 {
	h := fnv.New64a()
	if url != "" {
		h.Write([]byte(url))
	} else {
		h.Write([]byte(title))
	}
	return int64(h.Sum64() & math.MaxInt64)
}

func syntheticHeadlines(now time.Time) []models.Headline {
	title := "Market wobbles as OI surges; funding flips negative"
	url := "https://example.com/market-wobbles"
	return []models.Headline{{
		ID:       headlineID(url, title),
		TS:       now,
		Source:   "synthetic",
		Title:    title,
		URL:      url,
		Keywords: extractKeywords(title),
	}}
}
