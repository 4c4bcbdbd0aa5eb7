package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cryptoPanicFixture = `{"results":[
	{"title":"Liquidation cascade rattles BTC","url":"https://example.com/1","published_at":"2025-06-01T10:00:00Z","source":{"title":"NewsDesk"}},
	{"title":"Funding turns negative on majors","url":"https://example.com/2","published_at":"2025-06-01T11:00:00Z","source":{"title":"NewsDesk"}},
	{"title":"Alts rally into the weekend","url":"https://example.com/3","published_at":"2025-06-01T12:00:00Z","source":{"title":"Wire"}}
]}`

func TestSentimentFetchFromFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("auth_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(cryptoPanicFixture))
	}))
	defer srv.Close()

	a := NewSentimentAdapter(testDeps(), "test-key")
	a.baseURL = srv.URL

	rows := a.Fetch(context.Background(), mustPair(t, "binance:BTC/USDT"))
	require.Len(t, rows, 1)
	obs := rows[0]
	assert.Equal(t, 3, obs.Mentions)
	assert.Equal(t, 1, obs.Keywords["liquidation"])
	assert.Equal(t, 1, obs.Keywords["funding"])
	assert.Equal(t, 1, obs.Keywords["rally"])
	assert.GreaterOrEqual(t, obs.ScoreNorm, -1.0)
	assert.LessOrEqual(t, obs.ScoreNorm, 1.0)
}

func TestSentimentWithoutKeyIsSynthetic(t *testing.T) {
	a := NewSentimentAdapter(testDeps(), "")

	rows := a.Fetch(context.Background(), mustPair(t, "binance:BTC/USDT"))
	require.Len(t, rows, 1)
	obs := rows[0]
	assert.GreaterOrEqual(t, obs.Mentions, 5)
	assert.LessOrEqual(t, obs.Mentions, 50)
	assert.GreaterOrEqual(t, obs.ScoreNorm, -1.0)
	assert.LessOrEqual(t, obs.ScoreNorm, 1.0)
	for _, k := range Vocabulary {
		_, ok := obs.Keywords[k]
		assert.True(t, ok, "missing vocabulary key %q", k)
	}
}

func TestHeadlinesFetchFromFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(cryptoPanicFixture))
	}))
	defer srv.Close()

	a := NewHeadlineAdapter(testDeps(), "test-key")
	a.baseURL = srv.URL

	rows := a.Fetch(context.Background())
	require.Len(t, rows, 3)
	assert.Equal(t, "Liquidation cascade rattles BTC", rows[0].Title)
	assert.Equal(t, "NewsDesk", rows[0].Source)
	assert.Equal(t, headlineID("https://example.com/1", ""), rows[0].ID)
	assert.Contains(t, []string(rows[0].Keywords), "liquidation")
}

func TestHeadlinesFallbackIsSingleSynthetic(t *testing.T) {
	a := NewHeadlineAdapter(testDeps(), "")

	rows := a.Fetch(context.Background())
	require.Len(t, rows, 1)
	assert.Equal(t, "synthetic", rows[0].Source)
	assert.NotZero(t, rows[0].ID)
	assert.NotEmpty(t, rows[0].Keywords)
}
