package adapters

import (
	"context"
	"fmt"
	"time"
)

const cryptoPanicURL = "https://cryptopanic.com/api/v1"

type cryptoPanicPost struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	Source      struct {
		Title string `json:"title"`
	} `json:"source"`
}

type cryptoPanicResponse struct {
	Results []cryptoPanicPost `json:"results"`
}

// fetchCryptoPanicPosts pulls the important-news feed. An empty API key
// is an error so callers drop straight to their synthetic fallback.
func fetchCryptoPanicPosts(ctx context.Context, deps Deps, baseURL, apiKey string) ([]cryptoPanicPost, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("cryptopanic: no api key configured")
	}
	var raw cryptoPanicResponse
	err := deps.HTTP.GetJSON(ctx, baseURL+"/posts/", map[string]string{
		"auth_token": apiKey,
		"public":     "true",
		"kind":       "news",
		"filter":     "important",
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("cryptopanic posts: %w", err)
	}
	return raw.Results, nil
}
