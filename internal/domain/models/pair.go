package models

import (
	"fmt"
	"strings"
)

// Pair identifies a venue-scoped trading instrument, e.g. "binance:BTC/USDT".
type Pair struct {
	Venue string
	Base  string
	Quote string
}

// ParsePair parses a "<venue>:<base>/<quote>" identifier.
func ParsePair(s string) (Pair, error) {
	venue, rest, ok := strings.Cut(s, ":")
	if !ok {
		return Pair{}, fmt.Errorf("pair %q: missing venue separator", s)
	}
	base, quote, ok := strings.Cut(rest, "/")
	if !ok {
		return Pair{}, fmt.Errorf("pair %q: missing quote separator", s)
	}
	if venue == "" || base == "" || quote == "" {
		return Pair{}, fmt.Errorf("pair %q: empty component", s)
	}
	return Pair{
		Venue: strings.ToLower(venue),
		Base:  strings.ToUpper(base),
		Quote: strings.ToUpper(quote),
	}, nil
}

// String returns the canonical "<venue>:<base>/<quote>" form.
func (p Pair) String() string {
	return fmt.Sprintf("%s:%s/%s", p.Venue, p.Base, p.Quote)
}

// Symbol returns the venue-native concatenated symbol, e.g. "BTCUSDT".
func (p Pair) Symbol() string {
	return p.Base + p.Quote
}
