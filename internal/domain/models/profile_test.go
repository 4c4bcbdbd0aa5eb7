package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveProfile(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "known profile", in: "aggressive", want: "aggressive"},
		{name: "case insensitive", in: "Conservative", want: "conservative"},
		{name: "unknown falls back", in: "yolo", want: "balanced"},
		{name: "empty falls back", in: "", want: "balanced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveProfile(tt.in).Name)
		})
	}
}

func TestBalancedThresholds(t *testing.T) {
	p := ResolveProfile("balanced")
	assert.Equal(t, 80.0, p.OIHigh)
	assert.Equal(t, 40.0, p.OILow)
	assert.Equal(t, -0.0001, p.FundingNeg)
	assert.Equal(t, 0.00005, p.FundingPos)
	assert.Equal(t, 0.00015, p.SlopeLong)
	assert.Equal(t, -0.00015, p.SlopeShort)
	assert.Equal(t, 1.5, p.SentSpike)
}

func TestProfileOrdering(t *testing.T) {
	agg := ResolveProfile("aggressive")
	bal := ResolveProfile("balanced")
	con := ResolveProfile("conservative")

	// Aggressive triggers earlier than balanced, balanced earlier than conservative.
	assert.Less(t, agg.OIHigh, bal.OIHigh)
	assert.Less(t, bal.OIHigh, con.OIHigh)
	assert.Greater(t, agg.FundingNeg, bal.FundingNeg)
	assert.Greater(t, bal.FundingNeg, con.FundingNeg)
	assert.Less(t, agg.SentSpike, bal.SentSpike)
	assert.Less(t, bal.SentSpike, con.SentSpike)
}
