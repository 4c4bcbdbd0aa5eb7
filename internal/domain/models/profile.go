package models

import "strings"

// DefaultProfile is used when a requested profile name is unknown or empty.
const DefaultProfile = "balanced"

// Profile bundles the rule thresholds that control how aggressively the
// signal engine flags risk and bias. Percentile thresholds are on a 0-100
// scale; funding thresholds are signed fractions; slope thresholds are
// per-hour percent changes.
type Profile struct {
	Name       string
	OIHigh     float64 // OI percentile at or above which positioning is crowded
	OILow      float64 // OI percentile at or below which positioning is light
	FundingNeg float64 // funding at or below this is a short-side signal
	FundingPos float64 // funding above this is a long-side signal
	SlopeLong  float64 // momentum slope above this is a long tailwind
	SlopeShort float64 // momentum slope below this is a short headwind
	SentSpike  float64 // liquidation-chatter spike multiplier for the risk regime
}

var profiles = map[string]Profile{
	"aggressive": {
		Name:       "aggressive",
		OIHigh:     65,
		OILow:      30,
		FundingNeg: -0.00002,
		FundingPos: 0.00002,
		SlopeLong:  0.00008,
		SlopeShort: -0.00008,
		SentSpike:  1.2,
	},
	"balanced": {
		Name:       "balanced",
		OIHigh:     80,
		OILow:      40,
		FundingNeg: -0.0001,
		FundingPos: 0.00005,
		SlopeLong:  0.00015,
		SlopeShort: -0.00015,
		SentSpike:  1.5,
	},
	"conservative": {
		Name:       "conservative",
		OIHigh:     90,
		OILow:      45,
		FundingNeg: -0.0002,
		FundingPos: 0.00012,
		SlopeLong:  0.00025,
		SlopeShort: -0.00025,
		SentSpike:  1.8,
	},
}

// ResolveProfile maps a profile name to its threshold bundle. Unknown or
// empty names resolve silently to the balanced profile.
func ResolveProfile(name string) Profile {
	if p, ok := profiles[strings.ToLower(name)]; ok {
		return p
	}
	return profiles[DefaultProfile]
}

// ProfileNames lists the known profile names.
func ProfileNames() []string {
	return []string{"aggressive", "balanced", "conservative"}
}
