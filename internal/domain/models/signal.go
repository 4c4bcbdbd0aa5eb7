package models

import "time"

// Regime labels emitted by the signal engine.
const (
	RegimeUnknown       = "Unknown"
	RegimeRisky         = "Risky / High Liquidation Risk"
	RegimeConstructive  = "Constructive"
	RegimeWeak          = "Weak"
	RegimeCrossCurrents = "Cross Currents"
	RegimeBalanced      = "Balanced / Choppy"
)

// Bias labels emitted by the signal engine.
const (
	BiasLong    = "Long"
	BiasShort   = "Short"
	BiasFlat    = "Flat"
	BiasNeutral = "Neutral"
)

// SignalVerdict is the discrete market-stress classification for one pair.
// Long and short probabilities are each in [0,1] and need not sum to 1.
type SignalVerdict struct {
	Pair      string    `db:"pair" json:"pair"`
	TS        time.Time `db:"ts" json:"ts"`
	Regime    string    `db:"regime" json:"regime"`
	Bias      string    `db:"bias" json:"bias"`
	LongProb  float64   `db:"long_prob" json:"long_prob"`
	ShortProb float64   `db:"short_prob" json:"short_prob"`
	Summary   string    `db:"summary" json:"summary"`
	Profile   string    `db:"profile" json:"profile"`
}
