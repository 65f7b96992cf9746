package domain

// Tier is the giving level derived from a donor's cumulative total.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// Lower bounds, inclusive.
const (
	SilverThreshold   = 1_000.0
	GoldThreshold     = 10_000.0
	PlatinumThreshold = 50_000.0
)

// Tiers lists every tier from lowest to highest.
var Tiers = []Tier{TierBronze, TierSilver, TierGold, TierPlatinum}

// TierFor maps cumulative giving to a tier. It never looks at a prior tier.
func TierFor(totalGiven float64) Tier {
	switch {
	case totalGiven >= PlatinumThreshold:
		return TierPlatinum
	case totalGiven >= GoldThreshold:
		return TierGold
	case totalGiven >= SilverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierBronze, TierSilver, TierGold, TierPlatinum:
		return true
	}
	return false
}
