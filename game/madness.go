package game

import "deepregrets/catalog"

// Tier is one row of the madness table.
type Tier struct {
	MinRegrets   int
	MaxRegrets   int // -1 means unbounded
	FairModifier int
	FoulModifier int
	MaxDice      int
	PortDiscount bool
}

// madnessTiers is the only copy of the madness table. Ranges are inclusive,
// contiguous and cover [0, inf).
var madnessTiers = []Tier{
	{MinRegrets: 0, MaxRegrets: 0, FairModifier: 2, FoulModifier: -2, MaxDice: 4},
	{MinRegrets: 1, MaxRegrets: 3, FairModifier: 1, FoulModifier: -1, MaxDice: 4},
	{MinRegrets: 4, MaxRegrets: 6, FairModifier: 1, FoulModifier: 0, MaxDice: 5},
	{MinRegrets: 7, MaxRegrets: 9, FairModifier: 0, FoulModifier: 1, MaxDice: 6},
	{MinRegrets: 10, MaxRegrets: 12, FairModifier: -1, FoulModifier: 1, MaxDice: 7},
	{MinRegrets: 13, MaxRegrets: -1, FairModifier: -2, FoulModifier: 2, MaxDice: 8, PortDiscount: true},
}

// MaxMadnessLevel is the index of the last tier.
var MaxMadnessLevel = len(madnessTiers) - 1

// TierIndex returns the index of the tier containing regretCount. Negative counts count as zero.
func TierIndex(regretCount int) int {
	if regretCount < 0 {
		regretCount = 0
	}
	for i, t := range madnessTiers {
		if t.MaxRegrets < 0 || regretCount <= t.MaxRegrets {
			return i
		}
	}
	return MaxMadnessLevel
}

func TierFor(regretCount int) Tier {
	return madnessTiers[TierIndex(regretCount)]
}

// TierAt returns the tier for a madness level, clamped to the table.
func TierAt(level int) Tier {
	return madnessTiers[clamp(level, 0, MaxMadnessLevel)]
}

func FairModifier(regretCount int) int {
	return TierFor(regretCount).FairModifier
}

func FoulModifier(regretCount int) int {
	return TierFor(regretCount).FoulModifier
}

func MaxDiceFor(regretCount int) int {
	return TierFor(regretCount).MaxDice
}

func HasPortDiscount(regretCount int) bool {
	return TierFor(regretCount).PortDiscount
}

// Modifier returns the value modifier a tier applies to a fish of the given quality.
func (t Tier) Modifier(q catalog.Quality) int {
	if q == catalog.Foul {
		return t.FoulModifier
	}
	return t.FairModifier
}

// AdjustedFishValue is the fish's value under the madness tier for regretCount, never below zero.
func AdjustedFishValue(fish catalog.FishCard, regretCount int) int {
	return adjustedValue(fish, TierFor(regretCount))
}

func adjustedValue(fish catalog.FishCard, tier Tier) int {
	return max(0, fish.Value+tier.Modifier(fish.Quality))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
