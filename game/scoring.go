package game

import "deepregrets/catalog"

// ScoreBreakdown is a player's score split into its parts.
type ScoreBreakdown struct {
	PlayerID       string `json:"playerId"`
	Name           string `json:"name"`
	HandFish       int    `json:"handFish"`
	MountedFish    int    `json:"mountedFish"`
	Fishbucks      int    `json:"fishbucks"`
	Total          int    `json:"total"`
	RegretValue    int    `json:"regretValue"`
	RegretCount    int    `json:"regretCount"`
	ForfeitedMount int    `json:"forfeitedMount,omitempty"`
}

// tier is the madness tier a player's fish are valued at.
func (p *Player) tier() Tier {
	return TierAt(p.MadnessLevel)
}

// HandFishScore sums the madness-adjusted value of every fish in hand.
func HandFishScore(p *Player) int {
	tier := p.tier()
	total := 0
	for _, f := range p.HandFish {
		total += adjustedValue(f, tier)
	}
	return total
}

// MountedFishScore sums each mount's adjusted value times its slot multiplier.
// The madness modifier applies before the multiplier.
func MountedFishScore(p *Player) int {
	total := 0
	for _, m := range p.MountedFish {
		total += mountValue(p, m)
	}
	return total
}

// FishValue is what the fish is worth to p right now: its sale price and its hand score.
func FishValue(p *Player, fish catalog.FishCard) int {
	return adjustedValue(fish, p.tier())
}

func mountValue(p *Player, m MountedFish) int {
	return adjustedValue(m.Fish, p.tier()) * m.Multiplier
}

func FishbuckScore(p *Player) int {
	return p.Fishbucks
}

// RegretValue is the hidden regret penalty used for the endgame forfeiture and
// tie-breaks. It is not part of TotalScore.
func RegretValue(p *Player, rules Rules) int {
	total := 0
	for _, r := range p.Regrets {
		total += r.Value
	}
	if p.LifeboatFlipped {
		total += rules.LifeboatPenalty
	}
	return total
}

func TotalScore(p *Player) int {
	return HandFishScore(p) + MountedFishScore(p) + FishbuckScore(p)
}

func Breakdown(p *Player, rules Rules) ScoreBreakdown {
	b := ScoreBreakdown{
		PlayerID:    p.ID,
		Name:        p.Name,
		HandFish:    HandFishScore(p),
		MountedFish: MountedFishScore(p),
		Fishbucks:   FishbuckScore(p),
		RegretValue: RegretValue(p, rules),
		RegretCount: len(p.Regrets),
	}
	b.Total = b.HandFish + b.MountedFish + b.Fishbucks
	return b
}
