package agent

import "deepregrets/game"

// Evaluate scores playerID's position in [-1, 1] against the strongest
// opponent. A finished game scores 1 for the winner and -1 for everyone else.
func Evaluate(gs *game.GameState, playerID string) float64 {
	p, ok := gs.Player(playerID)
	if !ok {
		return 0
	}
	if gs.IsGameOver {
		if game.WinnerID(gs) == p.ID {
			return 1
		}
		return -1
	}

	value := position(p, gs.Rules)
	best := 0.0
	for i := range gs.Players {
		o := &gs.Players[i]
		if o.ID != p.ID {
			best = max(best, position(o, gs.Rules))
		}
	}
	return normalize(value, best)
}

// position is the current score with fish in hand discounted and the regret
// value weighed in, since it decides the endgame forfeit.
func position(p *game.Player, rules game.Rules) float64 {
	v := float64(game.MountedFishScore(p)+game.FishbuckScore(p)) +
		0.8*float64(game.HandFishScore(p)) -
		0.25*float64(game.RegretValue(p, rules))
	return max(0, v)
}

func normalize(value, other float64) float64 {
	if value+other == 0 {
		return 0
	}
	return (value - other) / (value + other)
}
