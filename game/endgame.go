package game

import (
	"golang.org/x/exp/slices"

	"deepregrets/utils"
)

// resolveEndgame scores the game. The player with the highest regret value
// (earliest seat on ties) forfeits one mount: the weakest in a two-player
// game, the strongest with three or more.
func (r *Reducer) resolveEndgame(gs *GameState) {
	penalized := -1
	highest := -1
	for i := range gs.Players {
		if v := RegretValue(&gs.Players[i], gs.Rules); v > highest {
			penalized, highest = i, v
		}
	}

	forfeited := 0
	if penalized >= 0 && len(gs.Players[penalized].MountedFish) > 0 {
		p := &gs.Players[penalized]
		pick := 0
		for i, m := range p.MountedFish {
			v, best := mountValue(p, m), mountValue(p, p.MountedFish[pick])
			if (len(gs.Players) <= 2 && v < best) || (len(gs.Players) > 2 && v > best) {
				pick = i
			}
		}
		forfeited = mountValue(p, p.MountedFish[pick])
		discardFish(gs, p.MountedFish[pick].Fish)
		p.MountedFish = utils.RemoveAt(p.MountedFish, pick)
	}

	scores := make([]ScoreBreakdown, len(gs.Players))
	for i := range gs.Players {
		scores[i] = Breakdown(&gs.Players[i], gs.Rules)
		if i == penalized {
			scores[i].ForfeitedMount = forfeited
		}
	}
	gs.FinalScores = scores

	ranking := Ranking(scores)
	gs.Winner = scores[ranking[0]].Name
	gs.IsGameOver = true
	gs.Phase = EndgamePhase
	gs.PendingDiceRemoval = []DiceRemoval{}
	gs.PendingLifePreserverGift = ""
	gs.PendingPassingReward = ""
	gs.PendingSkippedRewards = []string{}
	gs.LastPlayerTurnsRemaining = nil
	gs.LifePreserverDifficultyReduction = nil
	r.logger.Info().Str("game", gs.GameID).Str("winner", gs.Winner).Msg("Game over")
}

// WinnerID is the player id behind Winner, or "" while the game is running.
func WinnerID(gs *GameState) string {
	if !gs.IsGameOver || len(gs.FinalScores) == 0 {
		return ""
	}
	return gs.FinalScores[Ranking(gs.FinalScores)[0]].PlayerID
}

// Ranking orders score indices best first: higher total, then lower regret
// value, then fewer regret cards, then earlier seat.
func Ranking(scores []ScoreBreakdown) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		x, y := scores[a], scores[b]
		switch {
		case x.Total != y.Total:
			return y.Total - x.Total
		case x.RegretValue != y.RegretValue:
			return x.RegretValue - y.RegretValue
		default:
			return x.RegretCount - y.RegretCount
		}
	})
	return order
}
