package game

// awardLifePreserver hands the life preserver to the highest fresh roll,
// ties going to the player closest after the first player in turn order.
// The roller owes it to someone else.
func (r *Reducer) awardLifePreserver(gs *GameState) {
	n := len(gs.Players)
	if n == 0 {
		return
	}
	best, bestSum := -1, -1
	for step := 0; step < n; step++ {
		i := (gs.FirstPlayerIndex + step) % n
		sum := 0
		for _, d := range gs.Players[i].FreshDice {
			sum += d
		}
		if sum > bestSum {
			best, bestSum = i, sum
		}
	}
	gs.LifePreserverOwner = gs.Players[best].ID
	gs.PendingLifePreserverGift = ""
	if n > 1 {
		gs.PendingLifePreserverGift = gs.Players[best].ID
	}
}

func (r *Reducer) useLifePreserver(gs *GameState, p *Player, a Action) bool {
	if gs.LifePreserverOwner != p.ID {
		return false
	}
	switch a.Payload.(*UseLifePreserverPayload).UseType {
	case UseAtSea:
		if p.Location != AtSea {
			return false
		}
		gs.LifePreserverDifficultyReduction = &DifficultyReduction{PlayerID: p.ID, Amount: gs.Rules.LifePreserverReduction}
	case UseAtPort:
		if p.Location != AtPort {
			return false
		}
		p.ActiveEffects = append(p.ActiveEffects, Effect{Kind: EffectLifePreserverDiscount, Amount: gs.Rules.LifePreserverShopDiscount})
	}
	gs.LifePreserverOwner = ""
	return true
}

func (r *Reducer) giveLifePreserver(gs *GameState, p *Player, a Action) bool {
	target := a.Payload.(*GiveLifePreserverPayload).TargetPlayerID
	if gs.PendingLifePreserverGift != p.ID || target == p.ID {
		return false
	}
	if _, ok := gs.Player(target); !ok {
		return false
	}
	gs.LifePreserverOwner = target
	gs.PendingLifePreserverGift = ""
	return true
}

func (r *Reducer) claimPassingReward(gs *GameState, p *Player, a Action) bool {
	switch {
	case gs.PendingPassingReward == p.ID:
		gs.PendingPassingReward = ""
	case len(gs.PendingSkippedRewards) > 0 && gs.PendingSkippedRewards[0] == p.ID:
		gs.PendingSkippedRewards = gs.PendingSkippedRewards[1:]
	default:
		return false
	}
	switch a.Payload.(*ClaimPassingRewardPayload).Choice {
	case RewardDink:
		r.drawDink(gs, p)
	case RewardDiscardRegret:
		r.discardRandom(gs, p)
	}
	return true
}
