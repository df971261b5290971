package game

import (
	"golang.org/x/exp/slices"

	"deepregrets/catalog"
	"deepregrets/utils"
)

func (r *Reducer) revealFish(gs *GameState, p *Player, a Action) bool {
	pl := a.Payload.(*ShoalPayload)
	if p.Location != AtSea || len(p.FreshDice) == 0 || pl.Depth != p.CurrentDepth {
		return false
	}
	key := shoalKey(pl.Depth, pl.Shoal)
	if len(gs.shoal(pl.Depth, pl.Shoal)) == 0 || gs.Sea.Revealed[key] {
		return false
	}
	gs.Sea.Revealed[key] = true
	p.CurrentShoal = pl.Shoal
	return true
}

func (r *Reducer) descend(gs *GameState, p *Player, a Action) bool {
	return r.descendTo(gs, p, a.Payload.(*DescendPayload).TargetDepth)
}

func (r *Reducer) moveDeeper(gs *GameState, p *Player, _ Action) bool {
	return r.descendTo(gs, p, p.CurrentDepth+1)
}

// descendTo spends one qualifying die per level, smallest qualifying dice
// first. Without enough qualifying dice nothing moves and nothing is spent.
func (r *Reducer) descendTo(gs *GameState, p *Player, target int) bool {
	if p.Location != AtSea || target <= p.CurrentDepth || target > len(gs.Sea.Shoals) {
		return false
	}
	threshold := DescendThreshold(p, gs.Rules, r.equipment(p))
	var qualifying []int
	for i, d := range p.FreshDice {
		if d >= threshold {
			qualifying = append(qualifying, i)
		}
	}
	levels := target - p.CurrentDepth
	if len(qualifying) < levels {
		return false
	}
	slices.SortStableFunc(qualifying, func(i, j int) int { return p.FreshDice[i] - p.FreshDice[j] })
	spendDice(p, qualifying[:levels])
	p.CurrentDepth = target
	p.CurrentShoal = NoShoal
	return true
}

// DescendThreshold is the smallest die value that pays for one level of descent.
func DescendThreshold(p *Player, rules Rules, equipment []catalog.Ability) int {
	return max(1, rules.DescendThreshold-p.DescendDiscount-catalog.Total(equipment, catalog.DescendDiscount))
}

// CatchDifficulty is the dice total the player needs for fish, and whether
// auto-catch lets them skip the roll. Relentless fish ignore every reduction.
func CatchDifficulty(gs *GameState, p *Player, fish catalog.FishCard, equipment []catalog.Ability) (int, bool) {
	if fish.IsRelentless() {
		return fish.Difficulty, false
	}
	difficulty := fish.Difficulty
	if lp := gs.LifePreserverDifficultyReduction; lp != nil && lp.PlayerID == p.ID {
		difficulty -= lp.Amount
	}
	for _, e := range p.ActiveEffects {
		if e.Kind == EffectDifficultyReduction {
			difficulty -= e.Amount
		}
	}
	difficulty = max(0, difficulty)
	return difficulty, catalog.Has(equipment, catalog.AutoCatch) && difficulty <= gs.Rules.AutoCatchMaxDifficulty
}

// CatchBonus is what equipment adds to the dice total. Relentless fish take
// none of it.
func CatchBonus(fish catalog.FishCard, equipment []catalog.Ability) int {
	if fish.IsRelentless() {
		return 0
	}
	return catalog.Total(equipment, catalog.CatchBonus)
}

func (r *Reducer) catchFish(gs *GameState, p *Player, a Action) bool {
	pl := a.Payload.(*CatchFishPayload)
	if p.Location != AtSea || pl.Depth != p.CurrentDepth || !gs.validShoal(pl.Depth, pl.Shoal) {
		return false
	}
	key := shoalKey(pl.Depth, pl.Shoal)
	stack := gs.shoal(pl.Depth, pl.Shoal)
	if len(stack) == 0 || stack[0].ID != pl.FishID || !gs.Sea.Revealed[key] {
		return false
	}
	if !validIndices(pl.DiceIndices, len(p.FreshDice)) || !validIndices(pl.TackleDiceIndices, len(p.TackleDice)) {
		return false
	}

	fish := stack[0]
	equipment := r.equipment(p)
	difficulty, auto := CatchDifficulty(gs, p, fish, equipment)

	total := CatchBonus(fish, equipment)
	for _, i := range pl.DiceIndices {
		total += p.FreshDice[i]
	}
	for _, i := range pl.TackleDiceIndices {
		die, err := r.catalog.TackleDie(p.TackleDice[i])
		if err != nil {
			r.logger.Warn().Err(err).Str("player", p.ID).Msg("Unknown tackle die")
			return false
		}
		total += rollTackle(r.rng, die)
	}
	count := len(pl.DiceIndices) + len(pl.TackleDiceIndices)
	caught := auto || (count > 0 && total >= difficulty && count >= fish.MinDice)

	if !caught {
		r.missCatch(gs, p)
		r.logger.Debug().Str("player", p.ID).Str("fish", fish.ID).Int("total", total).Int("difficulty", difficulty).Msg("Missed")
		return true
	}

	spendDice(p, pl.DiceIndices)
	r.returnTackle(gs, p, pl.TackleDiceIndices)
	for p.HasEffect(EffectDifficultyReduction) {
		p.consumeEffect(EffectDifficultyReduction)
	}
	gs.Sea.Shoals[pl.Depth-1][pl.Shoal] = slices.Clone(stack[1:])
	delete(gs.Sea.Revealed, key)
	p.HandFish = append(p.HandFish, fish)
	r.logger.Debug().Str("player", p.ID).Str("fish", fish.ID).Msg("Caught")

	if len(stack) == 1 {
		r.drawRegrets(gs, p, 1)
		if gs.seaEmpty() {
			r.resolveEndgame(gs)
			return true
		}
	}
	r.resolveCatch(gs, p, fish, equipment)
	if lp := gs.LifePreserverDifficultyReduction; lp != nil && lp.PlayerID == p.ID {
		gs.LifePreserverDifficultyReduction = nil
	}
	return true
}

// missCatch force-spends the first fresh die and draws a dink.
func (r *Reducer) missCatch(gs *GameState, p *Player) {
	if len(p.FreshDice) > 0 {
		spendDice(p, []int{0})
	}
	r.drawDink(gs, p)
}

func (r *Reducer) returnTackle(gs *GameState, p *Player, indices []int) {
	if len(indices) == 0 {
		return
	}
	var kept []string
	for i, id := range p.TackleDice {
		if utils.FindIndex(indices, i) >= 0 {
			gs.Port.TackleBag = append(gs.Port.TackleBag, id)
		} else {
			kept = append(kept, id)
		}
	}
	p.TackleDice = append([]string{}, kept...)
}

// discardFish moves a fish to the graveyard of its depth.
func discardFish(gs *GameState, f catalog.FishCard) {
	d := clamp(f.Depth, 1, len(gs.Sea.Graveyards)) - 1
	gs.Sea.Graveyards[d] = append(gs.Sea.Graveyards[d], f)
}

func (r *Reducer) useCanOfWorms(gs *GameState, p *Player, a Action) bool {
	pl := a.Payload.(*ShoalPayload)
	if p.Location != AtSea || !p.CanOfWormsFaceUp || pl.Depth != p.CurrentDepth {
		return false
	}
	stack := gs.shoal(pl.Depth, pl.Shoal)
	if len(stack) < 2 {
		return false
	}
	gs.Sea.Shoals[pl.Depth-1][pl.Shoal] = append(slices.Clone(stack[1:]), stack[0])
	delete(gs.Sea.Revealed, shoalKey(pl.Depth, pl.Shoal))
	p.CanOfWormsFaceUp = false
	return true
}

// abandonShip flips the player's lifeboat for good: one regret is discarded,
// the player makes port, and the endgame regret value carries the penalty.
func (r *Reducer) abandonShip(gs *GameState, p *Player, _ Action) bool {
	if p.Location != AtSea || p.LifeboatFlipped {
		return false
	}
	p.LifeboatFlipped = true
	r.discardRandom(gs, p)
	r.makePort(p)
	syncDiceRemoval(gs, p)
	r.logger.Info().Str("player", p.ID).Msg("Abandoned ship")
	return true
}
