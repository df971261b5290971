package game

import "golang.org/x/exp/slices"

// rollPool rolls n dice, rerolling ones once if the player's character allows it.
func (r *Reducer) rollPool(p *Player, n int) []int {
	dice := rollDice(r.rng, n)
	if p.RerollOnes {
		for i, d := range dice {
			if d == 1 {
				dice[i] = rollDie(r.rng)
			}
		}
	}
	return dice
}

// refreshPool recombines fresh and spent dice and rerolls the pool up to maxDice.
func (r *Reducer) refreshPool(p *Player) {
	p.FreshDice = r.rollPool(p, p.MaxDice)
	p.SpentDice = []int{}
}

// makePort rerolls the player's current pool (fresh plus spent) without
// topping it up. Dice beyond maxDice go straight to spent.
func (r *Reducer) makePort(p *Player) {
	total := len(p.FreshDice) + len(p.SpentDice)
	rolled := r.rollPool(p, total)
	keep := min(total, p.MaxDice)
	p.FreshDice = rolled[:keep]
	p.SpentDice = slices.Clone(rolled[keep:])
	p.CanOfWormsFaceUp = true
	p.Location = AtPort
	p.CurrentShoal = NoShoal
}

// spendDice moves the fresh dice at indices to spent, preserving the order of the rest.
func spendDice(p *Player, indices []int) {
	selected := map[int]bool{}
	for _, i := range indices {
		selected[i] = true
	}
	fresh := make([]int, 0, len(p.FreshDice))
	for i, d := range p.FreshDice {
		if selected[i] {
			p.SpentDice = append(p.SpentDice, d)
		} else {
			fresh = append(fresh, d)
		}
	}
	p.FreshDice = fresh
}

func validIndices(indices []int, n int) bool {
	for _, i := range indices {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}

// addFreshDie gives the player one more rolled die, queueing a removal if that
// breaks the cap.
func (r *Reducer) addFreshDie(gs *GameState, p *Player) {
	p.FreshDice = append(p.FreshDice, r.rollPool(p, 1)...)
	syncDiceRemoval(gs, p)
}

// syncDiceRemoval keeps the player's pending removal equal to the fresh dice
// over the cap, dropping the entry when there is no excess.
func syncDiceRemoval(gs *GameState, p *Player) {
	if gs == nil {
		return
	}
	excess := len(p.FreshDice) - p.MaxDice
	i := slices.IndexFunc(gs.PendingDiceRemoval, func(d DiceRemoval) bool { return d.PlayerID == p.ID })
	switch {
	case excess > 0 && i >= 0:
		gs.PendingDiceRemoval[i].Count = excess
	case excess > 0:
		gs.PendingDiceRemoval = append(gs.PendingDiceRemoval, DiceRemoval{PlayerID: p.ID, Count: excess})
	case i >= 0:
		gs.PendingDiceRemoval = slices.Delete(gs.PendingDiceRemoval, i, i+1)
	}
}

func (r *Reducer) rollDiceAction(gs *GameState, p *Player, _ Action) bool {
	if gs.Phase != StartPhase {
		return false
	}
	r.refreshPool(p)
	return true
}

func (r *Reducer) removeDie(gs *GameState, p *Player, a Action) bool {
	payload := a.Payload.(*RemoveDiePayload)
	if pendingDiceRemoval(gs, p.ID) == 0 || payload.DieIndex >= len(p.FreshDice) {
		return false
	}
	p.FreshDice = slices.Delete(p.FreshDice, payload.DieIndex, payload.DieIndex+1)
	syncDiceRemoval(gs, p)
	return true
}
