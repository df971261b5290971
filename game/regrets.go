package game

import (
	"golang.org/x/exp/slices"

	"deepregrets/catalog"
)

// recalcMadness derives madness level and dice cap from the regret count, the
// madness offset and equipment. gs may be nil while a player is being built.
func (r *Reducer) recalcMadness(gs *GameState, p *Player) {
	p.MadnessLevel = clamp(TierIndex(len(p.Regrets))+p.MadnessOffset, 0, MaxMadnessLevel)
	p.MaxDice = TierAt(p.MadnessLevel).MaxDice + p.BaseMaxDice + catalog.Total(r.equipment(p), catalog.ExtraDie)
	syncDiceRemoval(gs, p)
}

// drawRegrets is one regret-draw trigger for n cards. Shields absorb cards
// first, then a reduce_regret_draw item absorbs one card per trigger.
func (r *Reducer) drawRegrets(gs *GameState, p *Player, n int) {
	reduced := false
	canReduce := catalog.Has(r.equipment(p), catalog.ReduceRegretDraw)
	for i := 0; i < n; i++ {
		if p.RegretShields > 0 {
			p.RegretShields--
			continue
		}
		if canReduce && !reduced {
			reduced = true
			continue
		}
		r.drawRegret(gs, p)
	}
	r.recalcMadness(gs, p)
}

func (r *Reducer) drawRegret(gs *GameState, p *Player) {
	if len(gs.Port.RegretDeck) == 0 && len(gs.Port.RegretDiscard) > 0 {
		gs.Port.RegretDeck = gs.Port.RegretDiscard
		gs.Port.RegretDiscard = []catalog.RegretCard{}
		shuffle(r.rng, gs.Port.RegretDeck)
	}
	if len(gs.Port.RegretDeck) > 0 {
		p.Regrets = append(p.Regrets, gs.Port.RegretDeck[0])
		gs.Port.RegretDeck = slices.Delete(gs.Port.RegretDeck, 0, 1)
		return
	}
	r.stealRegret(gs, p)
}

// stealRegret moves a random regret from the other player holding the most,
// earliest seat first on ties.
func (r *Reducer) stealRegret(gs *GameState, p *Player) {
	var victim *Player
	for i := range gs.Players {
		o := &gs.Players[i]
		if o.ID == p.ID || len(o.Regrets) == 0 {
			continue
		}
		if victim == nil || len(o.Regrets) > len(victim.Regrets) {
			victim = o
		}
	}
	if victim == nil {
		return
	}
	i := r.rng.Intn(len(victim.Regrets))
	p.Regrets = append(p.Regrets, victim.Regrets[i])
	victim.Regrets = slices.Delete(victim.Regrets, i, i+1)
	r.recalcMadness(gs, victim)
}

func (r *Reducer) discardRegretAt(gs *GameState, p *Player, i int) {
	gs.Port.RegretDiscard = append(gs.Port.RegretDiscard, p.Regrets[i])
	p.Regrets = slices.Delete(p.Regrets, i, i+1)
	r.recalcMadness(gs, p)
}

func (r *Reducer) discardRandom(gs *GameState, p *Player) bool {
	if len(p.Regrets) == 0 {
		return false
	}
	r.discardRegretAt(gs, p, r.rng.Intn(len(p.Regrets)))
	return true
}

// adjustMadness shifts the madness offset. Increases are absorbed, in order,
// by immunity, a prevent-madness effect, or a regret shield.
func (r *Reducer) adjustMadness(gs *GameState, p *Player, n int) {
	if n > 0 {
		switch {
		case catalog.Has(r.equipment(p), catalog.MadnessImmunity):
			return
		case p.HasEffect(EffectPreventMadness):
			p.consumeEffect(EffectPreventMadness)
			return
		case p.RegretShields > 0:
			p.RegretShields--
			return
		}
	}
	p.MadnessOffset += n
	r.recalcMadness(gs, p)
}

func (r *Reducer) discardRegret(gs *GameState, p *Player, a Action) bool {
	i := a.Payload.(*DiscardRegretPayload).RegretIndex
	if p.Location != AtPort || p.ShopVisits.Regret || i >= len(p.Regrets) {
		return false
	}
	r.discardRegretAt(gs, p, i)
	p.ShopVisits.Regret = true
	return true
}

func (r *Reducer) discardRandomRegret(gs *GameState, p *Player, _ Action) bool {
	if !p.HasEffect(EffectDiscardRandomRegret) || len(p.Regrets) == 0 {
		return false
	}
	p.consumeEffect(EffectDiscardRandomRegret)
	return r.discardRandom(gs, p)
}
