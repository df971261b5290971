package game

import (
	"deepregrets/catalog"
	"deepregrets/utils"
)

func (r *Reducer) playDink(gs *GameState, p *Player, a Action) bool {
	id := a.Payload.(*DinkPayload).DinkID
	i := utils.FindIndex(p.Dinks, id)
	if i < 0 {
		return false
	}
	card, err := r.catalog.Dink(id)
	if err != nil {
		r.logger.Warn().Err(err).Str("player", p.ID).Msg("Unknown dink")
		return false
	}
	switch card.Timing {
	case catalog.AtSea:
		if p.Location != AtSea {
			return false
		}
	case catalog.AtPort:
		if p.Location != AtPort {
			return false
		}
	}

	for _, e := range card.Effects {
		switch e.Kind {
		case catalog.RerollFresh:
			p.FreshDice = r.rollPool(p, len(p.FreshDice))
		case catalog.GainFishbucks:
			p.gainFishbucks(e.N, gs.Rules.FishbuckCap)
		case catalog.ShopDiscount:
			p.ActiveEffects = append(p.ActiveEffects, Effect{Kind: EffectDinkDiscount, Amount: e.N})
		case catalog.RegretShield:
			p.RegretShields += max(e.N, 1)
		case catalog.DifficultyMinus:
			p.ActiveEffects = append(p.ActiveEffects, Effect{Kind: EffectDifficultyReduction, Amount: e.N})
		case catalog.DiscardRandomRegret:
			p.ActiveEffects = append(p.ActiveEffects, Effect{Kind: EffectDiscardRandomRegret})
		case catalog.PreventMadness:
			p.ActiveEffects = append(p.ActiveEffects, Effect{Kind: EffectPreventMadness})
		case catalog.ExtraDie:
			r.addFreshDie(gs, p)
		default:
			r.logger.Warn().Str("dink", id).Stringer("effect", e).Msg("Dink effect has no play rule")
		}
	}

	p.Dinks = utils.RemoveAt(p.Dinks, i)
	if card.OneShot {
		gs.Port.DinkDiscard = append(gs.Port.DinkDiscard, id)
	} else {
		p.ExhaustedDinks = append(p.ExhaustedDinks, id)
	}
	return true
}

func (r *Reducer) eatFish(gs *GameState, p *Player, a Action) bool {
	i := p.handFishIndex(a.Payload.(*FishPayload).FishID)
	if i < 0 {
		return false
	}
	fish := p.HandFish[i]
	if !Edible(fish) {
		return false
	}
	p.HandFish = utils.RemoveAt(p.HandFish, i)
	discardFish(gs, fish)
	for _, ab := range fish.Abilities {
		switch ab.Kind {
		case catalog.EatDiscardRegret:
			r.discardRandom(gs, p)
		case catalog.EatGainDie:
			r.addFreshDie(gs, p)
		case catalog.EatFishbucks:
			p.gainFishbucks(ab.N, gs.Rules.FishbuckCap)
		}
	}
	return true
}

// Edible reports whether the fish has any eat ability.
func Edible(fish catalog.FishCard) bool {
	return catalog.Has(fish.Abilities, catalog.EatDiscardRegret) ||
		catalog.Has(fish.Abilities, catalog.EatGainDie) ||
		catalog.Has(fish.Abilities, catalog.EatFishbucks)
}
