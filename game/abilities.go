package game

import (
	"deepregrets/catalog"
)

// resolveCatch applies a caught fish's abilities: card effects in printed
// order, then equipped dink-on-catch, then madness shifts. A plug catch
// forces a pass once everything else has resolved.
func (r *Reducer) resolveCatch(gs *GameState, p *Player, fish catalog.FishCard, equipment []catalog.Ability) {
	forcePass := false
	for _, ab := range fish.Abilities {
		switch ab.Kind {
		case catalog.RegretDraw:
			r.drawRegrets(gs, p, max(ab.N, 1))
		case catalog.DinkOnCatch:
			r.drawDink(gs, p)
		case catalog.DiscardTagged:
			if ab.Tag == string(catalog.Small) && catalog.Has(equipment, catalog.NegateDiscardSmall) {
				continue
			}
			discardTaggedFish(gs, p, fish.ID, ab.Tag)
		case catalog.PlugErosion:
			gs.Sea.Plug = Plug{Eroded: true, ErodedBy: p.ID}
			forcePass = true
		}
	}
	if catalog.Has(equipment, catalog.DinkOnCatch) {
		r.drawDink(gs, p)
	}
	for _, ab := range fish.Abilities {
		if ab.Kind == catalog.MadnessAdjust {
			r.adjustMadness(gs, p, ab.N)
		}
	}
	if forcePass && !p.HasPassed {
		r.logger.Info().Str("player", p.ID).Msg("The plug gives way")
		r.passPlayer(gs, p)
	}
}

// discardTaggedFish discards the first other hand fish carrying tag.
func discardTaggedFish(gs *GameState, p *Player, caughtID, tag string) {
	for i, f := range p.HandFish {
		if f.ID != caughtID && f.HasTag(tag) {
			p.HandFish = append(p.HandFish[:i:i], p.HandFish[i+1:]...)
			discardFish(gs, f)
			return
		}
	}
}
