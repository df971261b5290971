package game

import (
	"golang.org/x/exp/slices"

	"deepregrets/catalog"
	"deepregrets/utils"
)

func (r *Reducer) sellFish(gs *GameState, p *Player, a Action) bool {
	i := p.handFishIndex(a.Payload.(*FishPayload).FishID)
	if p.Location != AtPort || i < 0 {
		return false
	}
	fish := p.HandFish[i]
	p.HandFish = utils.RemoveAt(p.HandFish, i)
	p.gainFishbucks(adjustedValue(fish, p.tier()), gs.Rules.FishbuckCap)
	discardFish(gs, fish)
	if fish.Quality == catalog.Foul {
		r.drawRegrets(gs, p, 1)
	}
	return true
}

func (r *Reducer) mountFish(gs *GameState, p *Player, a Action) bool {
	pl := a.Payload.(*MountFishPayload)
	i := p.handFishIndex(pl.FishID)
	if p.Location != AtPort || i < 0 || pl.Slot >= p.MaxMountSlots || p.slotTaken(pl.Slot) {
		return false
	}
	p.MountedFish = append(p.MountedFish, MountedFish{Slot: pl.Slot, Multiplier: pl.Slot + 1, Fish: p.HandFish[i]})
	p.HandFish = utils.RemoveAt(p.HandFish, i)
	slices.SortFunc(p.MountedFish, func(a, b MountedFish) int { return a.Slot - b.Slot })
	return true
}

// UpgradeCost is what the player would pay for an upgrade with list price
// cost, and which one-shot discount effects the purchase would consume.
func UpgradeCost(p *Player, rules Rules, cost int) (int, []EffectKind) {
	if p.tier().PortDiscount {
		cost -= rules.PortDiscount
	}
	var used []EffectKind
	for _, e := range p.ActiveEffects {
		switch e.Kind {
		case EffectLifePreserverDiscount, EffectDinkDiscount:
			if !slices.Contains(used, e.Kind) {
				cost -= e.Amount
				used = append(used, e.Kind)
			}
		}
	}
	return max(0, cost), used
}

func (r *Reducer) buyUpgrade(gs *GameState, p *Player, a Action) bool {
	pl := a.Payload.(*BuyUpgradePayload)
	if p.Location != AtPort {
		return false
	}
	var shop *Shop
	var visited *bool
	switch pl.Category {
	case catalog.Rod:
		shop, visited = &gs.Port.Rods, &p.ShopVisits.Rod
	case catalog.Reel:
		shop, visited = &gs.Port.Reels, &p.ShopVisits.Reel
	default:
		shop, visited = &gs.Port.Supplies, &p.ShopVisits.Supply
	}
	if *visited || utils.FindIndex(shop.Visible, pl.CardID) < 0 {
		return false
	}
	card, err := r.catalog.Upgrade(pl.CardID)
	if err != nil || card.Kind != pl.Category {
		r.logger.Warn().Err(err).Str("card", pl.CardID).Msg("Shop holds an unknown upgrade")
		return false
	}
	cost, used := UpgradeCost(p, gs.Rules, card.Cost)
	if p.Fishbucks < cost {
		return false
	}
	p.Fishbucks -= cost
	for _, kind := range used {
		p.consumeEffect(kind)
	}

	switch card.Kind {
	case catalog.Rod:
		p.EquippedRod = card.ID
	case catalog.Reel:
		p.EquippedReel = card.ID
	default:
		p.Supplies = append(p.Supplies, card.ID)
		p.MaxMountSlots += catalog.Total(card.Abilities, catalog.ExtraMountSlot)
	}
	for _, s := range []*Shop{&gs.Port.Rods, &gs.Port.Reels, &gs.Port.Supplies} {
		s.remove(card.ID)
		s.refill(gs.Rules.ShopVisible)
	}
	*visited = true
	r.recalcMadness(gs, p)
	return true
}

func (s *Shop) remove(id string) {
	if i := utils.FindIndex(s.Visible, id); i >= 0 {
		s.Visible = utils.RemoveAt(s.Visible, i)
	}
	if i := utils.FindIndex(s.Pool, id); i >= 0 {
		s.Pool = utils.RemoveAt(s.Pool, i)
	}
}

// buyTackleDice buys market dice in the given order. The port discount never
// applies; the life preserver discount applies to the first die only.
func (r *Reducer) buyTackleDice(gs *GameState, p *Player, a Action) bool {
	pl := a.Payload.(*BuyTackleDicePayload)
	if p.Location != AtPort || p.ShopVisits.Tackle || !validIndices(pl.MarketIndices, len(gs.Port.TackleMarket)) {
		return false
	}
	discount := 0
	for _, e := range p.ActiveEffects {
		if e.Kind == EffectLifePreserverDiscount {
			discount = e.Amount
			break
		}
	}
	bought := make([]string, 0, len(pl.MarketIndices))
	total := 0
	for n, i := range pl.MarketIndices {
		die, err := r.catalog.TackleDie(gs.Port.TackleMarket[i])
		if err != nil {
			r.logger.Warn().Err(err).Msg("Market holds an unknown tackle die")
			return false
		}
		cost := die.Cost
		if n == 0 {
			cost = max(0, cost-discount)
		}
		total += cost
		bought = append(bought, die.ID)
	}
	if p.Fishbucks < total {
		return false
	}
	p.Fishbucks -= total
	if discount > 0 {
		p.consumeEffect(EffectLifePreserverDiscount)
	}
	for _, id := range bought {
		i := utils.FindIndex(gs.Port.TackleMarket, id)
		gs.Port.TackleMarket = utils.RemoveAt(gs.Port.TackleMarket, i)
		p.TackleDice = append(p.TackleDice, id)
		refillMarket(gs)
	}
	p.ShopVisits.Tackle = true
	return true
}

// refillMarket draws from the tackle bag until the market is full or the bag is empty.
func refillMarket(gs *GameState) {
	for len(gs.Port.TackleMarket) < gs.Rules.TackleMarketSize && len(gs.Port.TackleBag) > 0 {
		gs.Port.TackleMarket = append(gs.Port.TackleMarket, gs.Port.TackleBag[0])
		gs.Port.TackleBag = utils.RemoveAt(gs.Port.TackleBag, 0)
	}
}

func (r *Reducer) cycleMarket(gs *GameState, p *Player, _ Action) bool {
	if p.Location != AtPort || p.ShopVisits.Tackle || p.Fishbucks < gs.Rules.CycleMarketCost {
		return false
	}
	p.Fishbucks -= gs.Rules.CycleMarketCost
	gs.Port.TackleBag = append(gs.Port.TackleBag, gs.Port.TackleMarket...)
	gs.Port.TackleMarket = []string{}
	shuffle(r.rng, gs.Port.TackleBag)
	refillMarket(gs)
	return true
}

func (r *Reducer) drawDinkAction(gs *GameState, p *Player, _ Action) bool {
	if p.Location != AtPort {
		return false
	}
	return r.drawDink(gs, p)
}

// drawDink gives the player the top dink card, reshuffling the discard pile
// into an empty deck. It reports false when no card is left anywhere.
func (r *Reducer) drawDink(gs *GameState, p *Player) bool {
	if len(gs.Port.DinkDeck) == 0 && len(gs.Port.DinkDiscard) > 0 {
		gs.Port.DinkDeck = gs.Port.DinkDiscard
		gs.Port.DinkDiscard = []string{}
		shuffle(r.rng, gs.Port.DinkDeck)
	}
	if len(gs.Port.DinkDeck) == 0 {
		return false
	}
	p.Dinks = append(p.Dinks, gs.Port.DinkDeck[0])
	gs.Port.DinkDeck = utils.RemoveAt(gs.Port.DinkDeck, 0)
	return true
}
