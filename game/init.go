package game

import (
	"fmt"

	"github.com/google/uuid"

	"deepregrets/catalog"
)

// initGame builds a fresh state. An invalid setup leaves prev in place.
func (r *Reducer) initGame(prev *GameState, a Action) *GameState {
	if err := a.Validate(); err != nil {
		r.logger.Warn().Err(err).Msg("Ignoring malformed INIT_GAME")
		return prev
	}
	payload := a.Payload.(*InitGamePayload)
	rules := NewStandardRules()
	if payload.Rules != nil {
		rules = payload.Rules.withDefaults()
	}
	gs, err := r.newGame(payload.Players, rules)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Ignoring INIT_GAME")
		return prev
	}
	r.logger.Info().Str("game", gs.GameID).Int("players", len(gs.Players)).Msg("Game initialized")
	return gs
}

// resetGame starts a new game with the same seats and rules.
func (r *Reducer) resetGame(gs *GameState) *GameState {
	setups := make([]PlayerSetup, len(gs.Players))
	for i, p := range gs.Players {
		setups[i] = PlayerSetup{ID: p.ID, Name: p.Name, Character: p.Character}
	}
	next, err := r.newGame(setups, gs.Rules)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Ignoring RESET_GAME")
		return gs
	}
	r.logger.Info().Str("game", next.GameID).Msg("Game reset")
	return next
}

func (r *Reducer) newGame(setups []PlayerSetup, rules Rules) (*GameState, error) {
	id, err := uuid.NewRandomFromReader(r.rng)
	if err != nil {
		return nil, fmt.Errorf("game id: %w", err)
	}
	gs := &GameState{
		GameID:                id.String(),
		Rules:                 rules,
		Phase:                 StartPhase,
		Day:                   Monday,
		PendingDiceRemoval:    []DiceRemoval{},
		PendingSkippedRewards: []string{},
		FinalScores:           []ScoreBreakdown{},
	}
	r.dealSea(gs)
	r.stockPort(gs)

	for i, s := range setups {
		p, err := r.newPlayer(i, s, rules)
		if err != nil {
			return nil, err
		}
		gs.Players = append(gs.Players, p)
	}
	return gs, nil
}

func (r *Reducer) dealSea(gs *GameState) {
	depths := 0
	for _, f := range r.catalog.Fish {
		depths = max(depths, f.Depth)
	}
	n := gs.Rules.ShoalsPerDepth
	gs.Sea.Shoals = make([][][]catalog.FishCard, depths)
	gs.Sea.Graveyards = make([][]catalog.FishCard, depths)
	gs.Sea.Revealed = map[string]bool{}
	for d := 1; d <= depths; d++ {
		var deck []catalog.FishCard
		for _, f := range r.catalog.Fish {
			if f.Depth == d {
				deck = append(deck, f)
			}
		}
		shuffle(r.rng, deck)
		shoals := make([][]catalog.FishCard, n)
		for i := range shoals {
			shoals[i] = []catalog.FishCard{}
		}
		for i, f := range deck {
			shoals[i%n] = append(shoals[i%n], f)
		}
		gs.Sea.Shoals[d-1] = shoals
		gs.Sea.Graveyards[d-1] = []catalog.FishCard{}
	}
}

func (r *Reducer) stockPort(gs *GameState) {
	visible := gs.Rules.ShopVisible
	gs.Port.Rods = r.newShop(catalog.Rod, visible)
	gs.Port.Reels = r.newShop(catalog.Reel, visible)
	gs.Port.Supplies = r.newShop(catalog.Supply, visible)

	for _, d := range r.catalog.TackleDice {
		gs.Port.TackleBag = append(gs.Port.TackleBag, d.ID)
	}
	shuffle(r.rng, gs.Port.TackleBag)
	gs.Port.TackleMarket = []string{}
	refillMarket(gs)

	for _, d := range r.catalog.Dinks {
		gs.Port.DinkDeck = append(gs.Port.DinkDeck, d.ID)
	}
	shuffle(r.rng, gs.Port.DinkDeck)
	gs.Port.DinkDiscard = []string{}

	gs.Port.RegretDeck = append([]catalog.RegretCard{}, r.catalog.Regrets...)
	shuffle(r.rng, gs.Port.RegretDeck)
	gs.Port.RegretDiscard = []catalog.RegretCard{}
}

func (r *Reducer) newShop(kind catalog.UpgradeKind, visible int) Shop {
	pool := r.catalog.UpgradeIDs(kind)
	shuffle(r.rng, pool)
	s := Shop{Pool: pool, Visible: []string{}}
	s.refill(visible)
	return s
}

// refill tops up the visible row from the pool. Visible cards stay in the pool
// until bought, so the pool is scanned for the first cards not yet shown.
func (s *Shop) refill(visible int) {
	for _, id := range s.Pool {
		if len(s.Visible) >= visible {
			return
		}
		shown := false
		for _, v := range s.Visible {
			if v == id {
				shown = true
				break
			}
		}
		if !shown {
			s.Visible = append(s.Visible, id)
		}
	}
}

func (r *Reducer) newPlayer(seat int, s PlayerSetup, rules Rules) (Player, error) {
	id := s.ID
	if id == "" {
		id = fmt.Sprintf("player-%d", seat+1)
	}
	p := Player{
		ID:               id,
		Name:             s.Name,
		Character:        s.Character,
		Location:         AtPort,
		CurrentDepth:     1,
		CurrentShoal:     NoShoal,
		FreshDice:        []int{},
		SpentDice:        []int{},
		TackleDice:       []string{},
		HandFish:         []catalog.FishCard{},
		MountedFish:      []MountedFish{},
		Regrets:          []catalog.RegretCard{},
		Supplies:         []string{},
		Dinks:            []string{},
		ExhaustedDinks:   []string{},
		ActiveEffects:    []Effect{},
		MaxMountSlots:    rules.MountSlots,
		CanOfWormsFaceUp: true,
	}
	if s.Character != "" {
		ch, err := r.catalog.Character(s.Character)
		if err != nil {
			return Player{}, fmt.Errorf("player %s: %w", s.Name, err)
		}
		p.BaseMaxDice = ch.BaseMaxDice
		p.RerollOnes = ch.RerollOnes
		p.Fishbucks = min(ch.StartingFishbucks, rules.FishbuckCap)
		p.RegretShields = ch.RegretShields
		p.DescendDiscount = ch.DescendDiscount
		p.MaxMountSlots += ch.ExtraMountSlots
	}
	r.recalcMadness(nil, &p)
	p.FreshDice = r.rollPool(&p, p.MaxDice)
	return p, nil
}
