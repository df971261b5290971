package agent

import (
	"cmp"
	"math"
	"math/bits"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"deepregrets/catalog"
	"deepregrets/game"
	"deepregrets/utils"
)

const (
	passScore        = 0.5
	defaultLookahead = 4

	// easyBlunderPercent is how often an easy agent plays a random candidate.
	easyBlunderPercent = 30
	// lookaheadWeight scales the evaluation delta of a simulated candidate.
	lookaheadWeight = 10.0
)

type candidate struct {
	action game.Action
	score  float64
	reason string
}

type Option func(h *Heuristic)

func WithCatalog(c *catalog.Catalog) Option {
	return func(h *Heuristic) {
		if c != nil {
			h.catalog = c
		}
	}
}

// WithLookahead simulates every candidate on a copy of the state with the
// given number of goroutines. Zero turns it off.
func WithLookahead(goroutines int) Option {
	return func(h *Heuristic) {
		if goroutines >= 0 {
			h.lookahead = goroutines
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(h *Heuristic) { h.logger = l }
}

// Heuristic scores a short list of sensible actions and plays the best one.
type Heuristic struct {
	difficulty Difficulty
	strategy   Strategy
	rng        game.Random
	catalog    *catalog.Catalog
	lookahead  int
	logger     zerolog.Logger
}

// NewHeuristic returns a rule-based agent. Hard agents look one action ahead
// unless WithLookahead says otherwise.
func NewHeuristic(difficulty Difficulty, strategy Strategy, rng game.Random, options ...Option) *Heuristic {
	h := &Heuristic{
		difficulty: difficulty,
		strategy:   strategy,
		rng:        rng,
		catalog:    catalog.Default(),
		logger:     log.Logger,
	}
	if difficulty == Hard {
		h.lookahead = defaultLookahead
	}
	for _, option := range options {
		option(h)
	}
	if h.rng == nil {
		h.rng = game.NewRandom(uint64(time.Now().UnixNano()))
	}
	return h
}

func (h *Heuristic) FindMove(gs *game.GameState, playerID string) Decision {
	p, ok := gs.Player(playerID)
	if !ok || gs.IsGameOver {
		return Decision{Action: act(game.Pass, playerID, nil), Reasoning: "Not playing"}
	}
	if d, ok := h.obligation(gs, p); ok {
		return d
	}

	var cands []candidate
	switch gs.Phase {
	case game.StartPhase, game.RefreshPhase:
		return Decision{Action: act(game.NextPhase, game.SystemPlayer, nil), Confidence: 1, Reasoning: "Waiting for the day to start"}
	case game.DeclarationPhase:
		if gs.CurrentPlayer().ID != p.ID || p.HasPassed {
			return Decision{Action: act(game.Pass, p.ID, nil), Reasoning: "Not this player's turn"}
		}
		cands = h.declaration(gs, p)
	case game.ActionPhase:
		if gs.CurrentPlayer().ID != p.ID || p.HasPassed {
			return Decision{Action: act(game.Pass, p.ID, nil), Reasoning: "Not this player's turn"}
		}
		if p.Location == game.AtSea {
			cands = h.atSea(gs, p)
		} else {
			cands = h.atPort(gs, p)
		}
		cands = append(cands, h.anywhere(gs, p)...)
		cands = append(cands, candidate{act(game.Pass, p.ID, nil), passScore, "Nothing better to do"})
	default:
		return Decision{Action: act(game.Pass, p.ID, nil), Reasoning: "Game is over"}
	}
	return h.choose(gs, p, cands)
}

func (h *Heuristic) choose(gs *game.GameState, p *game.Player, cands []candidate) Decision {
	if h.lookahead > 0 && len(cands) > 1 {
		cands = h.lookAhead(gs, p.ID, cands)
	}
	slices.SortStableFunc(cands, func(a, b candidate) int { return cmp.Compare(b.score, a.score) })

	pick := cands[0]
	if h.difficulty == Easy && len(cands) > 1 && h.rng.Intn(100) < easyBlunderPercent {
		pick = cands[h.rng.Intn(len(cands))]
		pick.reason = "Hunch: " + pick.reason
	}
	h.logger.Debug().Str("player", p.ID).Stringer("action", pick.action.Type).Float64("score", pick.score).Msg(pick.reason)
	return Decision{Action: pick.action, Confidence: confidence(pick.score), Reasoning: pick.reason}
}

// lookAhead dispatches each candidate against its own reducer and adds how
// much the resulting position improves. Candidates the reducer rejects are dropped.
func (h *Heuristic) lookAhead(gs *game.GameState, playerID string, cands []candidate) []candidate {
	base := Evaluate(gs, playerID)
	seeds := make([]uint64, h.lookahead)
	for i := range seeds {
		seeds[i] = uint64(h.rng.Intn(math.MaxInt32))
	}

	task := make(chan int, len(cands))
	for i := range cands {
		task <- i
	}
	close(task)

	scored := make([]candidate, len(cands))
	applied := make([]bool, len(cands))
	var wg sync.WaitGroup
	for _, seed := range seeds {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			r := game.NewReducer(game.WithCatalog(h.catalog), game.WithRandom(game.NewRandom(seed)), game.WithLogger(zerolog.Nop()))
			for i := range task {
				next, err := r.Dispatch(gs, cands[i].action)
				if err != nil || next == gs {
					continue
				}
				c := cands[i]
				c.score += lookaheadWeight * (Evaluate(next, playerID) - base)
				scored[i], applied[i] = c, true
			}
		}(seed)
	}
	wg.Wait()

	var out []candidate
	for i, c := range scored {
		if applied[i] {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return cands
	}
	return out
}

// obligation resolves anything the player owes before the game can move on.
func (h *Heuristic) obligation(gs *game.GameState, p *game.Player) (Decision, bool) {
	for _, d := range gs.PendingDiceRemoval {
		if d.PlayerID == p.ID && d.Count > 0 && len(p.FreshDice) > 0 {
			lowest := 0
			for i, v := range p.FreshDice {
				if v < p.FreshDice[lowest] {
					lowest = i
				}
			}
			return Decision{
				Action:     act(game.RemoveDie, p.ID, &game.RemoveDiePayload{DieIndex: lowest}),
				Confidence: 1,
				Reasoning:  "Over the dice cap, dropping the lowest die",
			}, true
		}
	}

	if gs.PendingLifePreserverGift == p.ID {
		target, weakest := "", math.Inf(1)
		for i := range gs.Players {
			o := &gs.Players[i]
			if o.ID == p.ID {
				continue
			}
			if v := position(o, gs.Rules); v < weakest {
				target, weakest = o.ID, v
			}
		}
		if target != "" {
			return Decision{
				Action:     act(game.GiveLifePreserver, p.ID, &game.GiveLifePreserverPayload{TargetPlayerID: target}),
				Confidence: 1,
				Reasoning:  "Giving the life preserver to the trailing player",
			}, true
		}
	}

	owed := gs.PendingPassingReward == p.ID ||
		(len(gs.PendingSkippedRewards) > 0 && gs.PendingSkippedRewards[0] == p.ID)
	if owed {
		choice, reason := game.RewardDink, "Taking a dink as passing reward"
		if len(p.Regrets) > 0 && h.strategy != Aggressive {
			choice, reason = game.RewardDiscardRegret, "Shedding a regret as passing reward"
		}
		return Decision{
			Action:     act(game.ClaimPassingReward, p.ID, &game.ClaimPassingRewardPayload{Choice: choice}),
			Confidence: 1,
			Reasoning:  reason,
		}, true
	}
	return Decision{}, false
}

func (h *Heuristic) declaration(gs *game.GameState, p *game.Player) []candidate {
	sea := float64(utils.Sum(p.FreshDice)) / 2
	port := float64(len(p.Regrets))/2 + float64(p.Fishbucks)/3
	for _, f := range p.HandFish {
		port += 0.5 * float64(game.FishValue(p, f))
	}
	switch h.strategy {
	case Aggressive:
		sea *= 1.3
	case Cautious:
		port *= 1.3
	}
	return []candidate{
		{act(game.DeclareLocation, p.ID, &game.DeclareLocationPayload{Location: game.AtSea}), sea, "Heading out to sea"},
		{act(game.DeclareLocation, p.ID, &game.DeclareLocationPayload{Location: game.AtPort}), port, "Heading to port"},
	}
}

func (h *Heuristic) atSea(gs *game.GameState, p *game.Player) []candidate {
	equipment, _ := game.Equipment(h.catalog, p)
	depth := p.CurrentDepth
	var cands []candidate
	for s := range gs.Sea.Shoals[depth-1] {
		fish, ok := gs.TopFish(depth, s)
		if !ok {
			continue
		}
		if !gs.IsRevealed(depth, s) {
			if len(p.FreshDice) > 0 {
				cands = append(cands, candidate{
					act(game.RevealFish, p.ID, &game.ShoalPayload{Depth: depth, Shoal: s}),
					3 - 0.1*float64(s),
					"Revealing an unseen shoal",
				})
			}
			continue
		}
		cands = append(cands, h.catchOptions(gs, p, s, fish, equipment)...)
	}

	if depth < len(gs.Sea.Shoals) && h.hasFishAt(gs, depth+1) {
		threshold := game.DescendThreshold(p, gs.Rules, equipment)
		qualifying := 0
		for _, d := range p.FreshDice {
			if d >= threshold {
				qualifying++
			}
		}
		if qualifying > 0 {
			score := 2.0 + 0.5*float64(depth)
			switch h.strategy {
			case Aggressive:
				score += 1.5
			case Cautious:
				score -= 1
			}
			cands = append(cands, candidate{
				act(game.Descend, p.ID, &game.DescendPayload{TargetDepth: depth + 1}),
				score,
				"Diving deeper for bigger fish",
			})
		}
	}

	if h.strategy == Cautious && p.MadnessLevel >= game.MaxMadnessLevel-1 && !p.LifeboatFlipped {
		cands = append(cands, candidate{act(game.AbandonShip, p.ID, nil), 1.5, "Madness is too high, abandoning ship"})
	}
	return cands
}

// catchOptions proposes ways to land the revealed top fish of shoal s.
func (h *Heuristic) catchOptions(gs *game.GameState, p *game.Player, s int, fish catalog.FishCard, equipment []catalog.Ability) []candidate {
	depth := p.CurrentDepth
	difficulty, auto := game.CatchDifficulty(gs, p, fish, equipment)
	need := difficulty - game.CatchBonus(fish, equipment)
	worth := h.catchWorth(p, fish)
	catch := func(dice, tackle []int) game.Action {
		return act(game.CatchFish, p.ID, &game.CatchFishPayload{
			Depth: depth, Shoal: s, FishID: fish.ID, DiceIndices: dice, TackleDiceIndices: tackle,
		})
	}

	if auto {
		return []candidate{{catch(nil, nil), worth + 2, "Landing " + fish.Name + " without a roll"}}
	}
	if dice, ok := smallestSubset(p.FreshDice, need, fish.MinDice); ok {
		return []candidate{{catch(dice, nil), worth + 2 - 0.3*float64(len(dice)), "Catching " + fish.Name}}
	}

	var cands []candidate
	if len(p.TackleDice) > 0 {
		expected := float64(utils.Sum(p.FreshDice))
		for _, id := range p.TackleDice {
			if die, err := h.catalog.TackleDie(id); err == nil {
				expected += mean(die.Faces)
			}
		}
		if expected >= float64(need) && len(p.FreshDice)+len(p.TackleDice) >= fish.MinDice {
			cands = append(cands, candidate{
				catch(indices(len(p.FreshDice)), indices(len(p.TackleDice))),
				worth - 0.3*float64(len(p.FreshDice)+len(p.TackleDice)),
				"Gambling tackle dice on " + fish.Name,
			})
		}
	}
	if gs.LifePreserverOwner == p.ID && !fish.IsRelentless() {
		if _, ok := smallestSubset(p.FreshDice, need-gs.Rules.LifePreserverReduction, fish.MinDice); ok {
			cands = append(cands, candidate{
				act(game.UseLifePreserver, p.ID, &game.UseLifePreserverPayload{UseType: game.UseAtSea}),
				worth / 2,
				"Using the life preserver to reach " + fish.Name,
			})
		}
	}
	if p.CanOfWormsFaceUp && len(gs.Sea.Shoals[depth-1][s]) > 1 {
		cands = append(cands, candidate{
			act(game.UseCanOfWorms, p.ID, &game.ShoalPayload{Depth: depth, Shoal: s}),
			1,
			"Sending " + fish.Name + " to the bottom",
		})
	}
	return cands
}

// catchWorth is the value of holding the fish, less what its abilities cost.
func (h *Heuristic) catchWorth(p *game.Player, fish catalog.FishCard) float64 {
	worth := float64(game.FishValue(p, fish))
	regretCost := 1.5
	if h.strategy == Cautious {
		regretCost = 3
	}
	for _, a := range fish.Abilities {
		switch a.Kind {
		case catalog.RegretDraw:
			worth -= regretCost * float64(max(a.N, 1))
		case catalog.DiscardTagged:
			for _, f := range p.HandFish {
				if f.HasTag(a.Tag) {
					worth -= float64(game.FishValue(p, f))
				}
			}
		case catalog.PlugErosion:
			worth--
		case catalog.DinkOnCatch:
			worth++
		}
	}
	if fish.Quality == catalog.Foul {
		worth -= regretCost / 2
	}
	return worth
}

func (h *Heuristic) atPort(gs *game.GameState, p *game.Player) []candidate {
	var cands []candidate

	free := -1
	for slot := p.MaxMountSlots - 1; slot >= 0; slot-- {
		if !slices.ContainsFunc(p.MountedFish, func(m game.MountedFish) bool { return m.Slot == slot }) {
			free = slot
			break
		}
	}
	for _, f := range p.HandFish {
		value := float64(game.FishValue(p, f))
		if free >= 0 {
			cands = append(cands, candidate{
				act(game.MountFish, p.ID, &game.MountFishPayload{FishID: f.ID, Slot: free}),
				1 + 0.1*value + 0.8*value*float64(free),
				"Mounting " + f.Name,
			})
		}
		sell := 0.5 + 0.3*value
		if f.Quality == catalog.Foul {
			sell -= 2
		}
		if p.Fishbucks+int(value) > gs.Rules.FishbuckCap {
			sell -= 1
		}
		if sell > 0 {
			cands = append(cands, candidate{act(game.SellFish, p.ID, &game.FishPayload{FishID: f.ID}), sell, "Selling " + f.Name})
		}
	}

	cands = append(cands, h.upgrades(gs, p)...)

	if !p.ShopVisits.Tackle {
		for i, id := range gs.Port.TackleMarket {
			die, err := h.catalog.TackleDie(id)
			if err != nil || die.Cost > p.Fishbucks-2 {
				continue
			}
			cands = append(cands, candidate{
				act(game.BuyTackleDice, p.ID, &game.BuyTackleDicePayload{MarketIndices: []int{i}}),
				1.5 + 0.2*mean(die.Faces) - 0.2*float64(die.Cost),
				"Buying a " + die.Color + " tackle die",
			})
		}
	}

	if len(p.Regrets) > 0 && !p.ShopVisits.Regret {
		worst := 0
		for i, r := range p.Regrets {
			if r.Value > p.Regrets[worst].Value {
				worst = i
			}
		}
		score := 1.5
		switch h.strategy {
		case Aggressive:
			score -= 1
		case Cautious:
			score += 1.5
		}
		cands = append(cands, candidate{
			act(game.DiscardRegret, p.ID, &game.DiscardRegretPayload{RegretIndex: worst}),
			score,
			"Discarding the heaviest regret",
		})
	}

	if len(p.Dinks) == 0 && len(gs.Port.DinkDeck)+len(gs.Port.DinkDiscard) > 0 {
		cands = append(cands, candidate{act(game.DrawDink, p.ID, nil), 0.8, "Drawing a dink"})
	}
	return cands
}

// upgrades proposes the best affordable card in every shop not visited this turn.
func (h *Heuristic) upgrades(gs *game.GameState, p *game.Player) []candidate {
	shops := []struct {
		kind     catalog.UpgradeKind
		shop     game.Shop
		visited  bool
		equipped string
	}{
		{catalog.Rod, gs.Port.Rods, p.ShopVisits.Rod, p.EquippedRod},
		{catalog.Reel, gs.Port.Reels, p.ShopVisits.Reel, p.EquippedReel},
		{catalog.Supply, gs.Port.Supplies, p.ShopVisits.Supply, ""},
	}
	var cands []candidate
	for _, s := range shops {
		if s.visited {
			continue
		}
		floor := -1
		if s.equipped != "" {
			if cur, err := h.catalog.Upgrade(s.equipped); err == nil {
				floor = cur.Cost
			}
		}
		var best *candidate
		for _, id := range s.shop.Visible {
			card, err := h.catalog.Upgrade(id)
			if err != nil || card.Cost <= floor {
				continue
			}
			cost, _ := game.UpgradeCost(p, gs.Rules, card.Cost)
			if cost > p.Fishbucks {
				continue
			}
			score := 2 + 0.5*float64(card.Cost) - 0.3*float64(cost)
			if best == nil || score > best.score {
				best = &candidate{
					act(game.BuyUpgrade, p.ID, &game.BuyUpgradePayload{Category: s.kind, CardID: card.ID}),
					score,
					"Buying " + card.Name,
				}
			}
		}
		if best != nil {
			cands = append(cands, *best)
		}
	}
	if len(cands) > 0 && gs.LifePreserverOwner == p.ID {
		cands = append(cands, candidate{
			act(game.UseLifePreserver, p.ID, &game.UseLifePreserverPayload{UseType: game.UseAtPort}),
			1,
			"Trading the life preserver for a discount",
		})
	}
	return cands
}

// anywhere proposes dinks, eating fish and spending discard effects.
func (h *Heuristic) anywhere(gs *game.GameState, p *game.Player) []candidate {
	var cands []candidate
	for _, id := range p.Dinks {
		card, err := h.catalog.Dink(id)
		if err != nil || !playable(card.Timing, p.Location) {
			continue
		}
		if score := h.dinkWorth(p, card, gs.Rules.FishbuckCap); score > passScore {
			cands = append(cands, candidate{act(game.PlayDink, p.ID, &game.DinkPayload{DinkID: id}), score, "Playing " + card.Name})
		}
	}

	for _, f := range p.HandFish {
		if !game.Edible(f) {
			continue
		}
		score := -float64(game.FishValue(p, f))
		for _, a := range f.Abilities {
			switch a.Kind {
			case catalog.EatFishbucks:
				score += float64(a.N)
			case catalog.EatDiscardRegret:
				if len(p.Regrets) > 0 {
					score += 2
				}
			case catalog.EatGainDie:
				if len(p.FreshDice) < p.MaxDice {
					score += 1.5
				}
			}
		}
		if score > passScore {
			cands = append(cands, candidate{act(game.EatFish, p.ID, &game.FishPayload{FishID: f.ID}), score, "Eating " + f.Name})
		}
	}

	if p.HasEffect(game.EffectDiscardRandomRegret) && len(p.Regrets) > 0 {
		cands = append(cands, candidate{act(game.DiscardRandomRegret, p.ID, nil), 3, "Using up a discard effect"})
	}
	return cands
}

func (h *Heuristic) dinkWorth(p *game.Player, card catalog.DinkCard, cap int) float64 {
	score := 0.0
	for _, e := range card.Effects {
		switch e.Kind {
		case catalog.GainFishbucks:
			score += 0.8 * float64(min(e.N, cap-p.Fishbucks))
		case catalog.RegretShield:
			if p.RegretShields == 0 {
				score += 1.5
			}
		case catalog.ExtraDie:
			if len(p.FreshDice) < p.MaxDice {
				score += 2
			}
		case catalog.RerollFresh:
			if len(p.FreshDice) > 0 && mean(p.FreshDice) < 3 {
				score += 1
			}
		case catalog.DiscardRandomRegret:
			if len(p.Regrets) > 0 {
				score += 1
			}
		case catalog.DifficultyMinus:
			if p.Location == game.AtSea && len(p.FreshDice) > 0 {
				score += 0.5 * float64(e.N)
			}
		case catalog.ShopDiscount:
			if p.Location == game.AtPort && p.Fishbucks > 0 && !p.HasEffect(game.EffectDinkDiscount) {
				score += 0.5 * float64(e.N)
			}
		case catalog.PreventMadness:
			if !p.HasEffect(game.EffectPreventMadness) {
				score += 0.5
			}
		}
	}
	if !card.OneShot {
		score += 0.2
	}
	return score
}

func (h *Heuristic) hasFishAt(gs *game.GameState, depth int) bool {
	for s := range gs.Sea.Shoals[depth-1] {
		if _, ok := gs.TopFish(depth, s); ok {
			return true
		}
	}
	return false
}

// smallestSubset picks the fewest dice, then the lowest total, reaching need
// with at least minDice dice. Indices come back ascending.
func smallestSubset(dice []int, need, minDice int) ([]int, bool) {
	minCount := max(1, minDice)
	if len(dice) < minCount {
		return nil, false
	}
	bestMask, bestCount, bestSum := -1, 0, 0
	for mask := 1; mask < 1<<len(dice); mask++ {
		count := bits.OnesCount(uint(mask))
		if count < minCount {
			continue
		}
		total := 0
		for i, d := range dice {
			if mask&(1<<i) != 0 {
				total += d
			}
		}
		if total < need {
			continue
		}
		if bestMask < 0 || count < bestCount || (count == bestCount && total < bestSum) {
			bestMask, bestCount, bestSum = mask, count, total
		}
	}
	if bestMask < 0 {
		return nil, false
	}
	var out []int
	for i := range dice {
		if bestMask&(1<<i) != 0 {
			out = append(out, i)
		}
	}
	return out, true
}

func playable(t catalog.Timing, at game.Location) bool {
	switch t {
	case catalog.AtSea:
		return at == game.AtSea
	case catalog.AtPort:
		return at == game.AtPort
	}
	return true
}

func act(t game.ActionType, playerID string, payload game.Payload) game.Action {
	return game.Action{Type: t, PlayerID: playerID, Payload: payload}
}

func confidence(score float64) float64 {
	if score <= 0 {
		return 0
	}
	return score / (score + 5)
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	return float64(utils.Sum(values)) / float64(len(values))
}
