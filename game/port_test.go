package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"deepregrets/catalog"
)

func portGame(t *testing.T, r *Reducer, fishbucks int) *GameState {
	t.Helper()
	gs := newTestGame(t, r, 2)
	inAction(gs)
	for i := range gs.Players {
		gs.Players[i].Location = AtPort
		gs.Players[i].Fishbucks = fishbucks
	}
	return gs
}

func TestBuyUpgrade(t *testing.T) {
	t.Run("once per category per turn", func(t *testing.T) {
		r := newTestReducer(1)
		gs := portGame(t, r, 10)
		rod := gs.Port.Rods.Visible[0]

		gs = dispatch(t, r, gs, BuyUpgrade, "player-1", &BuyUpgradePayload{Category: catalog.Rod, CardID: rod})
		require.Equal(t, rod, gs.Players[0].EquippedRod)
		require.NotContains(t, gs.Port.Rods.Pool, rod)
		require.True(t, gs.Players[0].ShopVisits.Rod)
		gs.Players[0].Fishbucks = 10

		second := gs.Port.Rods.Visible[0]
		require.Same(t, gs, dispatch(t, r, gs, BuyUpgrade, "player-1", &BuyUpgradePayload{Category: catalog.Rod, CardID: second}),
			"Should reject a second rod this turn")

		reel := gs.Port.Reels.Visible[0]
		next := dispatch(t, r, gs, BuyUpgrade, "player-1", &BuyUpgradePayload{Category: catalog.Reel, CardID: reel})
		require.Equal(t, reel, next.Players[0].EquippedReel, "Categories are independent")

		gs = dispatch(t, r, gs, EndTurn, "player-1", nil)
		gs = dispatch(t, r, gs, EndTurn, "player-2", nil)
		require.False(t, gs.Players[0].ShopVisits.Rod, "A new turn resets the tracker")
		gs = dispatch(t, r, gs, BuyUpgrade, "player-1", &BuyUpgradePayload{Category: catalog.Rod, CardID: second})
		require.Equal(t, second, gs.Players[0].EquippedRod)
	})

	t.Run("discounts stack and are consumed", func(t *testing.T) {
		r := newTestReducer(1)
		gs := portGame(t, r, 10)
		card, err := catalog.Default().Upgrade(gs.Port.Supplies.Visible[0])
		require.NoError(t, err)
		p := &gs.Players[0]
		p.ActiveEffects = []Effect{{Kind: EffectLifePreserverDiscount, Amount: 2}, {Kind: EffectDinkDiscount, Amount: 2}}

		gs = dispatch(t, r, gs, BuyUpgrade, p.ID, &BuyUpgradePayload{Category: catalog.Supply, CardID: card.ID})
		require.Equal(t, 10-max(0, card.Cost-4), gs.Players[0].Fishbucks)
		require.Empty(t, gs.Players[0].ActiveEffects)
		require.Equal(t, []string{card.ID}, gs.Players[0].Supplies)
	})

	t.Run("port discount only at the top tier", func(t *testing.T) {
		rules := NewStandardRules()
		p := &Player{}
		cost, _ := UpgradeCost(p, rules, 5)
		require.Equal(t, 5, cost)
		p.MadnessLevel = MaxMadnessLevel
		cost, _ = UpgradeCost(p, rules, 5)
		require.Equal(t, 4, cost)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		r := newTestReducer(1)
		gs := portGame(t, r, 0)
		rod := gs.Port.Rods.Visible[0]
		require.Same(t, gs, dispatch(t, r, gs, BuyUpgrade, "player-1", &BuyUpgradePayload{Category: catalog.Rod, CardID: rod}))
	})

	t.Run("extra die equipment raises the cap", func(t *testing.T) {
		r := newTestReducer(1)
		gs := portGame(t, r, 10)
		gs.Port.Reels.Visible = []string{"brass_reel"}
		gs = dispatch(t, r, gs, BuyUpgrade, "player-1", &BuyUpgradePayload{Category: catalog.Reel, CardID: "brass_reel"})
		require.Equal(t, 5, gs.Players[0].MaxDice)
	})
}

func TestMountFish(t *testing.T) {
	r := newTestReducer(2)
	gs := portGame(t, r, 0)
	gs.Players[0].HandFish = []catalog.FishCard{testFish("a", 1, 3, 3, catalog.Fair), testFish("b", 1, 4, 3, catalog.Fair)}

	gs = dispatch(t, r, gs, MountFish, "player-1", &MountFishPayload{FishID: "a", Slot: 2})
	require.Equal(t, []MountedFish{{Slot: 2, Multiplier: 3, Fish: testFish("a", 1, 3, 3, catalog.Fair)}}, gs.Players[0].MountedFish)

	require.Same(t, gs, dispatch(t, r, gs, MountFish, "player-1", &MountFishPayload{FishID: "b", Slot: 2}), "Slot is taken")
	require.Same(t, gs, dispatch(t, r, gs, MountFish, "player-1", &MountFishPayload{FishID: "b", Slot: 3}), "No such slot")
}

func TestTackleMarket(t *testing.T) {
	t.Run("cycling refreshes the market", func(t *testing.T) {
		r := newTestReducer(3)
		gs := portGame(t, r, 2)
		total := len(gs.Port.TackleMarket) + len(gs.Port.TackleBag)

		gs = dispatch(t, r, gs, CycleMarket, "player-1", nil)
		require.Equal(t, 1, gs.Players[0].Fishbucks)
		require.Len(t, gs.Port.TackleMarket, gs.Rules.TackleMarketSize)
		require.Equal(t, total, len(gs.Port.TackleMarket)+len(gs.Port.TackleBag))
	})

	t.Run("no cycling after buying", func(t *testing.T) {
		r := newTestReducer(3)
		gs := portGame(t, r, 10)
		gs = dispatch(t, r, gs, BuyTackleDice, "player-1", &BuyTackleDicePayload{MarketIndices: []int{0}})
		require.Len(t, gs.Players[0].TackleDice, 1)
		require.Same(t, gs, dispatch(t, r, gs, CycleMarket, "player-1", nil))
		require.Same(t, gs, dispatch(t, r, gs, BuyTackleDice, "player-1", &BuyTackleDicePayload{MarketIndices: []int{0}}))
	})

	t.Run("spent tackle dice return to the bag", func(t *testing.T) {
		r := newTestReducer(3)
		gs := seaGame(t, r, []int{}, testFish("cod", 1, 4, 3, catalog.Fair), testFish("next", 1, 2, 3, catalog.Fair))
		gs.Players[0].TackleDice = []string{"red-1"}
		bag := len(gs.Port.TackleBag)

		gs = dispatch(t, r, gs, CatchFish, "player-1", &CatchFishPayload{Depth: 1, Shoal: 0, FishID: "cod", TackleDiceIndices: []int{0}})
		require.Len(t, gs.Port.TackleBag, bag+1)
		require.Empty(t, gs.Players[0].TackleDice)
	})
}

func TestDiscardRegret(t *testing.T) {
	r := newTestReducer(4)
	gs := portGame(t, r, 0)
	gs.Players[0].Regrets = []catalog.RegretCard{{ID: "a", Value: 1}, {ID: "b", Value: 3}}
	r.recalcMadness(gs, &gs.Players[0])

	gs = dispatch(t, r, gs, DiscardRegret, "player-1", &DiscardRegretPayload{RegretIndex: 1})
	require.Equal(t, []catalog.RegretCard{{ID: "a", Value: 1}}, gs.Players[0].Regrets)
	require.Equal(t, 1, gs.Players[0].MadnessLevel)
	require.Same(t, gs, dispatch(t, r, gs, DiscardRegret, "player-1", &DiscardRegretPayload{RegretIndex: 0}), "Once per turn")

	require.Same(t, gs, dispatch(t, r, gs, DiscardRandomRegret, "player-1", nil), "Needs a dink effect")
	gs.Players[0].ActiveEffects = []Effect{{Kind: EffectDiscardRandomRegret}}
	gs = dispatch(t, r, gs, DiscardRandomRegret, "player-1", nil)
	require.Empty(t, gs.Players[0].Regrets)
	require.Empty(t, gs.Players[0].ActiveEffects)
}

func TestRegretDeckExhaustion(t *testing.T) {
	r := newTestReducer(5)
	gs := newTestGame(t, r, 3)
	gs.Port.RegretDeck = []catalog.RegretCard{}
	gs.Port.RegretDiscard = []catalog.RegretCard{}
	gs.Players[1].Regrets = []catalog.RegretCard{{ID: "x", Value: 1}}
	gs.Players[2].Regrets = []catalog.RegretCard{{ID: "y", Value: 2}, {ID: "z", Value: 3}}

	r.drawRegrets(gs, &gs.Players[0], 1)
	require.Len(t, gs.Players[0].Regrets, 1, "Steals when nothing is left to draw")
	require.Len(t, gs.Players[2].Regrets, 1, "From the player holding the most")
	require.Len(t, gs.Players[1].Regrets, 1)

	t.Run("discard pile is reshuffled", func(t *testing.T) {
		gs.Port.RegretDiscard = []catalog.RegretCard{{ID: "d", Value: 0}}
		r.drawRegrets(gs, &gs.Players[1], 1)
		require.Len(t, gs.Players[1].Regrets, 2)
		require.Empty(t, gs.Port.RegretDiscard)
	})
}
