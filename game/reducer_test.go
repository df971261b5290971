package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"deepregrets/catalog"
)

func TestDispatchGuards(t *testing.T) {
	r := newTestReducer(1)

	t.Run("nil state is a startup error", func(t *testing.T) {
		_, err := r.Dispatch(nil, Action{Type: Pass, PlayerID: "player-1"})
		require.ErrorIs(t, err, ErrNotInitialized)
	})

	t.Run("unknown action type is ignored", func(t *testing.T) {
		gs := newTestGame(t, r, 2)
		next := dispatch(t, r, gs, ActionType(99), "player-1", nil)
		require.Same(t, gs, next)
	})

	t.Run("malformed payload is ignored", func(t *testing.T) {
		gs := newTestGame(t, r, 2)
		inAction(gs)
		require.Same(t, gs, dispatch(t, r, gs, CatchFish, "player-1", nil))
		require.Same(t, gs, dispatch(t, r, gs, CatchFish, "player-1", &FishPayload{FishID: "x"}))
		require.Same(t, gs, dispatch(t, r, gs, UseLifePreserver, "player-1", &UseLifePreserverPayload{}))
	})

	t.Run("unknown player is ignored", func(t *testing.T) {
		gs := newTestGame(t, r, 2)
		inAction(gs)
		require.Same(t, gs, dispatch(t, r, gs, Pass, "nobody", nil))
	})

	t.Run("out of turn action is ignored", func(t *testing.T) {
		gs := newTestGame(t, r, 2)
		inAction(gs)
		require.Same(t, gs, dispatch(t, r, gs, Pass, "player-2", nil))
	})
}

func TestInitGame(t *testing.T) {
	r := newTestReducer(3)
	gs := newTestGame(t, r, 3)

	require.Len(t, gs.Players, 3)
	require.Equal(t, StartPhase, gs.Phase)
	require.Equal(t, Monday, gs.Day)
	require.NotEmpty(t, gs.GameID)

	fish := 0
	for d, shoals := range gs.Sea.Shoals {
		require.Len(t, shoals, gs.Rules.ShoalsPerDepth, "Depth %d should have every shoal", d+1)
		for _, s := range shoals {
			for _, f := range s {
				require.Equal(t, d+1, f.Depth)
			}
			fish += len(s)
		}
	}
	require.Equal(t, len(catalog.Default().Fish), fish, "Every fish should be dealt once")

	require.Len(t, gs.Port.Rods.Visible, gs.Rules.ShopVisible)
	require.Len(t, gs.Port.TackleMarket, gs.Rules.TackleMarketSize)
	require.Len(t, gs.Port.RegretDeck, len(catalog.Default().Regrets))

	for _, p := range gs.Players {
		require.Equal(t, AtPort, p.Location)
		require.Equal(t, 4, p.MaxDice)
		require.Len(t, p.FreshDice, p.MaxDice)
		require.True(t, p.CanOfWormsFaceUp)
	}
	require.Equal(t, "player-2", gs.Players[1].ID)

	t.Run("same seed replays the same game", func(t *testing.T) {
		a := newTestGame(t, newTestReducer(11), 2)
		b := newTestGame(t, newTestReducer(11), 2)
		require.Equal(t, a, b)
	})

	t.Run("characters apply their bonuses", func(t *testing.T) {
		r := newTestReducer(5)
		gs, err := r.Dispatch(nil, Action{Type: InitGame, PlayerID: SystemPlayer, Payload: &InitGamePayload{Players: []PlayerSetup{
			{Name: "Salt", Character: "old_salt"},
			{Name: "Hand", Character: "deckhand"},
			{Name: "Stuffer", Character: "taxidermist"},
		}}})
		require.NoError(t, err)
		require.Equal(t, 2, gs.Players[0].Fishbucks)
		require.Equal(t, 1, gs.Players[0].RegretShields)
		require.Equal(t, 5, gs.Players[1].MaxDice)
		require.Equal(t, 4, gs.Players[2].MaxMountSlots)
	})

	t.Run("unknown character keeps the previous state", func(t *testing.T) {
		prev := newTestGame(t, r, 2)
		next, err := r.Dispatch(prev, Action{Type: InitGame, PlayerID: SystemPlayer, Payload: &InitGamePayload{
			Players: []PlayerSetup{{Name: "X", Character: "pirate"}},
		}})
		require.NoError(t, err)
		require.Same(t, prev, next)
	})
}

func TestPhaseFlow(t *testing.T) {
	r := newTestReducer(8)
	gs := newTestGame(t, r, 2)

	gs = dispatch(t, r, gs, NextPhase, SystemPlayer, nil)
	require.Equal(t, RefreshPhase, gs.Phase)
	require.NotEmpty(t, gs.LifePreserverOwner)
	require.Equal(t, gs.LifePreserverOwner, gs.PendingLifePreserverGift, "The roller owes the preserver")

	gs = dispatch(t, r, gs, NextPhase, SystemPlayer, nil)
	require.Equal(t, DeclarationPhase, gs.Phase)
	for _, p := range gs.Players {
		require.Equal(t, AtSea, p.Location)
		require.Equal(t, 1, p.CurrentDepth)
	}
	require.Same(t, gs, dispatch(t, r, gs, NextPhase, SystemPlayer, nil), "Declaration waits for every player")
	require.Same(t, gs, dispatch(t, r, gs, DeclareLocation, "player-2", &DeclareLocationPayload{Location: AtPort}), "Players declare in turn")

	gs = dispatch(t, r, gs, DeclareLocation, "player-1", &DeclareLocationPayload{Location: AtSea})
	require.Equal(t, 1, gs.CurrentPlayerIndex)
	gs.Players[1].SpentDice = []int{3}
	gs.Players[1].FreshDice = []int{1, 1}
	gs = dispatch(t, r, gs, DeclareLocation, "player-2", &DeclareLocationPayload{Location: AtPort})
	require.Equal(t, ActionPhase, gs.Phase)
	require.Equal(t, AtPort, gs.Players[1].Location)
	require.Len(t, gs.Players[1].FreshDice, 3, "Making port rerolls the pool without topping it up")
	require.False(t, gs.Players[0].HasPassed)
	require.Equal(t, 0, gs.CurrentPlayerIndex)

	gs = dispatch(t, r, gs, Pass, "player-1", nil)
	require.Equal(t, "player-1", gs.FishCoinOwner)
	require.Equal(t, "player-1", gs.PendingPassingReward)
	require.Equal(t, 1, gs.CurrentPlayerIndex)

	gs = dispatch(t, r, gs, Pass, "player-2", nil)
	require.Equal(t, StartPhase, gs.Phase)
	require.Equal(t, Tuesday, gs.Day)
	require.Equal(t, 0, gs.FirstPlayerIndex)
	require.Empty(t, gs.Sea.Revealed)
	require.False(t, gs.IsGameOver)
}

func TestRefreshReelsIn(t *testing.T) {
	r := newTestReducer(2)
	gs := newTestGame(t, r, 2)
	atSea(&gs.Players[0], 3, 1)
	gs.Players[0].SpentDice = []int{2, 2}
	gs.Players[0].ExhaustedDinks = []string{"old_compass-1"}

	gs = dispatch(t, r, gs, NextPhase, SystemPlayer, nil)
	p := gs.Players[0]
	require.Equal(t, 2, p.CurrentDepth, "Should reel in one level")
	require.Len(t, p.FreshDice, p.MaxDice)
	require.Empty(t, p.SpentDice)
	require.Equal(t, []string{"old_compass-1"}, p.Dinks, "Exhausted dinks come back")
}

func TestLifePreserver(t *testing.T) {
	r := newTestReducer(4)
	gs := newTestGame(t, r, 2)
	gs = dispatch(t, r, gs, NextPhase, SystemPlayer, nil)
	owner := gs.PendingLifePreserverGift
	other := "player-1"
	if owner == other {
		other = "player-2"
	}

	require.Same(t, gs, dispatch(t, r, gs, GiveLifePreserver, owner, &GiveLifePreserverPayload{TargetPlayerID: owner}), "Cannot keep it")
	require.Same(t, gs, dispatch(t, r, gs, GiveLifePreserver, other, &GiveLifePreserverPayload{TargetPlayerID: owner}), "Only the roller gives it")

	gs = dispatch(t, r, gs, GiveLifePreserver, owner, &GiveLifePreserverPayload{TargetPlayerID: other})
	require.Equal(t, other, gs.LifePreserverOwner)
	require.Empty(t, gs.PendingLifePreserverGift)

	t.Run("at sea it lowers the next catch", func(t *testing.T) {
		g := gs.Copy()
		inAction(g)
		g.CurrentPlayerIndex = g.playerIndex(other)
		p, _ := g.Player(other)
		atSea(p, 1, 3)
		g.Sea.Shoals[0][0] = []catalog.FishCard{testFish("t", 1, 2, 5, catalog.Fair), testFish("u", 1, 2, 5, catalog.Fair)}
		g.Sea.Revealed["1-0"] = true

		g = dispatch(t, r, g, UseLifePreserver, other, &UseLifePreserverPayload{UseType: UseAtSea})
		require.Empty(t, g.LifePreserverOwner)
		require.Equal(t, &DifficultyReduction{PlayerID: other, Amount: 2}, g.LifePreserverDifficultyReduction)

		g = dispatch(t, r, g, CatchFish, other, &CatchFishPayload{Depth: 1, Shoal: 0, FishID: "t", DiceIndices: []int{0}})
		p, _ = g.Player(other)
		require.Equal(t, "t", p.HandFish[len(p.HandFish)-1].ID)
		require.Nil(t, g.LifePreserverDifficultyReduction, "The bonus is spent by the catch")
	})

	t.Run("at port it discounts the first tackle die only", func(t *testing.T) {
		g := gs.Copy()
		inAction(g)
		g.CurrentPlayerIndex = g.playerIndex(other)
		p, _ := g.Player(other)
		p.Location = AtPort
		p.Fishbucks = 10

		g = dispatch(t, r, g, UseLifePreserver, other, &UseLifePreserverPayload{UseType: UseAtPort})
		var want int
		for n, id := range g.Port.TackleMarket[:2] {
			die, err := catalog.Default().TackleDie(id)
			require.NoError(t, err)
			if n == 0 {
				want += max(0, die.Cost-2)
			} else {
				want += die.Cost
			}
		}
		g = dispatch(t, r, g, BuyTackleDice, other, &BuyTackleDicePayload{MarketIndices: []int{0, 1}})
		p, _ = g.Player(other)
		require.Equal(t, 10-want, p.Fishbucks)
		require.Len(t, p.TackleDice, 2)
		require.Len(t, g.Port.TackleMarket, g.Rules.TackleMarketSize, "Market refills from the bag")
		require.False(t, p.HasEffect(EffectLifePreserverDiscount))
	})
}

func TestPendingDiceRemovalGate(t *testing.T) {
	r := newTestReducer(6)
	gs := newTestGame(t, r, 2)
	inAction(gs)
	p := &gs.Players[0]
	p.FreshDice = []int{1, 2, 3, 4, 5, 6}
	syncDiceRemoval(gs, p)
	require.Equal(t, []DiceRemoval{{PlayerID: p.ID, Count: 2}}, gs.PendingDiceRemoval)

	require.Same(t, gs, dispatch(t, r, gs, Pass, p.ID, nil), "Other actions wait for the removal")

	gs = dispatch(t, r, gs, RemoveDie, p.ID, &RemoveDiePayload{DieIndex: 0})
	require.Equal(t, 1, gs.PendingDiceRemoval[0].Count)
	gs = dispatch(t, r, gs, RemoveDie, p.ID, &RemoveDiePayload{DieIndex: 0})
	require.Empty(t, gs.PendingDiceRemoval)
	require.Equal(t, []int{3, 4, 5, 6}, gs.Players[0].FreshDice)

	require.Same(t, gs, dispatch(t, r, gs, RemoveDie, p.ID, &RemoveDiePayload{DieIndex: 0}), "Nothing left to remove")
}

func TestPassingRewards(t *testing.T) {
	r := newTestReducer(9)
	gs := newTestGame(t, r, 3)
	inAction(gs)

	gs = dispatch(t, r, gs, Pass, "player-1", nil)
	gs = dispatch(t, r, gs, EndTurn, "player-2", nil)
	require.Equal(t, 2, gs.CurrentPlayerIndex)
	gs = dispatch(t, r, gs, EndTurn, "player-3", nil)
	require.Equal(t, 1, gs.CurrentPlayerIndex, "Passed players are skipped")
	require.Equal(t, []string{"player-1"}, gs.PendingSkippedRewards)

	require.Same(t, gs, dispatch(t, r, gs, ClaimPassingReward, "player-2", &ClaimPassingRewardPayload{Choice: RewardDink}))

	gs = dispatch(t, r, gs, ClaimPassingReward, "player-1", &ClaimPassingRewardPayload{Choice: RewardDink})
	require.Empty(t, gs.PendingPassingReward, "The first-to-pass reward resolves first")
	require.Len(t, gs.PendingSkippedRewards, 1)

	gs = dispatch(t, r, gs, ClaimPassingReward, "player-1", &ClaimPassingRewardPayload{Choice: RewardDink})
	require.Empty(t, gs.PendingSkippedRewards)
	require.Len(t, gs.Players[0].Dinks, 2)
}

func TestSkippedRewardsStack(t *testing.T) {
	r := newTestReducer(9)
	gs := newTestGame(t, r, 3)
	inAction(gs)

	gs = dispatch(t, r, gs, Pass, "player-1", nil)
	for range 2 {
		gs = dispatch(t, r, gs, EndTurn, "player-2", nil)
		gs = dispatch(t, r, gs, EndTurn, "player-3", nil)
	}
	require.Equal(t, 1, gs.CurrentPlayerIndex)
	require.Equal(t, []string{"player-1", "player-1"}, gs.PendingSkippedRewards, "Each skip earns its own reward")

	gs = dispatch(t, r, gs, ClaimPassingReward, "player-1", &ClaimPassingRewardPayload{Choice: RewardDink})
	require.Len(t, gs.PendingSkippedRewards, 2, "The first-to-pass reward resolves first")
	gs = dispatch(t, r, gs, ClaimPassingReward, "player-1", &ClaimPassingRewardPayload{Choice: RewardDink})
	require.Equal(t, []string{"player-1"}, gs.PendingSkippedRewards)
	gs = dispatch(t, r, gs, ClaimPassingReward, "player-1", &ClaimPassingRewardPayload{Choice: RewardDink})
	require.Empty(t, gs.PendingSkippedRewards)
	require.Len(t, gs.Players[0].Dinks, 3)
}

func TestLastPlayerTurns(t *testing.T) {
	r := newTestReducer(10)
	gs := newTestGame(t, r, 2)
	inAction(gs)
	atSea(&gs.Players[0], 1, 3)
	atSea(&gs.Players[1], 1, 3)

	gs = dispatch(t, r, gs, Pass, "player-1", nil)
	require.Equal(t, &LastPlayerTurns{PlayerID: "player-2", Turns: 2}, gs.LastPlayerTurnsRemaining)

	gs = dispatch(t, r, gs, EndTurn, "player-2", nil)
	require.Equal(t, 1, gs.LastPlayerTurnsRemaining.Turns)
	require.Equal(t, ActionPhase, gs.Phase)

	gs = dispatch(t, r, gs, EndTurn, "player-2", nil)
	require.Equal(t, StartPhase, gs.Phase, "Running out of turns forces a pass")
	require.Equal(t, Tuesday, gs.Day)
	require.Nil(t, gs.LastPlayerTurnsRemaining)
}

func TestWinCondition(t *testing.T) {
	r := newTestReducer(12)
	gs := newTestGame(t, r, 2)
	inAction(gs)
	gs.Day = Saturday

	gs = dispatch(t, r, gs, Pass, "player-1", nil)
	gs = dispatch(t, r, gs, Pass, "player-2", nil)
	require.True(t, gs.IsGameOver)
	require.Equal(t, EndgamePhase, gs.Phase)
	require.NotEmpty(t, gs.Winner)
	require.Len(t, gs.FinalScores, 2)

	require.Same(t, gs, dispatch(t, r, gs, NextPhase, SystemPlayer, nil), "Nothing happens after the game ends")

	reset := dispatch(t, r, gs, ResetGame, SystemPlayer, nil)
	require.False(t, reset.IsGameOver)
	require.Equal(t, Monday, reset.Day)
	require.Equal(t, gs.Players[1].ID, reset.Players[1].ID)
}

func TestDinks(t *testing.T) {
	r := newTestReducer(13)
	gs := newTestGame(t, r, 2)
	inAction(gs)
	p := &gs.Players[0]
	p.Location = AtPort
	p.Dinks = []string{"coupon-1", "lucky_hook-1", "old_compass-1"}

	require.Same(t, gs, dispatch(t, r, gs, PlayDink, p.ID, &DinkPayload{DinkID: "lucky_hook-1"}), "Sea dinks wait for the sea")

	gs = dispatch(t, r, gs, PlayDink, p.ID, &DinkPayload{DinkID: "coupon-1"})
	require.Equal(t, []Effect{{Kind: EffectDinkDiscount, Amount: 2}}, gs.Players[0].ActiveEffects)
	require.Equal(t, []string{"coupon-1"}, gs.Port.DinkDiscard)

	atSea(&gs.Players[0], 1, 4)
	gs = dispatch(t, r, gs, PlayDink, p.ID, &DinkPayload{DinkID: "old_compass-1"})
	require.Equal(t, []string{"old_compass-1"}, gs.Players[0].ExhaustedDinks, "Reusable dinks are exhausted, not discarded")
	require.Equal(t, []string{"lucky_hook-1"}, gs.Players[0].Dinks)
}

func TestEatFish(t *testing.T) {
	r := newTestReducer(14)
	gs := newTestGame(t, r, 2)
	inAction(gs)
	p := &gs.Players[0]
	carp := testFish("carp", 1, 2, 3, catalog.Foul)
	carp.Abilities = []catalog.Ability{{Kind: catalog.EatDiscardRegret}}
	p.HandFish = []catalog.FishCard{carp, testFish("plain", 1, 2, 3, catalog.Fair)}
	p.Regrets = []catalog.RegretCard{{ID: "r1", Value: 2}}

	require.Same(t, gs, dispatch(t, r, gs, EatFish, p.ID, &FishPayload{FishID: "plain"}), "Only edible fish can be eaten")

	gs = dispatch(t, r, gs, EatFish, p.ID, &FishPayload{FishID: "carp"})
	require.Empty(t, gs.Players[0].Regrets)
	require.Len(t, gs.Players[0].HandFish, 1)
	require.Contains(t, gs.Port.RegretDiscard, catalog.RegretCard{ID: "r1", Value: 2})
	require.Equal(t, "carp", gs.Sea.Graveyards[0][len(gs.Sea.Graveyards[0])-1].ID)
}
