package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"deepregrets/catalog"
)

func TestMountedFishScore(t *testing.T) {
	t.Run("modifier applies before the multiplier", func(t *testing.T) {
		p := &Player{MountedFish: []MountedFish{{Slot: 2, Multiplier: 3, Fish: testFish("f", 1, 5, 3, catalog.Fair)}}}
		require.Equal(t, 21, MountedFishScore(p), "Should score (5+2)*3")
	})
}

func TestScoringIsReadOnly(t *testing.T) {
	p := &Player{
		Fishbucks: 4,
		HandFish:  []catalog.FishCard{testFish("a", 1, 3, 3, catalog.Foul)},
		Regrets:   []catalog.RegretCard{{ID: "r", Value: 2}},
	}
	before := p.copy()
	_ = Breakdown(p, NewStandardRules())
	require.Equal(t, before, *p, "Scoring should not mutate the player")
}

func TestRegretValue(t *testing.T) {
	rules := NewStandardRules()
	p := &Player{Regrets: []catalog.RegretCard{{Value: 3}, {Value: 1}}}
	require.Equal(t, 4, RegretValue(p, rules))

	p.LifeboatFlipped = true
	require.Equal(t, 14, RegretValue(p, rules), "Should add the lifeboat penalty")
	require.Equal(t, 0, TotalScore(p), "Regret value should stay out of the total")
}

func TestFishbucksCap(t *testing.T) {
	t.Run("overflow is lost", func(t *testing.T) {
		p := &Player{}
		p.gainFishbucks(7, 10)
		p.gainFishbucks(8, 10)
		require.Equal(t, 10, p.Fishbucks)
	})

	t.Run("selling never exceeds the cap", func(t *testing.T) {
		r := newTestReducer(1)
		gs := newTestGame(t, r, 2)
		inAction(gs)
		p := &gs.Players[0]
		p.Location = AtPort
		p.Fishbucks = 7
		p.HandFish = []catalog.FishCard{testFish("big", 3, 8, 10, catalog.Fair)}

		next := dispatch(t, r, gs, SellFish, p.ID, &FishPayload{FishID: "big"})
		require.Equal(t, 10, next.Players[0].Fishbucks)
		require.Empty(t, next.Players[0].HandFish)
	})
}

func TestRanking(t *testing.T) {
	scores := []ScoreBreakdown{
		{Name: "a", Total: 20, RegretValue: 5, RegretCount: 2},
		{Name: "b", Total: 20, RegretValue: 3, RegretCount: 4},
		{Name: "c", Total: 20, RegretValue: 3, RegretCount: 1},
		{Name: "d", Total: 25, RegretValue: 9, RegretCount: 9},
	}
	require.Equal(t, []int{3, 2, 1, 0}, Ranking(scores),
		"Should rank by total, then lower regret value, then fewer regret cards")
}
