package game

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"deepregrets/catalog"
)

func newTestReducer(seed uint64) *Reducer {
	return NewReducer(WithRandom(NewRandom(seed)), WithLogger(zerolog.Nop()))
}

func newTestGame(t *testing.T, r *Reducer, players int) *GameState {
	t.Helper()
	setups := make([]PlayerSetup, players)
	for i := range setups {
		setups[i] = PlayerSetup{Name: fmt.Sprintf("Player %d", i+1)}
	}
	gs, err := r.Dispatch(nil, Action{Type: InitGame, PlayerID: SystemPlayer, Payload: &InitGamePayload{Players: setups}})
	require.NoError(t, err)
	require.NotNil(t, gs, "Should build a state")
	return gs
}

// inAction puts the game in the action phase with player 0 to act.
func inAction(gs *GameState) {
	gs.Phase = ActionPhase
	gs.CurrentPlayerIndex = 0
	gs.FirstPlayerIndex = 0
}

func atSea(p *Player, depth int, fresh ...int) {
	p.Location = AtSea
	p.CurrentDepth = depth
	p.CurrentShoal = NoShoal
	p.FreshDice = fresh
	p.SpentDice = []int{}
}

func testFish(id string, depth, value, difficulty int, q catalog.Quality) catalog.FishCard {
	return catalog.FishCard{ID: id, Species: id, Name: id, Depth: depth, Size: catalog.Medium, Value: value, Difficulty: difficulty, Quality: q}
}

func dispatch(t *testing.T, r *Reducer, gs *GameState, typ ActionType, player string, payload Payload) *GameState {
	t.Helper()
	next, err := r.Dispatch(gs, Action{Type: typ, PlayerID: player, Payload: payload})
	require.NoError(t, err)
	return next
}
