package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"deepregrets/catalog"
)

func TestParseActionType(t *testing.T) {
	t.Run("known names", func(t *testing.T) {
		for i := ActionType(0); i < numActionTypes; i++ {
			got, err := ParseActionType(i.String())
			require.NoError(t, err)
			require.Equal(t, i, got)
		}
	})

	t.Run("suggests a close name", func(t *testing.T) {
		_, err := ParseActionType("CATCH_FISHH")
		require.ErrorIs(t, err, ErrUnknownAction)
		require.Contains(t, err.Error(), "CATCH_FISH")
	})
}

func TestActionValidate(t *testing.T) {
	cases := []struct {
		name   string
		action Action
		valid  bool
	}{
		{"pass", Action{Type: Pass, PlayerID: "p"}, true},
		{"no player", Action{Type: Pass}, false},
		{"unexpected payload", Action{Type: Pass, PlayerID: "p", Payload: &FishPayload{FishID: "x"}}, false},
		{"missing payload", Action{Type: SellFish, PlayerID: "p"}, false},
		{"typed nil payload", Action{Type: SellFish, PlayerID: "p", Payload: (*FishPayload)(nil)}, false},
		{"wrong payload", Action{Type: SellFish, PlayerID: "p", Payload: &DinkPayload{DinkID: "x"}}, false},
		{"duplicate dice", Action{Type: CatchFish, PlayerID: "p", Payload: &CatchFishPayload{Depth: 1, FishID: "f", DiceIndices: []int{0, 0}}}, false},
		{"catch", Action{Type: CatchFish, PlayerID: "p", Payload: &CatchFishPayload{Depth: 1, FishID: "f", DiceIndices: []int{0, 1}}}, true},
		{"bad category", Action{Type: BuyUpgrade, PlayerID: "p", Payload: &BuyUpgradePayload{Category: "boat", CardID: "x"}}, false},
		{"no use type", Action{Type: UseLifePreserver, PlayerID: "p", Payload: &UseLifePreserverPayload{}}, false},
		{"bad reward", Action{Type: ClaimPassingReward, PlayerID: "p", Payload: &ClaimPassingRewardPayload{Choice: "gold"}}, false},
		{"reserved id", Action{Type: InitGame, PlayerID: SystemPlayer, Payload: &InitGamePayload{Players: []PlayerSetup{{ID: SystemPlayer, Name: "x"}}}}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.action.Validate()
			if c.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestActionJSON(t *testing.T) {
	a := Action{Type: BuyUpgrade, PlayerID: "player-1", Payload: &BuyUpgradePayload{Category: catalog.Rod, CardID: "carbon_rod"}}
	data, err := json.Marshal(a)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"BUY_UPGRADE","playerId":"player-1","payload":{"category":"rod","cardId":"carbon_rod"}}`, string(data))

	var got Action
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, a, got)

	require.Error(t, json.Unmarshal([]byte(`{"type":"FLY","playerId":"p"}`), &got))
}
