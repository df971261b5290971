package game

import "deepregrets/meta"

// Rules carries every numeric constant of a game. It travels inside GameState
// so a restored game keeps playing under the rules it started with.
type Rules struct {
	Days                      int `json:"days"`
	FishbuckCap               int `json:"fishbuckCap"`
	ShoalsPerDepth            int `json:"shoalsPerDepth"`
	ShopVisible               int `json:"shopVisible"`
	TackleMarketSize          int `json:"tackleMarketSize"`
	MountSlots                int `json:"mountSlots"`
	DescendThreshold          int `json:"descendThreshold"`
	LifePreserverReduction    int `json:"lifePreserverReduction"`
	LifePreserverShopDiscount int `json:"lifePreserverShopDiscount"`
	PortDiscount              int `json:"portDiscount"`
	LifeboatPenalty           int `json:"lifeboatPenalty"`
	AutoCatchMaxDifficulty    int `json:"autoCatchMaxDifficulty"`
	LastPlayerTurnsSea        int `json:"lastPlayerTurnsSea"`
	LastPlayerTurnsPort       int `json:"lastPlayerTurnsPort"`
	CycleMarketCost           int `json:"cycleMarketCost"`
}

func NewStandardRules() Rules {
	return Rules{
		Days:                      meta.DAYS,
		FishbuckCap:               meta.MAX_FISHBUCKS,
		ShoalsPerDepth:            meta.SHOALS_PER_DEPTH,
		ShopVisible:               meta.SHOP_VISIBLE,
		TackleMarketSize:          meta.TACKLE_MARKET_SIZE,
		MountSlots:                meta.MOUNT_SLOTS,
		DescendThreshold:          meta.DESCEND_THRESHOLD,
		LifePreserverReduction:    meta.LIFE_PRESERVER_REDUCTION,
		LifePreserverShopDiscount: meta.LIFE_PRESERVER_SHOP_DISCOUNT,
		PortDiscount:              meta.PORT_DISCOUNT,
		LifeboatPenalty:           meta.LIFEBOAT_PENALTY,
		AutoCatchMaxDifficulty:    meta.AUTO_CATCH_MAX_DIFFICULTY,
		LastPlayerTurnsSea:        meta.LAST_PLAYER_TURNS_SEA,
		LastPlayerTurnsPort:       meta.LAST_PLAYER_TURNS_PORT,
		CycleMarketCost:           meta.CYCLE_MARKET_COST,
	}
}

// withDefaults fills zero fields from the standard rules.
func (r Rules) withDefaults() Rules {
	std := NewStandardRules()
	fill := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&r.Days, std.Days)
	fill(&r.FishbuckCap, std.FishbuckCap)
	fill(&r.ShoalsPerDepth, std.ShoalsPerDepth)
	fill(&r.ShopVisible, std.ShopVisible)
	fill(&r.TackleMarketSize, std.TackleMarketSize)
	fill(&r.MountSlots, std.MountSlots)
	fill(&r.DescendThreshold, std.DescendThreshold)
	fill(&r.LifePreserverReduction, std.LifePreserverReduction)
	fill(&r.LifePreserverShopDiscount, std.LifePreserverShopDiscount)
	fill(&r.PortDiscount, std.PortDiscount)
	fill(&r.LifeboatPenalty, std.LifeboatPenalty)
	fill(&r.AutoCatchMaxDifficulty, std.AutoCatchMaxDifficulty)
	fill(&r.LastPlayerTurnsSea, std.LastPlayerTurnsSea)
	fill(&r.LastPlayerTurnsPort, std.LastPlayerTurnsPort)
	fill(&r.CycleMarketCost, std.CycleMarketCost)
	return r
}
