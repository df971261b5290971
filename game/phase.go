package game

func (r *Reducer) nextPhase(gs *GameState, _ *Player, _ Action) bool {
	switch gs.Phase {
	case StartPhase:
		r.enterRefresh(gs)
	case RefreshPhase:
		r.enterDeclaration(gs)
	case DeclarationPhase:
		if !gs.allPassed() {
			return false
		}
		r.enterAction(gs)
	case ActionPhase:
		if !gs.allPassed() {
			return false
		}
		r.endDay(gs)
	default:
		return false
	}
	return true
}

func (r *Reducer) enterRefresh(gs *GameState) {
	gs.Phase = RefreshPhase
	for i := range gs.Players {
		p := &gs.Players[i]
		if p.Location == AtSea && p.CurrentDepth > 1 {
			p.CurrentDepth--
			p.CurrentShoal = NoShoal
		}
		r.refreshPool(p)
		p.Dinks = append(p.Dinks, p.ExhaustedDinks...)
		p.ExhaustedDinks = []string{}
		syncDiceRemoval(gs, p)
	}
	r.awardLifePreserver(gs)
	r.logPhase(gs)
}

func (r *Reducer) enterDeclaration(gs *GameState) {
	gs.Phase = DeclarationPhase
	for i := range gs.Players {
		p := &gs.Players[i]
		p.Location = AtSea
		p.CurrentDepth = 1
		p.CurrentShoal = NoShoal
		p.HasPassed = false
	}
	gs.CurrentPlayerIndex = gs.FirstPlayerIndex
	r.logPhase(gs)
}

func (r *Reducer) enterAction(gs *GameState) {
	gs.Phase = ActionPhase
	for i := range gs.Players {
		gs.Players[i].HasPassed = false
		gs.Players[i].ShopVisits = ShopVisits{}
	}
	gs.CurrentPlayerIndex = gs.FirstPlayerIndex
	gs.LastPlayerTurnsRemaining = nil
	r.logPhase(gs)
}

// endDay closes the action phase once everyone has passed. On the last day the
// pass flags stay set so the win check ends the game.
func (r *Reducer) endDay(gs *GameState) {
	gs.Phase = StartPhase
	gs.LastPlayerTurnsRemaining = nil
	if gs.isLastDay() {
		return
	}
	for i := range gs.Players {
		gs.Players[i].HasPassed = false
	}
	gs.Day++
	if i := gs.playerIndex(gs.FishCoinOwner); i >= 0 {
		gs.FirstPlayerIndex = i
	}
	gs.CurrentPlayerIndex = gs.FirstPlayerIndex
	gs.Sea.Revealed = map[string]bool{}
	r.logPhase(gs)
}

func (r *Reducer) declareLocation(gs *GameState, p *Player, a Action) bool {
	if gs.Phase != DeclarationPhase || gs.CurrentPlayer().ID != p.ID || p.HasPassed {
		return false
	}
	if a.Payload.(*DeclareLocationPayload).Location == AtPort {
		r.makePort(p)
	} else {
		p.Location = AtSea
		p.CurrentDepth = 1
		p.CurrentShoal = NoShoal
	}
	p.HasPassed = true
	if gs.allPassed() {
		r.enterAction(gs)
		return true
	}
	r.advance(gs, false)
	return true
}

func (r *Reducer) pass(gs *GameState, p *Player, _ Action) bool {
	r.passPlayer(gs, p)
	return true
}

func (r *Reducer) passPlayer(gs *GameState, p *Player) {
	firstToPass := true
	for _, o := range gs.Players {
		if o.ID != p.ID && o.HasPassed {
			firstToPass = false
		}
	}
	p.HasPassed = true
	p.ShopVisits = ShopVisits{}
	if firstToPass {
		gs.FishCoinOwner = p.ID
		gs.PendingPassingReward = p.ID
	}

	var remaining []*Player
	for i := range gs.Players {
		if !gs.Players[i].HasPassed {
			remaining = append(remaining, &gs.Players[i])
		}
	}
	switch len(remaining) {
	case 0:
		r.endDay(gs)
		return
	case 1:
		if gs.LastPlayerTurnsRemaining == nil {
			last := remaining[0]
			turns := gs.Rules.LastPlayerTurnsSea
			if last.Location == AtPort {
				turns = gs.Rules.LastPlayerTurnsPort
			}
			gs.LastPlayerTurnsRemaining = &LastPlayerTurns{PlayerID: last.ID, Turns: turns}
		}
	}
	if gs.CurrentPlayer().ID == p.ID {
		r.advance(gs, true)
	}
}

func (r *Reducer) endTurn(gs *GameState, p *Player, _ Action) bool {
	if lp := gs.LastPlayerTurnsRemaining; lp != nil && lp.PlayerID == p.ID {
		lp.Turns--
		if lp.Turns <= 0 {
			r.passPlayer(gs, p)
			return true
		}
	}
	r.advance(gs, true)
	return true
}

// advance moves the turn to the next player who has not passed. In the action
// phase, passed players skipped on the way are queued for a skipped reward.
func (r *Reducer) advance(gs *GameState, reward bool) {
	if gs.allPassed() {
		return
	}
	n := len(gs.Players)
	from := gs.CurrentPlayerIndex
	for step := 1; step <= n; step++ {
		j := (from + step) % n
		q := &gs.Players[j]
		if !q.HasPassed {
			gs.CurrentPlayerIndex = j
			q.ShopVisits = ShopVisits{}
			return
		}
		if reward && j != from {
			gs.PendingSkippedRewards = append(gs.PendingSkippedRewards, q.ID)
		}
	}
}

func (r *Reducer) checkWinCondition(gs *GameState) {
	if gs.IsGameOver || !gs.isLastDay() || gs.Phase != StartPhase || !gs.allPassed() {
		return
	}
	r.resolveEndgame(gs)
}

func (r *Reducer) logPhase(gs *GameState) {
	r.logger.Info().Str("game", gs.GameID).Stringer("day", gs.Day).Stringer("phase", gs.Phase).Msg("Phase changed")
}
