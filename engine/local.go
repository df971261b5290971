package engine

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"deepregrets/agent"
	"deepregrets/experiments/metrics"
	"deepregrets/game"
)

// Seat pairs a player with the agent that plays for them.
type Seat struct {
	Setup game.PlayerSetup
	Agent agent.Agent
}

type Option func(e *Local)

func WithReducer(r *game.Reducer) Option {
	return func(e *Local) {
		if r != nil {
			e.reducer = r
		}
	}
}

func WithRules(rules game.Rules) Option {
	return func(e *Local) { e.rules = &rules }
}

func WithMaxActions(n int) Option {
	return func(e *Local) {
		if n > 0 {
			e.maxActions = n
		}
	}
}

func WithMetrics(c metrics.Collector) Option {
	return func(e *Local) {
		if c != nil {
			e.metrics = c
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Local) { e.logger = l }
}

// Local runs a whole game in process, one dispatched action at a time.
type Local struct {
	seats      []Seat
	reducer    *game.Reducer
	rules      *game.Rules
	maxActions int
	metrics    metrics.Collector
	logger     zerolog.Logger

	// endTurnFor is the player whose turn ends once their obligations are met.
	endTurnFor string
}

func NewLocal(seats []Seat, options ...Option) (*Local, error) {
	if len(seats) == 0 {
		return nil, ErrNoPlayers
	}
	e := &Local{
		seats:      seats,
		maxActions: MaxActions,
		metrics:    metrics.NewDummyCollector(),
		logger:     log.Logger,
	}
	for _, option := range options {
		option(e)
	}
	if e.reducer == nil {
		e.reducer = game.NewReducer(game.WithLogger(e.logger))
	}
	return e, nil
}

// Run executes the game loop until the game is over or the action limit is hit.
func (e *Local) Run() (Result, error) {
	setups := make([]game.PlayerSetup, len(e.seats))
	for i, s := range e.seats {
		setups[i] = s.Setup
	}
	gs, err := e.reducer.Dispatch(nil, game.Action{
		Type:     game.InitGame,
		PlayerID: game.SystemPlayer,
		Payload:  &game.InitGamePayload{Players: setups, Rules: e.rules},
	})
	if err != nil {
		return Result{}, err
	}
	if gs == nil {
		return Result{}, fmt.Errorf("init game: %w", game.ErrInvalidPayload)
	}

	e.metrics.Start()
	e.endTurnFor = ""
	logger := e.logger.With().Str("game", gs.GameID).Logger()
	logger.Info().Int("players", len(gs.Players)).Msg("Starting game")

	steps := 0
	for !gs.IsGameOver && steps < e.maxActions {
		next, err := e.step(gs)
		if err != nil {
			return Result{State: gs, Metric: e.metrics.Complete(gs)}, err
		}
		gs = next
		steps++
	}

	if gs.IsGameOver {
		logger.Info().Str("winner", gs.Winner).Int("actions", steps).Msg("Game over")
	} else {
		logger.Warn().Int("actions", steps).Msg("Stopped at the action limit")
	}
	return Result{State: gs, Metric: e.metrics.Complete(gs)}, nil
}

// step applies exactly one action: an obligation, a phase change, a pending
// end of turn or the acting player's move.
func (e *Local) step(gs *game.GameState) (*game.GameState, error) {
	if owner, fallback, ok := obligation(gs); ok {
		return e.play(gs, owner, fallback)
	}

	switch gs.Phase {
	case game.StartPhase, game.RefreshPhase:
		return e.apply(gs, game.Action{Type: game.NextPhase, PlayerID: game.SystemPlayer})
	case game.DeclarationPhase:
		p := gs.CurrentPlayer()
		return e.play(gs, p.ID, game.Action{Type: game.DeclareLocation, PlayerID: p.ID, Payload: &game.DeclareLocationPayload{Location: game.AtSea}})
	}

	p := gs.CurrentPlayer()
	if e.endTurnFor != "" {
		id := e.endTurnFor
		e.endTurnFor = ""
		if id == p.ID && !p.HasPassed && gs.Phase == game.ActionPhase {
			return e.apply(gs, game.Action{Type: game.EndTurn, PlayerID: id})
		}
	}
	return e.play(gs, p.ID, game.Action{Type: game.Pass, PlayerID: p.ID})
}

// play asks playerID's agent for an action and falls back when the reducer
// rejects it. Passing and declaring end the turn on their own.
func (e *Local) play(gs *game.GameState, playerID string, fallback game.Action) (*game.GameState, error) {
	seat := e.seat(gs, playerID)
	if seat == nil {
		return e.apply(gs, fallback)
	}
	d := seat.Agent.FindMove(gs, playerID)
	next, err := e.reducer.Dispatch(gs, d.Action)
	if err != nil {
		return nil, err
	}
	if next == gs {
		e.logger.Debug().Str("player", playerID).Stringer("action", d.Action.Type).Str("reason", d.Reasoning).Msg("Proposal rejected, falling back")
		e.metrics.AddFallback()
		return e.apply(gs, fallback)
	}
	e.metrics.AddAction()
	e.logger.Trace().Str("player", playerID).Stringer("action", d.Action.Type).Float64("confidence", d.Confidence).Msg(d.Reasoning)
	switch d.Action.Type {
	case game.Pass, game.EndTurn, game.DeclareLocation, game.RemoveDie, game.GiveLifePreserver, game.ClaimPassingReward:
	default:
		if gs.Phase == game.ActionPhase && gs.CurrentPlayer().ID == playerID {
			e.endTurnFor = playerID
		}
	}
	return next, nil
}

func (e *Local) apply(gs *game.GameState, a game.Action) (*game.GameState, error) {
	next, err := e.reducer.Dispatch(gs, a)
	if err != nil {
		return nil, err
	}
	if next == gs {
		return nil, fmt.Errorf("%w: %s by %s", ErrStalled, a.Type, a.PlayerID)
	}
	e.metrics.AddAction()
	return next, nil
}

func (e *Local) seat(gs *game.GameState, playerID string) *Seat {
	for i := range gs.Players {
		if gs.Players[i].ID == playerID && i < len(e.seats) {
			return &e.seats[i]
		}
	}
	return nil
}

// obligation finds a player who owes something before play continues, and a
// safe action resolving it.
func obligation(gs *game.GameState) (string, game.Action, bool) {
	for _, d := range gs.PendingDiceRemoval {
		if d.Count > 0 {
			return d.PlayerID, game.Action{Type: game.RemoveDie, PlayerID: d.PlayerID, Payload: &game.RemoveDiePayload{DieIndex: 0}}, true
		}
	}
	if id := gs.PendingLifePreserverGift; id != "" {
		for _, p := range gs.Players {
			if p.ID != id {
				return id, game.Action{Type: game.GiveLifePreserver, PlayerID: id, Payload: &game.GiveLifePreserverPayload{TargetPlayerID: p.ID}}, true
			}
		}
	}
	id := gs.PendingPassingReward
	if id == "" && len(gs.PendingSkippedRewards) > 0 {
		id = gs.PendingSkippedRewards[0]
	}
	if id != "" {
		return id, game.Action{Type: game.ClaimPassingReward, PlayerID: id, Payload: &game.ClaimPassingRewardPayload{Choice: game.RewardDink}}, true
	}
	return "", game.Action{}, false
}
