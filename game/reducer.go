package game

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"deepregrets/catalog"
)

// Reducer applies actions to game states. It never mutates the state it is
// given: each accepted action works on a copy, and a rejected action returns
// the input pointer unchanged.
type Reducer struct {
	catalog *catalog.Catalog
	rng     Random
	logger  zerolog.Logger
}

type Option func(*Reducer)

func WithCatalog(c *catalog.Catalog) Option {
	return func(r *Reducer) { r.catalog = c }
}

func WithRandom(rng Random) Option {
	return func(r *Reducer) { r.rng = rng }
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Reducer) { r.logger = l }
}

func NewReducer(opts ...Option) *Reducer {
	r := &Reducer{
		catalog: catalog.Default(),
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = NewRandom(uint64(time.Now().UnixNano()))
	}
	return r
}

type handler func(r *Reducer, gs *GameState, p *Player, a Action) bool

var handlers = map[ActionType]handler{
	NextPhase:           (*Reducer).nextPhase,
	DeclareLocation:     (*Reducer).declareLocation,
	RevealFish:          (*Reducer).revealFish,
	Descend:             (*Reducer).descend,
	MoveDeeper:          (*Reducer).moveDeeper,
	CatchFish:           (*Reducer).catchFish,
	SellFish:            (*Reducer).sellFish,
	MountFish:           (*Reducer).mountFish,
	BuyUpgrade:          (*Reducer).buyUpgrade,
	BuyTackleDice:       (*Reducer).buyTackleDice,
	CycleMarket:         (*Reducer).cycleMarket,
	DrawDink:            (*Reducer).drawDinkAction,
	PlayDink:            (*Reducer).playDink,
	DiscardRegret:       (*Reducer).discardRegret,
	DiscardRandomRegret: (*Reducer).discardRandomRegret,
	UseLifePreserver:    (*Reducer).useLifePreserver,
	GiveLifePreserver:   (*Reducer).giveLifePreserver,
	ClaimPassingReward:  (*Reducer).claimPassingReward,
	RollDice:            (*Reducer).rollDiceAction,
	RemoveDie:           (*Reducer).removeDie,
	EatFish:             (*Reducer).eatFish,
	UseCanOfWorms:       (*Reducer).useCanOfWorms,
	AbandonShip:         (*Reducer).abandonShip,
	Pass:                (*Reducer).pass,
	EndTurn:             (*Reducer).endTurn,
}

// turnActions may only be taken by the current, unpassed player in the action phase.
var turnActions = map[ActionType]bool{
	RevealFish: true, Descend: true, MoveDeeper: true, CatchFish: true,
	SellFish: true, MountFish: true, BuyUpgrade: true, BuyTackleDice: true,
	CycleMarket: true, DrawDink: true, PlayDink: true, DiscardRegret: true,
	UseLifePreserver: true, EatFish: true, UseCanOfWorms: true, AbandonShip: true,
	Pass: true, EndTurn: true,
}

// Dispatch applies a to gs and returns the resulting state. Invalid or
// inapplicable actions return gs itself. The only error is dispatching
// against a nil state.
func (r *Reducer) Dispatch(gs *GameState, a Action) (*GameState, error) {
	if a.Type == InitGame {
		return r.initGame(gs, a), nil
	}
	if gs == nil {
		return nil, ErrNotInitialized
	}
	if err := a.Validate(); err != nil {
		r.logger.Warn().Err(err).Str("player", a.PlayerID).Msg("Ignoring malformed action")
		return gs, nil
	}
	if a.Type == ResetGame {
		return r.resetGame(gs), nil
	}
	if gs.IsGameOver {
		r.logger.Debug().Stringer("action", a.Type).Msg("Game is over")
		return gs, nil
	}

	next := gs.Copy()
	var p *Player
	if a.Type != NextPhase || a.PlayerID != SystemPlayer {
		var ok bool
		if p, ok = next.Player(a.PlayerID); !ok {
			r.logger.Warn().Str("player", a.PlayerID).Stringer("action", a.Type).Msg("Unknown player")
			return gs, nil
		}
		if reason := r.blocked(next, p, a.Type); reason != "" {
			r.logger.Debug().Str("player", p.ID).Stringer("action", a.Type).Msg(reason)
			return gs, nil
		}
	}

	if !handlers[a.Type](r, next, p, a) {
		r.logger.Debug().Str("player", a.PlayerID).Stringer("action", a.Type).Msg("Action not applicable")
		return gs, nil
	}
	r.checkWinCondition(next)
	return next, nil
}

// blocked returns why p may not take t right now, or "" when it may.
// Outstanding obligations are checked here so handlers never see stale pending state.
func (r *Reducer) blocked(gs *GameState, p *Player, t ActionType) string {
	if pendingDiceRemoval(gs, p.ID) > 0 && t != RemoveDie {
		return "Dice removal pending"
	}
	if gs.PendingLifePreserverGift == p.ID && t == UseLifePreserver {
		return "Life preserver must be given away"
	}
	if turnActions[t] {
		if gs.Phase != ActionPhase {
			return "Not in action phase"
		}
		if gs.CurrentPlayer().ID != p.ID {
			return "Not this player's turn"
		}
		if p.HasPassed {
			return "Player has passed"
		}
	}
	return ""
}

func pendingDiceRemoval(gs *GameState, playerID string) int {
	for _, d := range gs.PendingDiceRemoval {
		if d.PlayerID == playerID {
			return d.Count
		}
	}
	return 0
}

// Equipment returns every ability granted by the player's rod, reel and
// supplies. Unknown ids are skipped and reported in the error.
func Equipment(c *catalog.Catalog, p *Player) ([]catalog.Ability, error) {
	var out []catalog.Ability
	var errs []error
	ids := append([]string{p.EquippedRod, p.EquippedReel}, p.Supplies...)
	for _, id := range ids {
		if id == "" {
			continue
		}
		u, err := c.Upgrade(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, u.Abilities...)
	}
	return out, errors.Join(errs...)
}

func (r *Reducer) equipment(p *Player) []catalog.Ability {
	out, err := Equipment(r.catalog, p)
	if err != nil {
		r.logger.Warn().Err(err).Str("player", p.ID).Msg("Unknown equipment")
	}
	return out
}
