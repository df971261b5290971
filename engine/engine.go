package engine

import (
	"errors"

	"deepregrets/experiments/metrics"
	"deepregrets/game"
	"deepregrets/meta"
)

const MaxActions = meta.MAX_ACTIONS

var (
	ErrNoPlayers = errors.New("need at least one seat")
	ErrStalled   = errors.New("no action could be applied")
)

type Result struct {
	State  *game.GameState
	Metric metrics.GameMetric
}

type Engine interface {
	// Run plays a game until it is over or the action limit is reached
	Run() (Result, error)
}
