package metrics

import (
	"sync/atomic"
	"time"

	"deepregrets/game"
)

type GameMetric struct {
	GameID    string
	Players   int
	Winner    string // Player name
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Actions   int // Accepted actions, system phase changes included
	Fallbacks int // Agent proposals the reducer rejected
	Days      int
	Completed bool
}

type PlayerMetric struct {
	GameID string
	Seat   int
	Agent  string
	Won    bool
	game.ScoreBreakdown
}

type Collector interface {
	Start()
	AddAction()
	AddFallback()
	Complete(gs *game.GameState) GameMetric
}

type collector struct {
	startTime time.Time
	actions   atomic.Int32
	fallbacks atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.actions.Store(0)
	m.fallbacks.Store(0)
}

func (m *collector) AddAction() {
	m.actions.Add(1)
}

func (m *collector) AddFallback() {
	m.fallbacks.Add(1)
}

func (m *collector) Complete(gs *game.GameState) GameMetric {
	end := time.Now()
	return GameMetric{
		GameID:    gs.GameID,
		Players:   len(gs.Players),
		Winner:    gs.Winner,
		StartTime: m.startTime,
		EndTime:   end,
		Duration:  end.Sub(m.startTime),
		Actions:   int(m.actions.Load()),
		Fallbacks: int(m.fallbacks.Load()),
		Days:      int(gs.Day) + 1,
		Completed: gs.IsGameOver,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                                 {}
func (m *dummyCollector) AddAction()                             {}
func (m *dummyCollector) AddFallback()                           {}
func (m *dummyCollector) Complete(gs *game.GameState) GameMetric { return GameMetric{} }

// Players turns a finished game's score breakdowns into per-seat metrics.
// agents[i] labels seat i.
func Players(gs *game.GameState, agents []string) []PlayerMetric {
	out := make([]PlayerMetric, 0, len(gs.Players))
	winner := game.WinnerID(gs)
	for i := range gs.Players {
		p := &gs.Players[i]
		b := game.Breakdown(p, gs.Rules)
		for _, s := range gs.FinalScores {
			if s.PlayerID == p.ID {
				b = s
			}
		}
		label := ""
		if i < len(agents) {
			label = agents[i]
		}
		out = append(out, PlayerMetric{
			GameID:         gs.GameID,
			Seat:           i,
			Agent:          label,
			Won:            winner != "" && winner == p.ID,
			ScoreBreakdown: b,
		})
	}
	return out
}
