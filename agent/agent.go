package agent

import (
	"fmt"
	"strings"

	"deepregrets/game"
)

// Decision is an agent's proposed action for one player.
type Decision struct {
	Action     game.Action
	Confidence float64 // [0, 1]
	Reasoning  string
}

type Agent interface {
	// FindMove proposes the next action for playerID. It only reads state.
	FindMove(state *game.GameState, playerID string) Decision
}

type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

var difficultyNames = []string{"easy", "medium", "hard"}

func (d Difficulty) String() string {
	if d < 0 || int(d) >= len(difficultyNames) {
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

func ParseDifficulty(s string) (Difficulty, error) {
	for i, name := range difficultyNames {
		if strings.EqualFold(s, name) {
			return Difficulty(i), nil
		}
	}
	return Easy, fmt.Errorf("unknown difficulty %q", s)
}

// Strategy biases how much risk a heuristic agent takes.
type Strategy int

const (
	Balanced   Strategy = iota
	Aggressive          // dives deep, spends freely, keeps regrets
	Cautious            // heads home early, sheds regrets
)

var strategyNames = []string{"balanced", "aggressive", "cautious"}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

func ParseStrategy(s string) (Strategy, error) {
	for i, name := range strategyNames {
		if strings.EqualFold(s, name) {
			return Strategy(i), nil
		}
	}
	return Balanced, fmt.Errorf("unknown strategy %q", s)
}
