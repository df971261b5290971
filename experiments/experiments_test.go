package experiments

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"

	"deepregrets/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	log.Logger = zerolog.Nop()
	cfg, err := config.LoadFrom(map[string]string{
		"DR_PLAYERS":      "2",
		"DR_GAMES":        "3",
		"DR_PARALLEL":     "2",
		"DR_SEED":         "5",
		"DR_DIFFICULTIES": "medium,easy",
		"DR_DAYS":         "2",
		"DR_OUTPUT_DIR":   t.TempDir(),
	})
	require.NoError(t, err)
	return cfg
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	report, err := Run(cfg)
	require.NoError(t, err)

	require.Len(t, report.Games, 3)
	require.Len(t, report.Players, 6)
	for i, g := range report.Games {
		require.Equal(t, i, g.Index)
		require.Equal(t, uint64(5+i), g.Seed)
		require.True(t, g.Completed)
		require.Equal(t, 2, g.Days)
	}
	wins := 0
	for _, n := range report.Wins {
		wins += n
	}
	require.Equal(t, 3, wins, "One winner per game")

	require.FileExists(t, filepath.Join(report.Dir, "games.csv"))
	require.FileExists(t, filepath.Join(report.Dir, "players.csv"))
}

func TestRunRejectsUnknownAgents(t *testing.T) {
	cfg := testConfig(t)
	cfg.Difficulties = []string{"grandmaster"}
	_, err := Run(cfg)
	require.Error(t, err)
}

func TestRunRejectsUnknownCharacters(t *testing.T) {
	cfg := testConfig(t)
	cfg.Characters = []string{"pirate"}
	_, err := Run(cfg)
	require.Error(t, err)
}
