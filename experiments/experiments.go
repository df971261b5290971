package experiments

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"deepregrets/agent"
	"deepregrets/catalog"
	"deepregrets/config"
	"deepregrets/engine"
	"deepregrets/experiments/metrics"
	"deepregrets/game"
)

// Report summarizes one batch of simulated games.
type Report struct {
	Run      string
	Dir      string
	Games    []metrics.GameRecord
	Players  []metrics.PlayerRecord
	Wins     map[string]int // by agent label
	Duration time.Duration
}

// Run plays cfg.Games games on cfg.Parallel goroutines and stores the
// records as CSV under cfg.OutputDir.
func Run(cfg config.Config) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		var err error
		if cat, err = catalog.LoadFile(cfg.CatalogFile); err != nil {
			return Report{}, err
		}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	run := uuid.NewString()
	start := time.Now()

	log.Info().Str("run", run).Int("games", cfg.Games).Int("players", cfg.Players).Uint64("seed", seed).Msg("starting experiment...")

	type outcome struct {
		game    metrics.GameMetric
		players []metrics.PlayerMetric
		err     error
	}
	outcomes := make([]outcome, cfg.Games)
	task := make(chan int, cfg.Games)
	for i := 0; i < cfg.Games; i++ {
		task <- i
	}
	close(task)

	var wg sync.WaitGroup
	for w := 0; w < cfg.Parallel; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range task {
				g, p, err := runGame(cfg, cat, i, seed+uint64(i))
				outcomes[i] = outcome{g, p, err}
				if err != nil {
					log.Error().Err(err).Int("game", i).Msg("game failed")
					continue
				}
				log.Info().Msgf("completed game %d of %d with winner: %s", i+1, cfg.Games, g.Winner)
			}
		}()
	}
	wg.Wait()

	report := Report{Run: run, Wins: map[string]int{}, Duration: time.Since(start)}
	var errs []error
	for i, o := range outcomes {
		if o.err != nil {
			errs = append(errs, fmt.Errorf("game %d: %w", i, o.err))
			continue
		}
		report.Games = append(report.Games, metrics.GameRecord{Run: run, Index: i, Seed: seed + uint64(i), GameMetric: o.game})
		for _, p := range o.players {
			report.Players = append(report.Players, metrics.PlayerRecord{Run: run, PlayerMetric: p})
			if p.Won {
				report.Wins[p.Agent]++
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return report, err
	}

	writer, err := metrics.NewWriter(cfg.OutputDir, run[:8])
	if err != nil {
		return report, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	report.Dir = writer.Dir()

	err = writer.WriteGameRecords(report.Games)
	if err != nil {
		return report, fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WritePlayerRecords(report.Players)
	if err != nil {
		return report, fmt.Errorf("failed to write player records: %w", err)
	}
	log.Info().Msg("stored player records")

	log.Info().Str("run", run).Str("dir", report.Dir).Dur("duration", report.Duration).
		Float64("games_per_sec", float64(cfg.Games)/report.Duration.Seconds()).Msg("completed experiment")
	return report, nil
}

// runGame executes a single game with agents built from the config.
func runGame(cfg config.Config, cat *catalog.Catalog, index int, seed uint64) (metrics.GameMetric, []metrics.PlayerMetric, error) {
	seats := make([]engine.Seat, cfg.Players)
	labels := make([]string, cfg.Players)
	for i := range seats {
		difficulty, err := agent.ParseDifficulty(cfg.Difficulties[i%len(cfg.Difficulties)])
		if err != nil {
			return metrics.GameMetric{}, nil, err
		}
		strategy, err := agent.ParseStrategy(cfg.Strategies[i%len(cfg.Strategies)])
		if err != nil {
			return metrics.GameMetric{}, nil, err
		}

		options := []agent.Option{agent.WithCatalog(cat)}
		if difficulty == agent.Hard {
			options = append(options, agent.WithLookahead(cfg.Lookahead))
		}
		labels[i] = difficulty.String() + "/" + strategy.String()
		seats[i] = engine.Seat{
			Setup: game.PlayerSetup{
				Name:      fmt.Sprintf("%s %d", labels[i], i+1),
				Character: character(cfg, cat, index, i),
			},
			Agent: agent.NewHeuristic(difficulty, strategy, game.NewRandom(seed*31+uint64(i)+1), options...),
		}
	}

	reducer := game.NewReducer(game.WithCatalog(cat), game.WithRandom(game.NewRandom(seed)))
	e, err := engine.NewLocal(seats,
		engine.WithReducer(reducer),
		engine.WithRules(cfg.Rules()),
		engine.WithMaxActions(cfg.MaxActions),
		engine.WithMetrics(metrics.NewCollector()),
	)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	res, err := e.Run()
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	return res.Metric, metrics.Players(res.State, labels), nil
}

// character picks seat's character, rotating through the catalog per game
// unless the config names them.
func character(cfg config.Config, cat *catalog.Catalog, index, seat int) string {
	if len(cfg.Characters) > 0 {
		return cfg.Characters[seat%len(cfg.Characters)]
	}
	if len(cat.Characters) == 0 {
		return ""
	}
	return cat.Characters[(index+seat)%len(cat.Characters)].ID
}
