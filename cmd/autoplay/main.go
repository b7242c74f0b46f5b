// Command autoplay plays 2048 episodes against the in-memory surface and
// reports win rate, score range and milestone tile counts.
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"lukechampine.com/frand"

	"tilemerge/internal/app"
	"tilemerge/internal/bot"
	"tilemerge/internal/config"
	"tilemerge/internal/domain"
	"tilemerge/internal/logging"
)

type options struct {
	runs       int
	algorithm  string
	heuristic  string
	depth      int
	seed       uint64
	cont       bool
	maxMoves   int
	configPath string
	level      string
	parallel   bool
}

func main() {
	var opts options
	flag.IntVar(&opts.runs, "runs", 1, "number of episodes to play")
	flag.StringVar(&opts.algorithm, "algorithm", "", "alphabeta or expectimax (default from config)")
	flag.StringVar(&opts.heuristic, "heuristic", "", "CORNER, CORNERS or SNAKE (default from config)")
	flag.IntVar(&opts.depth, "depth", 0, "search depth; 0 uses the configured depth")
	flag.Uint64Var(&opts.seed, "seed", 0, "tile spawn seed; 0 picks a random seed")
	flag.BoolVar(&opts.cont, "continue", false, "keep playing after reaching 2048")
	flag.IntVar(&opts.maxMoves, "max-moves", 0, "end an episode after this many moves; 0 means no cap")
	flag.StringVar(&opts.configPath, "config", "", "path to a search config JSON file")
	flag.StringVar(&opts.level, "level", "info", "log level")
	flag.BoolVar(&opts.parallel, "parallel", true, "search root moves in parallel")
	flag.Parse()

	level, err := logging.ParseLevel(opts.level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "autoplay: %v\n", err)
		os.Exit(2)
	}
	logger := logging.NewConsole(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, opts); err != nil {
		logger.Error("autoplay: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *logging.Logger, opts options) error {
	if opts.configPath != "" {
		if err := config.LoadSearchConfig(opts.configPath); err != nil {
			return err
		}
	}
	cfg := config.GetSearchConfig()

	profile := bot.AgentProfile{
		DisplayName: "autoplay",
		Algorithm:   opts.algorithm,
		Heuristic:   opts.heuristic,
		Depth:       opts.depth,
		Parallel:    opts.parallel,
		Memo:        cfg.Memo,
		FixedDepth:  cfg.FixedDepth,
		NodeBudget:  cfg.NodeBudget,
	}
	if profile.Algorithm == "" {
		profile.Algorithm = cfg.Algorithm
	}
	if profile.Heuristic == "" {
		profile.Heuristic = cfg.Heuristic
	}
	if profile.Depth == 0 {
		algorithm, err := bot.ParseAlgorithm(profile.Algorithm)
		if err != nil {
			return err
		}
		profile.Depth = cfg.DepthFor(algorithm.String())
	}
	agent, err := bot.NewAgent(profile)
	if err != nil {
		return err
	}

	svc := app.NewService(newRNG(opts.seed))
	surface := app.NewSimulatedSurface(svc)
	surface.OnEvents = func(events []app.Event) {
		for _, ev := range events {
			if ev.Kind == app.EventGameWon {
				p := ev.Payload.(app.GameWonPayload)
				logger.Debug("autoplay: won after %d moves with score %d", p.Moves, p.Score)
			}
		}
	}

	logger.WithFields(map[string]interface{}{
		"algorithm": agent.Strategy.Name(),
		"heuristic": agent.Heuristic.String(),
		"depth":     agent.Depth,
		"runs":      opts.runs,
	}).Info("autoplay: starting")

	runner := app.NewRunner(surface, surface, agent, logger)
	_, err = runner.Run(ctx, app.RunOptions{
		Runs:             opts.runs,
		ContinueAfterWin: opts.cont,
		MaxMoves:         opts.maxMoves,
	}, domain.RunStats{})
	return err
}

// newRNG returns a reproducible generator for a non-zero seed.
func newRNG(seed uint64) *frand.RNG {
	if seed == 0 {
		return frand.New()
	}
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, seed)
	return frand.NewCustom(key, 1024, 12)
}
