package main

import (
	"context"
	"flag"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/viewer"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
)

func main() {
	configPath := flag.String("config", "config/flock.json", "Path to a JSON or YAML flock config (empty = use defaults)")
	schemaPath := flag.String("schema", "config/flock.schema.json", "Path to the config JSON schema")
	seed := flag.Int64("seed", -1, "RNG seed (-1 = use config)")
	debug := flag.Bool("debug", false, "Log every tick")
	flag.Parse()

	level := log.InfoLevel
	if *debug {
		level = log.DebugLevel
	}
	logger := log.New(level, os.Stdout)

	params := flock.DefaultParams()
	if *configPath != "" {
		var err error
		if params, err = flock.LoadConfig(*configPath, *schemaPath); err != nil {
			logger.Fatalf("failed to load config: %v", err)
		}
	}
	if *seed >= 0 {
		params.Seed = uint64(*seed)
	}

	ctx := context.Background()
	system, err := actor.NewActorSystem("FlockViewer",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		logger.Fatalf("failed to create actor system: %v", err)
	}
	if err := system.Start(ctx); err != nil {
		logger.Fatalf("failed to start actor system: %v", err)
	}
	defer func() { _ = system.Stop(ctx) }()

	appearance := viewer.NewAppearance(color.RGBA{R: 255, G: 170, B: 60, A: 255})
	game, err := viewer.NewGame(ctx, system, params, appearance)
	if err != nil {
		logger.Fatalf("failed to start viewer: %v", err)
	}

	ebiten.SetWindowSize(viewer.ScreenWidth, viewer.ScreenHeight)
	ebiten.SetWindowTitle("Flock")
	if err := ebiten.RunGame(game); err != nil {
		logger.Error(err)
	}
}
