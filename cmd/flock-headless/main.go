package main

import (
	"flag"
	"os"
	"time"

	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to a JSON or YAML flock config (empty = use defaults)")
	schemaPath := flag.String("schema", "config/flock.schema.json", "Path to the config JSON schema")
	outputDir := flag.String("out", "runs/latest", "Output directory for telemetry.csv and config.yaml")
	ticks := flag.Int("ticks", 3600, "Number of ticks to run")
	dt := flag.Float64("dt", 1.0/60, "Seconds per tick (clamped by maxTimestep)")
	every := flag.Int("every", 1, "Write one telemetry row every N ticks")
	seed := flag.Int64("seed", -1, "RNG seed (-1 = use config)")
	debug := flag.Bool("debug", false, "Log every tick")
	flag.Parse()

	level := log.InfoLevel
	if *debug {
		level = log.DebugLevel
	}
	logger := log.New(level, os.Stderr)

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
	if *every < 1 {
		*every = 1
	}

	f, err := flock.New(params, flock.Appearance{}, flock.NewRand(params.Seed), logger)
	if err != nil {
		logger.Fatalf("failed to create flock: %v", err)
	}

	out, err := telemetry.NewOutput(*outputDir)
	if err != nil {
		logger.Fatalf("failed to open output: %v", err)
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Errorf("failed to close telemetry: %v", err)
		}
	}()
	if err := out.WriteConfig(params); err != nil {
		logger.Fatalf("failed to save config: %v", err)
	}

	logger.Infof("running %d ticks of %.4fs with seed %d", *ticks, *dt, params.Seed)
	start := time.Now()
	for i := 1; i <= *ticks; i++ {
		f.Tick(*dt)
		if i%*every != 0 && i != *ticks {
			continue
		}
		if err := out.Write(telemetry.Compute(f.Snapshot())); err != nil {
			logger.Errorf("telemetry write failed: %v", err)
			return
		}
	}

	final := telemetry.Compute(f.Snapshot())
	logger.Infof("done in %s: %d rows in %s, simulated %.1fs, polarization %.2f, spread %.1f",
		time.Since(start).Round(time.Millisecond), out.Rows(), out.Dir(), final.SimTime, final.Polarization, final.Spread)
}
