// Package config provides runtime configuration values for the service.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds configuration knobs for HTTP server, workers and the day feed.
type Config struct {
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout         time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	DayDrainTimeout         time.Duration `env:"DAY_DRAIN_TIMEOUT" envDefault:"5s"`
	InitialWorkerCount      int           `env:"WORKER_COUNT"`
	WorkerMin               int           `env:"WORKER_MIN" envDefault:"3"`
	WorkerMax               int           `env:"WORKER_MAX" envDefault:"8"`
	ScaleInterval           time.Duration `env:"SCALE_INTERVAL" envDefault:"500ms"`
	ScaleUpBacklogPerWorker int           `env:"SCALE_UP_BACKLOG_PER_WORKER" envDefault:"100"`
	ScaleDownIdleTicks      int           `env:"SCALE_DOWN_IDLE_TICKS" envDefault:"6"`
	QueueHighWatermark      int           `env:"QUEUE_HIGH_WATERMARK" envDefault:"5000"`
	FeedBuffer              int           `env:"FEED_BUFFER" envDefault:"16"`
	LogLevel                slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
}

// Load reads an optional .env file, then collects configuration from the
// process environment with defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom collects configuration from the given environment map.
func LoadFrom(environ map[string]string) (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.InitialWorkerCount <= 0 {
		c.InitialWorkerCount = c.WorkerMin
	}
	if c.WorkerMax < c.WorkerMin {
		return Config{}, fmt.Errorf("WORKER_MAX (%d) is below WORKER_MIN (%d)", c.WorkerMax, c.WorkerMin)
	}
	if c.ScaleInterval <= 0 {
		return Config{}, fmt.Errorf("SCALE_INTERVAL must be positive, got %s", c.ScaleInterval)
	}
	return c, nil
}
