package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"warkop-survey/internal/domain/model"
)

// Config holds the recognized run parameters. Values come from the
// environment (the entrypoint loads a .env file first); defaults match the
// reference Surabaya run. Secrets (API key, database credentials) are read
// by the constructors that need them, not here.
type Config struct {
	RegionGeoJSON  string `env:"REGION_GEOJSON" env-default:"data/surabaya.geojson"`
	RegionName     string `env:"REGION_NAME" env-default:"Surabaya"`
	GridCols       int    `env:"GRID_COLS" env-default:"10"`
	GridRows       int    `env:"GRID_ROWS" env-default:"10"`
	SamplesPerCell int    `env:"SAMPLES_PER_CELL" env-default:"5"`
	RadiusMeters   int    `env:"SEARCH_RADIUS_METERS" env-default:"350"`
	Keyword        string `env:"SEARCH_KEYWORD" env-default:"warkop"`
	Seed           int64  `env:"RANDOM_SEED" env-default:"0"`
	Parallel       bool   `env:"PARALLEL_QUERIES" env-default:"false"`
	OutputCSV      string `env:"OUTPUT_CSV" env-default:"warkop_results_10x10.csv"`
	ServerMode     bool   `env:"SERVER_MODE" env-default:"false"`
	Port           string `env:"PORT" env-default:"8080"`
}

// Load reads and validates the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	if cfg.GridCols <= 0 || cfg.GridRows <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive (got %dx%d)", cfg.GridCols, cfg.GridRows)
	}
	if cfg.SamplesPerCell < 0 {
		return nil, fmt.Errorf("samples per cell must not be negative (got %d)", cfg.SamplesPerCell)
	}
	if cfg.RadiusMeters <= 0 {
		return nil, fmt.Errorf("search radius must be positive (got %d)", cfg.RadiusMeters)
	}
	if cfg.Keyword == "" {
		return nil, fmt.Errorf("search keyword must not be empty")
	}
	return &cfg, nil
}

// ToParams converts the configuration into run parameters, resolving a
// zero seed to the clock so unseeded runs still vary.
func (c *Config) ToParams() model.SurveyParams {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return model.SurveyParams{
		GridCols:       c.GridCols,
		GridRows:       c.GridRows,
		SamplesPerCell: c.SamplesPerCell,
		RadiusMeters:   c.RadiusMeters,
		Keyword:        c.Keyword,
		Seed:           seed,
		Parallel:       c.Parallel,
	}
}
