package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	// DataDir holds the scraper's tournament JSON files.
	DataDir string
	// OutputDir receives the exported rankings and match histories.
	OutputDir string
	// SeedDBPath is the SQLite file seed ratings are persisted in.
	SeedDBPath string
	LogLevel   string

	// Pre-filters applied before any match reaches the engine.
	Season          string
	MainCircuitOnly bool

	// SeedingSlugs names the tournaments forming the seeding corpus.
	// Empty disables the seeding passes.
	SeedingSlugs []string

	// ConfidenceThresholdFactor decides when a ranking row counts as
	// established: confidence >= population average * factor. The source
	// circuit ran variants at 2/3 and 1, so this stays a policy knob.
	ConfidenceThresholdFactor float64
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DataDir:         getEnv("DATA_DIR", "data/tournaments"),
		OutputDir:       getEnv("OUTPUT_DIR", "output"),
		SeedDBPath:      getEnv("SEED_DB_PATH", "seeds.db"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Season:          getEnv("SEASON", ""),
		MainCircuitOnly: getEnvBool("MAIN_CIRCUIT_ONLY", false),
		SeedingSlugs:    splitList(getEnv("SEEDING_SLUGS", "")),
	}

	rawFactor := getEnv("CONFIDENCE_THRESHOLD_FACTOR", "0.6667")
	factor, err := strconv.ParseFloat(rawFactor, 64)
	if err != nil || factor < 0 {
		return nil, fmt.Errorf("invalid CONFIDENCE_THRESHOLD_FACTOR %q", rawFactor)
	}
	cfg.ConfidenceThresholdFactor = factor

	if cfg.DataDir == "" {
		return nil, fmt.Errorf("DATA_DIR is required")
	}

	logger.Info().
		Str("data_dir", cfg.DataDir).
		Str("output_dir", cfg.OutputDir).
		Str("seed_db_path", cfg.SeedDBPath).
		Str("season", cfg.Season).
		Bool("main_circuit_only", cfg.MainCircuitOnly).
		Int("seeding_slugs", len(cfg.SeedingSlugs)).
		Float64("confidence_threshold_factor", cfg.ConfidenceThresholdFactor).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var Module = fx.Provide(Load)
