package dianabot

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dianabot/dianabot/dianabot/database"
	"github.com/dianabot/dianabot/dianabot/narrative"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log       LogConfig         `toml:"log"`
	Bot       BotConfig         `toml:"bot"`
	DB        database.DBConfig `toml:"db"`
	Narrative NarrativeConfig   `toml:"narrative"`
}

type BotConfig struct {
	Token    string  `toml:"token"`
	AdminIDs []int64 `toml:"admin_ids"`
	SeedDemo bool    `toml:"seed_demo"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

// NarrativeConfig overrides the classifier heuristics. Zero values fall back
// to the defaults.
type NarrativeConfig struct {
	ImpulsiveMaxSeconds      float64 `toml:"impulsive_max_seconds"`
	IntermediateSplitSeconds float64 `toml:"intermediate_split_seconds"`
	ContemplativeMinSeconds  float64 `toml:"contemplative_min_seconds"`
	SilentMinSeconds         float64 `toml:"silent_min_seconds"`
}

// ClassifierConfig materializes the configured thresholds over the defaults.
func (nc NarrativeConfig) ClassifierConfig() *narrative.ClassifierConfig {
	cfg := narrative.DefaultClassifierConfig()
	if nc.ImpulsiveMaxSeconds > 0 {
		cfg.ImpulsiveMaxSeconds = nc.ImpulsiveMaxSeconds
	}
	if nc.IntermediateSplitSeconds > 0 {
		cfg.IntermediateSplitSeconds = nc.IntermediateSplitSeconds
	}
	if nc.ContemplativeMinSeconds > 0 {
		cfg.ContemplativeMinSeconds = nc.ContemplativeMinSeconds
	}
	if nc.SilentMinSeconds > 0 {
		cfg.SilentMinSeconds = nc.SilentMinSeconds
	}
	return cfg
}
