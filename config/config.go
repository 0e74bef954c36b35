package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is loaded from config.toml. Database credentials come from the
// environment (see db.Open), everything else lives here.
type Config struct {
	IVAO     IVAOConfig     `toml:"ivao"`
	Airports AirportsConfig `toml:"airports"`
	Tracker  TrackerConfig  `toml:"tracker"`
	Log      LogConfig      `toml:"log"`
}

type IVAOConfig struct {
	WhazzupURL string `toml:"whazzup_url"`
}

type AirportsConfig struct {
	URL               string `toml:"url"`
	SyncIntervalHours int    `toml:"sync_interval_hours"`
}

type TrackerConfig struct {
	IntervalSeconds int `toml:"interval_seconds"`
	ListenAddr      string `toml:"listen_addr"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func defaults() *Config {
	return &Config{
		IVAO: IVAOConfig{
			WhazzupURL: "https://api.ivao.aero/v2/tracker/whazzup",
		},
		Airports: AirportsConfig{
			URL:               "https://davidmegginson.github.io/ourairports-data/airports.csv",
			SyncIntervalHours: 24,
		},
		Tracker: TrackerConfig{
			IntervalSeconds: 15,
			ListenAddr:      ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the TOML file at path, falling back to defaults when the
// file does not exist.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}
