package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// config holds the harness defaults, decoded from banyan.toml and then
// overridden by any flag the user set explicitly.
type config struct {
	Corpus   []string `toml:"corpus"`
	Ruby     string   `toml:"ruby"`
	Bridge   string   `toml:"bridge"`
	Fixtures string   `toml:"fixtures"`
	Version  string   `toml:"version"`
	Engine   string   `toml:"engine"`
	Ranges   bool     `toml:"ranges"`
	Jobs     int      `toml:"jobs"`
	DB       string   `toml:"db"`
}

func defaultConfig() *config {
	return &config{
		Ruby:    "ruby",
		Bridge:  "tools/parse.rb",
		Version: "3.1.0",
		Engine:  "mri",
	}
}

// loadConfig reads path, or banyan.toml in the working directory when no
// path is given and the file exists.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		if _, err := os.Stat("banyan.toml"); err != nil {
			return cfg, nil
		}
		path = "banyan.toml"
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Ruby == "" {
		cfg.Ruby = "ruby"
	}
	if cfg.Bridge == "" {
		cfg.Bridge = "tools/parse.rb"
	}
	return cfg, nil
}

// apply overrides config values with flags the user set explicitly.
func (c *config) apply(flags *pflag.FlagSet) {
	set := map[string]func(){
		"ruby":     func() { c.Ruby = flagRuby },
		"bridge":   func() { c.Bridge = flagBridge },
		"fixtures": func() { c.Fixtures = flagFixtures },
		"version":  func() { c.Version = flagVersion },
		"engine":   func() { c.Engine = flagEngine },
		"ranges":   func() { c.Ranges = flagRanges },
		"jobs":     func() { c.Jobs = flagJobs },
		"db":       func() { c.DB = flagDB },
	}
	for name, assign := range set {
		if flags.Changed(name) {
			assign()
		}
	}
}

// corpusLabel names the corpus selection for run records.
func (c *config) corpusLabel() string {
	if len(c.Corpus) == 0 {
		return "testdata/corpus"
	}
	return strings.Join(c.Corpus, ",")
}
