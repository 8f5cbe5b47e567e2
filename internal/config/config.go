// config.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// Package config loads the named runtime options of spec.md's §6
// "Runtime control" table into a Config struct, the way the teacher's
// sibling pack repo frankkopp/FrankyGo loads its engine configuration
// (internal/config/config.go: defaults pre-populated, then a TOML file
// decoded over them with github.com/BurntSushi/toml). Environment
// variables layer on top of the TOML file via github.com/joho/godotenv,
// the same library the teacher's own go-app/main.go uses to read
// ACCESS_KEY from a .env file for its App Engine front end.
//
// Loading a config never touches the KWG/KLV binary formats themselves
// (file I/O and lexicon data formats are external collaborators per
// spec.md §1) — it only resolves names (a lexicon name, a stopping
// condition keyword) to the in-memory collaborators the engine package
// expects a caller to hand it.
package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config carries exactly the named options of spec.md §6, plus the two
// board/variant fields the spec's Runtime control table lists alongside
// them.
type Config struct {
	Lex string `toml:"lex"`
	L1  string `toml:"l1"`
	L2  string `toml:"l2"`

	LetterDistribution string `toml:"ld"`
	BoardLayout        string `toml:"bdn"`
	Variant            string `toml:"var"`

	Sort1   string `toml:"s1"`
	Sort2   string `toml:"s2"`
	Record1 string `toml:"r1"`
	Record2 string `toml:"r2"`

	NumPlays int    `toml:"numplays"`
	Plies    int    `toml:"plies"`
	MaxIter  int    `toml:"i"`
	Cond     string `toml:"cond"`
	Threads  int    `toml:"threads"`
	RNGSeed  uint64 `toml:"rs"`

	Rack             string  `toml:"rack"`
	EquityMargin     float64 `toml:"eq"`
	ExchangeCount    int     `toml:"exch"`
	PlayerIndex      int     `toml:"pindex"`
	ObservedScore    int     `toml:"score"`
}

// Defaults returns a Config pre-populated with the values the engine
// would use if nothing else were specified: record-all move generation
// ranked by equity, top-20 moves, 2-ply simulation, no stopping
// condition, and a single worker thread.
func Defaults() *Config {
	return &Config{
		Lex:                "CSW21",
		LetterDistribution: "english",
		BoardLayout:        "CrosswordGame",
		Variant:            "classic",
		Sort1:              "equity",
		Sort2:              "equity",
		Record1:            "all",
		Record2:            "all",
		NumPlays:           20,
		Plies:              2,
		MaxIter:            800,
		Cond:               "none",
		Threads:            1,
		PlayerIndex:        0,
	}
}

// Load builds a Config starting from Defaults, overlays a TOML file at
// path (if it exists; a missing file is not an error, matching
// FrankyGo's own "config file not found, using defaults" tolerance),
// then overlays process environment variables loaded via godotenv (a
// .env file at envPath, if present) for the handful of options an
// operator most often wants to override per run without editing the
// TOML file: XWSKRAFL_LEX, XWSKRAFL_THREADS, XWSKRAFL_RS.
func Load(path, envPath string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	_ = godotenv.Load(envPath) // missing .env file is not an error

	if v := os.Getenv("XWSKRAFL_LEX"); v != "" {
		cfg.Lex = v
	}
	if v := os.Getenv("XWSKRAFL_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Threads = n
		}
	}
	if v := os.Getenv("XWSKRAFL_RS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.RNGSeed = n
		}
	}

	return cfg, nil
}
