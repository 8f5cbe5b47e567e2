// log.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// Package logging wraps github.com/op/go-logging, grounded directly on
// the teacher's sibling pack repo frankkopp/FrankyGo's
// franky_logging/log.go (MustGetLogger + a leveled, formatted stdout
// backend). The move generator, simulator, and inference engine each
// obtain a named logger ("movegen", "simmer", "infer") via Get and log
// at DEBUG for per-anchor / per-iteration detail and INFO for phase
// boundaries; logging is never wired into the hot path of the
// generator's recursive_gen-equivalent, only at anchor/iteration
// granularity, per SPEC_FULL.md's Logging section.
package logging

import (
	"os"
	"sync"

	logging "github.com/op/go-logging"
)

var (
	once    sync.Once
	backend logging.LeveledBackend
)

// Level aliases github.com/op/go-logging's Level so callers never need
// to import that package directly just to pass a level to SetLevel.
type Level = logging.Level

const (
	DEBUG    = logging.DEBUG
	INFO     = logging.INFO
	NOTICE   = logging.NOTICE
	WARNING  = logging.WARNING
	ERROR    = logging.ERROR
	CRITICAL = logging.CRITICAL
)

// DefaultFormat matches the teacher's own franky_logging format string.
const DefaultFormat = `%{time:15:04:05.000} %{shortfile}:%{shortfunc} %{level:7s}:  %{message}`

func setup() {
	format := logging.MustStringFormatter(DefaultFormat)
	stdoutBackend := logging.NewLogBackend(os.Stdout, "", 0)
	formatted := logging.NewBackendFormatter(stdoutBackend, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	backend = leveled
	logging.SetBackend(backend)
}

// SetLevel sets the log level for module (or every module, if module is
// "").
func SetLevel(level logging.Level, module string) {
	once.Do(setup)
	backend.SetLevel(level, module)
}

// Get returns a named logger, initializing the shared backend on first
// use.
func Get(name string) *logging.Logger {
	once.Do(setup)
	return logging.MustGetLogger(name)
}
