// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	instance *zap.SugaredLogger
	mtx      sync.RWMutex
)

func init() {
	instance = zap.NewNop().Sugar()
}

// Config for logger
type Config struct {
	Debug bool
	Level zapcore.Level
}

// New creates a development logger in debug mode, production logger otherwise
func New(cfg Config) (*zap.SugaredLogger, error) {
	var (
		inst *zap.Logger
		err  error
	)
	if cfg.Debug {
		inst, err = zap.NewDevelopment()
	} else {
		inst, err = zap.NewProduction(zap.IncreaseLevel(cfg.Level))
	}
	if err != nil {
		return nil, err
	}
	return inst.Sugar(), nil
}

// Set replaces the global logger
func Set(l *zap.SugaredLogger) {
	mtx.Lock()
	defer mtx.Unlock()
	instance = l
}

// I returns the global logger, a no-op logger until Set is called
func I() *zap.SugaredLogger {
	mtx.RLock()
	defer mtx.RUnlock()
	return instance
}

// Sync flushes buffered log entries of the global logger
func Sync() error {
	return I().Sync()
}
