package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	grovelogging "github.com/mattsolo1/grove-core/logging"
	"github.com/sirupsen/logrus"
)

// newLogger returns a component logger at the configured level.
func newLogger(cfg *ProtalkerConfig, component string) *logrus.Entry {
	log := grovelogging.NewLogger(component)
	if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.Logger.SetLevel(lvl)
	}
	return log
}

// redirectLogsToFile sends log output to the configured file while a TUI owns
// the terminal. The returned func restores the previous output.
func redirectLogsToFile(cfg *ProtalkerConfig) (func(), error) {
	if cfg.Log.File == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	previous := grovelogging.GetGlobalOutput()
	previousStd := logrus.StandardLogger().Out
	grovelogging.SetGlobalOutput(f)
	// Package defaults log through the standard logrus logger.
	logrus.SetOutput(f)
	return func() {
		grovelogging.SetGlobalOutput(previous)
		logrus.SetOutput(previousStd)
		f.Close()
	}, nil
}
