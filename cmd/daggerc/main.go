package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

const appName = "daggerc"

var (
	cfg    config
	logger *zap.Logger
)

func main() {
	cfg = loadConfig()

	var err error
	logger, err = newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, appName+": logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

// newLogger builds the process logger: human-readable development
// output under DAGGERC_DEBUG, JSON production output otherwise.
func newLogger(cfg config) (*zap.Logger, error) {
	if cfg.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
