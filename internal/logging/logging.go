// Package logging configures the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
)

// New builds a sugared logger. Debug mode uses the development config at
// debug level; otherwise production config at warn level so only policy
// warnings and failures reach the console.
func New(debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
