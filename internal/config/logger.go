package config

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// InitLogger builds a development logger in development, a production one
// otherwise.
func InitLogger(conf *Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if conf.Development() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize zap logger")
	}
	return logger, nil
}
