package logger

import (
	"go.uber.org/zap"
)

// New builds the application logger. Production gets JSON output at info level,
// every other environment gets the human readable development encoder.
func New(environment string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if environment == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return l
}
