package match

import "go.uber.org/zap"

var logger = zap.Must(zap.NewProduction())

// SetLogger allows setting a custom logger. The matcher hot path never
// logs; only setup, shutdown and pin failures reach the logger.
func SetLogger(l *zap.Logger) {
	logger = l
}
