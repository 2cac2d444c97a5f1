package fbadger

import (
	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// zapLogger sends badger's own log lines through zap.
type zapLogger struct {
	s *zap.SugaredLogger
}

var _ badger.Logger = zapLogger{}

func (z zapLogger) Errorf(format string, args ...interface{}) {
	z.s.Errorf(format, args...)
}

func (z zapLogger) Warningf(format string, args ...interface{}) {
	z.s.Warnf(format, args...)
}

func (z zapLogger) Infof(format string, args ...interface{}) {
	z.s.Debugf(format, args...)
}

func (z zapLogger) Debugf(format string, args ...interface{}) {
	z.s.Debugf(format, args...)
}
