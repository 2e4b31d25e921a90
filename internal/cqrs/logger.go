package cqrs

import (
	"github.com/ThreeDotsLabs/watermill"
	"go.uber.org/zap"

	"github.com/danghamo/lecturer-service/pkg/logger"
)

// zapLoggerAdapter routes watermill's logs through the service logger
type zapLoggerAdapter struct {
	log *logger.Logger
}

// NewWatermillLogger adapts log to watermill.LoggerAdapter
func NewWatermillLogger(log *logger.Logger) watermill.LoggerAdapter {
	return &zapLoggerAdapter{log: log.WithComponent("watermill")}
}

func (a *zapLoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(toZapFields(fields), zap.Error(err))...)
}

func (a *zapLoggerAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, toZapFields(fields)...)
}

func (a *zapLoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, toZapFields(fields)...)
}

// Trace is folded into debug; zap has no lower level
func (a *zapLoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, toZapFields(fields)...)
}

func (a *zapLoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &zapLoggerAdapter{log: a.log.WithFields(fields)}
}

func toZapFields(fields watermill.LogFields) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return zapFields
}
