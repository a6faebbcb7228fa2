package logger_adapter

import (
	"errors"
	"session-service/internal/core/port"
)

var errNoLoggers = errors.New("multilogger: no loggers configured")

// fanoutLogger пишет каждую запись во все приемники по порядку: stdout, затем Fluent Bit.
type fanoutLogger []port.LoggerPort

// NewMultiloggerAdapter пропускает nil-приемники, например выключенный Fluent Bit.
func NewMultiloggerAdapter(loggers ...port.LoggerPort) (port.LoggerPort, error) {
	sinks := make(fanoutLogger, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			sinks = append(sinks, l)
		}
	}
	if len(sinks) == 0 {
		return nil, errNoLoggers
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return sinks, nil
}

func (f fanoutLogger) each(write func(port.LoggerPort)) {
	for _, sink := range f {
		write(sink)
	}
}

func (f fanoutLogger) Debug(msg string, fields port.Fields) {
	f.each(func(l port.LoggerPort) { l.Debug(msg, fields) })
}

func (f fanoutLogger) Info(msg string, fields port.Fields) {
	f.each(func(l port.LoggerPort) { l.Info(msg, fields) })
}

func (f fanoutLogger) Warn(msg string, fields port.Fields) {
	f.each(func(l port.LoggerPort) { l.Warn(msg, fields) })
}

func (f fanoutLogger) Error(msg string, err error, fields port.Fields) {
	f.each(func(l port.LoggerPort) { l.Error(msg, err, fields) })
}

func (f fanoutLogger) WithFields(fields port.Fields) port.LoggerPort {
	child := make(fanoutLogger, 0, len(f))
	f.each(func(l port.LoggerPort) { child = append(child, l.WithFields(fields)) })
	return child
}
