// Package logging provides the context-carried logger facade used
// throughout temporalcore. Nothing in the core calls a global logger
// directly; every component pulls its logger out of a context.Context
// that was threaded in from the composition root.
package logging

import (
	"context"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the minimal structured-logging surface the core depends on.
type Logger interface {
	Debug(msg string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(msg string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(msg string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(msg string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// GetContextLoggerFunc returns the Logger for the module it was created
// for, pulling it out of ctx (or falling back to the null logger).
type GetContextLoggerFunc func(ctx context.Context) Logger

type loggerKey struct{ module string }

// Module returns a GetContextLoggerFunc scoped to the given module name.
// Every package calls logging.Module("temporalcore/xxx") once at init
// and uses the returned accessor everywhere it needs a logger.
func Module(name string) GetContextLoggerFunc {
	key := loggerKey{module: name}
	return func(ctx context.Context) Logger {
		if l, ok := ctx.Value(key).(Logger); ok && l != nil {
			return l
		}
		return NullLogger
	}
}

// WithLogger attaches l to ctx for every module whose GetContextLoggerFunc
// was produced by Module with a module name in modules. When modules is
// empty, WithLogger has no effect (module loggers still resolve to NullLogger).
func WithLogger(ctx context.Context, modules []string, l Logger) context.Context {
	for _, m := range modules {
		ctx = context.WithValue(ctx, loggerKey{module: m}, l)
	}
	return ctx
}

// zapLogger adapts *zap.SugaredLogger to the Logger interface.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (z *zapLogger) Debug(msg string, args ...interface{})           { z.s.Debugf(msg, args...) }
func (z *zapLogger) Debugw(msg string, keysAndValues ...interface{}) { z.s.Debugw(msg, keysAndValues...) }
func (z *zapLogger) Info(msg string, args ...interface{})            { z.s.Infof(msg, args...) }
func (z *zapLogger) Infow(msg string, keysAndValues ...interface{})  { z.s.Infow(msg, keysAndValues...) }
func (z *zapLogger) Warn(msg string, args ...interface{})            { z.s.Warnf(msg, args...) }
func (z *zapLogger) Warnw(msg string, keysAndValues ...interface{})  { z.s.Warnw(msg, keysAndValues...) }
func (z *zapLogger) Error(msg string, args ...interface{})           { z.s.Errorf(msg, args...) }
func (z *zapLogger) Errorw(msg string, keysAndValues ...interface{}) { z.s.Errorw(msg, keysAndValues...) }

// NewZapLogger wraps a *zap.Logger for use as a core Logger. This is the
// production composition root's default backend.
func NewZapLogger(z *zap.Logger) Logger {
	return &zapLogger{s: z.Sugar()}
}

// ToWriter builds a Logger that writes plain lines to w, for test
// harnesses and the CLI's non-interactive mode.
func ToWriter(w io.Writer) Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), zapcore.DebugLevel)
	return NewZapLogger(zap.New(core))
}

// Broadcast fans every call out to all of ls.
func Broadcast(ls ...Logger) Logger {
	return broadcastLogger(ls)
}

type broadcastLogger []Logger

func (b broadcastLogger) Debug(msg string, args ...interface{}) {
	for _, l := range b {
		l.Debug(msg, args...)
	}
}
func (b broadcastLogger) Debugw(msg string, kv ...interface{}) {
	for _, l := range b {
		l.Debugw(msg, kv...)
	}
}
func (b broadcastLogger) Info(msg string, args ...interface{}) {
	for _, l := range b {
		l.Info(msg, args...)
	}
}
func (b broadcastLogger) Infow(msg string, kv ...interface{}) {
	for _, l := range b {
		l.Infow(msg, kv...)
	}
}
func (b broadcastLogger) Warn(msg string, args ...interface{}) {
	for _, l := range b {
		l.Warn(msg, args...)
	}
}
func (b broadcastLogger) Warnw(msg string, kv ...interface{}) {
	for _, l := range b {
		l.Warnw(msg, kv...)
	}
}
func (b broadcastLogger) Error(msg string, args ...interface{}) {
	for _, l := range b {
		l.Error(msg, args...)
	}
}
func (b broadcastLogger) Errorw(msg string, kv ...interface{}) {
	for _, l := range b {
		l.Errorw(msg, kv...)
	}
}

type nullLogger struct{}

func (nullLogger) Debug(string, ...interface{})  {}
func (nullLogger) Debugw(string, ...interface{}) {}
func (nullLogger) Info(string, ...interface{})   {}
func (nullLogger) Infow(string, ...interface{})  {}
func (nullLogger) Warn(string, ...interface{})   {}
func (nullLogger) Warnw(string, ...interface{})  {}
func (nullLogger) Error(string, ...interface{})  {}
func (nullLogger) Errorw(string, ...interface{}) {}

// NullLogger discards everything. It is the default when no logger has
// been attached to a context.
var NullLogger Logger = nullLogger{}
