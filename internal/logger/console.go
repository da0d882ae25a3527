package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Console receives formatted log lines. It fails when the host UI is unavailable.
type Console interface {
	SetConsoleInfo(line string) error
}

// ConsoleSink forwards the messages of log entries at or above a level to a host
// console. Structured fields stay in the process log. Console failures are dropped so
// logging never aborts a run.
type ConsoleSink struct {
	console Console
	level   zapcore.LevelEnabler
}

// NewConsoleSink creates a sink for console at level.
func NewConsoleSink(console Console, level zapcore.LevelEnabler) *ConsoleSink {
	return &ConsoleSink{console: console, level: level}
}

// Attach returns l with the sink installed. Attaching a sink to a logger that
// already carries it returns l unchanged.
func (s *ConsoleSink) Attach(l *zap.Logger) *zap.Logger {
	for c := l.Core(); ; {
		cc, ok := c.(*consoleCore)
		if !ok {
			break
		}
		if cc.sink == s {
			return l
		}
		c = cc.inner
	}
	return l.WithOptions(zap.WrapCore(func(inner zapcore.Core) zapcore.Core {
		return &consoleCore{inner: inner, sink: s}
	}))
}

// consoleCore delegates to inner and adds itself to checked entries the sink accepts.
// Its Write only reaches the console.
type consoleCore struct {
	inner zapcore.Core
	sink  *ConsoleSink
}

func (c *consoleCore) Enabled(lvl zapcore.Level) bool {
	return c.inner.Enabled(lvl) || c.sink.level.Enabled(lvl)
}

func (c *consoleCore) With(fields []zapcore.Field) zapcore.Core {
	return &consoleCore{inner: c.inner.With(fields), sink: c.sink}
}

func (c *consoleCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	ce = c.inner.Check(ent, ce)
	if c.sink.level.Enabled(ent.Level) {
		ce = ce.AddCore(ent, c)
	}
	return ce
}

func (c *consoleCore) Write(ent zapcore.Entry, _ []zapcore.Field) error {
	_ = c.sink.console.SetConsoleInfo(ent.Message)
	return nil
}

func (c *consoleCore) Sync() error {
	return c.inner.Sync() //nolint:wrapcheck // delegating to the wrapped core
}
