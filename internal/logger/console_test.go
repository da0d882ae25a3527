package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeConsole struct {
	lines []string
	err   error
}

func (f *fakeConsole) SetConsoleInfo(line string) error {
	f.lines = append(f.lines, line)
	return f.err
}

func TestConsoleSink_ForwardsMessages(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	console := &fakeConsole{}
	l := NewConsoleSink(console, zapcore.InfoLevel).Attach(zap.New(core))

	l.Info("Product abc - summary")
	l.Debug("query kwargs")

	if len(console.lines) != 1 {
		t.Fatalf("expected 1 console line, got %d: %v", len(console.lines), console.lines)
	}
	if console.lines[0] != "Product abc - summary" {
		t.Errorf("line = %q", console.lines[0])
	}
	if logs.Len() != 2 {
		t.Errorf("inner core got %d entries, want 2", logs.Len())
	}
}

func TestConsoleSink_AttachIsIdempotent(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	console := &fakeConsole{}
	sink := NewConsoleSink(console, zapcore.InfoLevel)

	l := sink.Attach(zap.New(core))
	l = sink.Attach(l)
	l.Info("once")

	if len(console.lines) != 1 {
		t.Errorf("expected exactly one forwarder, console got %d lines", len(console.lines))
	}
}

func TestConsoleSink_AttachAfterWith(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	console := &fakeConsole{}
	sink := NewConsoleSink(console, zapcore.InfoLevel)

	l := sink.Attach(zap.New(core)).With(zap.String("run", "r1"))
	l = sink.Attach(l)
	l.Info("hello", zap.Int("n", 3))

	if len(console.lines) != 1 {
		t.Fatalf("expected 1 line, got %v", console.lines)
	}
	if console.lines[0] != "hello" {
		t.Errorf("console must get the bare message, got %q", console.lines[0])
	}
}

func TestConsoleSink_DropsFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	console := &fakeConsole{}
	l := NewConsoleSink(console, zapcore.InfoLevel).Attach(zap.New(core))

	l.Info("footprints written", zap.String("path", "/tmp/out.geojson"), zap.Int("features", 2))

	if len(console.lines) != 1 || console.lines[0] != "footprints written" {
		t.Errorf("unexpected console lines %q", console.lines)
	}
	entries := logs.All()
	if len(entries) != 1 || entries[0].ContextMap()["path"] != "/tmp/out.geojson" {
		t.Errorf("fields must still reach the process log: %+v", entries)
	}
}

func TestConsoleSink_SwallowsConsoleErrors(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	console := &fakeConsole{err: errors.New("wrapped C/C++ object has been deleted")}
	l := NewConsoleSink(console, zapcore.InfoLevel).Attach(zap.New(core))

	l.Info("still logged")
	l.Warn("and again")

	if logs.Len() != 2 {
		t.Errorf("inner core got %d entries, want 2", logs.Len())
	}
	if len(console.lines) != 2 {
		t.Errorf("console saw %d attempts, want 2", len(console.lines))
	}
}

func TestConsoleSink_SugaredLogger(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	console := &fakeConsole{}
	l := NewConsoleSink(console, zapcore.InfoLevel).Attach(zap.New(core))

	l.Sugar().Infof("%d scenes found with a total size of %.2f GB", 2, 1.5)

	if len(console.lines) != 1 || console.lines[0] != "2 scenes found with a total size of 1.50 GB" {
		t.Errorf("unexpected console lines %v", console.lines)
	}
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"local", "dev", "prod"} {
		l, err := NewLogger(env, "debug")
		if err != nil {
			t.Fatalf("NewLogger(%q): %v", env, err)
		}
		if !l.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("%s: debug level override not applied", env)
		}
	}

	if _, err := NewLogger("staging"); err == nil {
		t.Error("expected error for unknown env")
	}
	if _, err := NewLogger("local", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}
