package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Level(t *testing.T) {
	l, err := New(Config{Level: "WARN", Service: "linkpulse"})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info must be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatal("error must be enabled at warn level")
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := New(Config{Encoding: "xml"}); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}

func TestL_BeforeInit(t *testing.T) {
	if L() == nil {
		t.Fatal("L must never return nil")
	}
}

func TestLevelColor(t *testing.T) {
	if levelColor(zapcore.WarnLevel) != colorYellow {
		t.Fatal("warn should be yellow")
	}
	if levelColor(zapcore.InfoLevel) != colorGreen {
		t.Fatal("info should be green")
	}
}
