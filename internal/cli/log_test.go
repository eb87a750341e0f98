package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/infinityflow/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("x") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("x") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("x") }, true},
		{"warn at error", log.ErrorLevel, func(l *log.Logger) { l.Warn("x") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("laid out 4 nodes")
	out := buf.String()
	if !strings.Contains(out, "laid out 4 nodes (") {
		t.Errorf("output = %q, want message with elapsed time", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield log.Default()")
	}
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext did not return the attached logger")
	}
}

func TestDebugHooks(t *testing.T) {
	var buf bytes.Buffer
	installDebugHooks(newLogger(&buf, log.DebugLevel))
	defer observability.Reset()

	ctx := context.Background()
	observability.Cache().OnCacheHit(ctx, "layout:abc")
	observability.Layout().OnLayout(ctx, "radial", 4, time.Millisecond, nil)
	observability.Store().OnSave(ctx, "file", "doc-1", 120, time.Millisecond, nil)

	out := buf.String()
	for _, want := range []string{"cache hit", "layout:abc", "radial", "doc-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
