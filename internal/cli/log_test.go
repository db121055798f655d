package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
		{
			name:    "warn at error level",
			level:   log.ErrorLevel,
			logFunc: func(l *log.Logger) { l.Warn("test") },
			wantLog: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"DEBUG":   log.DebugLevel,
		"info":    log.InfoLevel,
		"warn":    log.WarnLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"":        log.InfoLevel,
		"verbose": log.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	time.Sleep(10 * time.Millisecond)
	prog.done("Counted g.txt")

	if !bytes.Contains(buf.Bytes(), []byte("Counted g.txt (")) {
		t.Errorf("progress.done() output = %q, want message with elapsed time", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}
