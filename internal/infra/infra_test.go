package infra

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level  string
		format string
		want   zapcore.Level
	}{
		{level: "debug", format: "console", want: zapcore.DebugLevel},
		{level: "warn", format: "json", want: zapcore.WarnLevel},
		{level: "error", format: "json", want: zapcore.ErrorLevel},
		{level: "", format: "json", want: zapcore.InfoLevel},
	}
	for _, tt := range tests {
		logger, err := NewLogger(tt.level, tt.format)
		if err != nil {
			t.Fatalf("NewLogger(%q, %q): %v", tt.level, tt.format, err)
		}
		if !logger.Core().Enabled(tt.want) || (tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1)) {
			t.Errorf("NewLogger(%q) does not sit at level %s", tt.level, tt.want)
		}
	}
}

func TestNewRedis(t *testing.T) {
	if NewRedis(context.Background(), "", zaptest.NewLogger(t)) != nil {
		t.Fatal("expected nil client for empty addr")
	}

	mr := miniredis.RunT(t)
	client := NewRedis(context.Background(), mr.Addr(), zaptest.NewLogger(t))
	if client == nil {
		t.Fatal("expected client")
	}
	defer client.Close()
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
