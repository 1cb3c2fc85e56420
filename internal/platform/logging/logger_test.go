package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
)

func TestNewJSONWriter_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo)

	logger.Named("rolesync").Info("member reconciled", "member_id", "42", "error", errors.New("boom"))
	logger.Debug("filtered out")
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := sonic.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["msg"] != "member reconciled" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["component"] != "rolesync" {
		t.Fatalf("unexpected component: %v", entry["component"])
	}
	if entry["member_id"] != "42" {
		t.Fatalf("unexpected member_id: %v", entry["member_id"])
	}
	if entry["error"] != "boom" {
		t.Fatalf("unexpected error field: %v", entry["error"])
	}
}

func TestLogger_NilReceiverFallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := Default()
	SetDefault(NewJSONWriter(&buf, LevelDebug))
	t.Cleanup(func() { SetDefault(prev) })

	var logger *Logger
	logger.WarnContext(context.Background(), "fallback")

	if !strings.Contains(buf.String(), `"msg":"fallback"`) {
		t.Fatalf("expected default logger to receive entry, got %q", buf.String())
	}
}

func TestZapFields_OddArgs(t *testing.T) {
	fields := zapFields([]any{"a", 1, "dangling"})
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[1].Key != "dangling" {
		t.Fatalf("unexpected dangling key: %s", fields[1].Key)
	}
}
