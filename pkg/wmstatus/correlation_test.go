package wmstatus

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// correlationRecorder captures logged messages with their args.
type correlationRecorder struct {
	mu      sync.Mutex
	entries []loggedEntry
}

type loggedEntry struct {
	level string
	msg   string
	args  []any
}

func (r *correlationRecorder) record(level, msg string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, loggedEntry{level: level, msg: msg, args: args})
}

func (r *correlationRecorder) Debug(msg string, args ...any) { r.record("DEBUG", msg, args...) }
func (r *correlationRecorder) Info(msg string, args ...any)  { r.record("INFO", msg, args...) }
func (r *correlationRecorder) Warn(msg string, args ...any)  { r.record("WARN", msg, args...) }
func (r *correlationRecorder) Error(msg string, args ...any) { r.record("ERROR", msg, args...) }

func (r *correlationRecorder) last() loggedEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return loggedEntry{}
	}
	return r.entries[len(r.entries)-1]
}

// argValue finds the value following a key in slog-style variadic args.
func argValue(args []any, key string) (any, bool) {
	for i := 0; i+1 < len(args); i += 2 {
		if k, ok := args[i].(string); ok && k == key {
			return args[i+1], true
		}
	}
	return nil, false
}

func TestNewCorrelationID(t *testing.T) {
	id := NewCorrelationID()

	if len(id) != 16 {
		t.Errorf("len(id) = %d, want 16 hex characters", len(id))
	}
	for _, c := range string(id) {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Errorf("id %q contains non-hex character %q", id, c)
			break
		}
	}
}

func TestNewCorrelationIDUnique(t *testing.T) {
	seen := make(map[CorrelationID]bool)
	for i := 0; i < 100; i++ {
		id := NewCorrelationID()
		if seen[id] {
			t.Fatalf("duplicate correlation ID %q", id)
		}
		seen[id] = true
	}
}

func TestCorrelationIDString(t *testing.T) {
	id := CorrelationID("abc123")
	if id.String() != "abc123" {
		t.Errorf("String() = %q, want abc123", id.String())
	}
}

func TestWithCorrelationID(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "test-id")

	if got := CorrelationIDFromContext(ctx); got != "test-id" {
		t.Errorf("CorrelationIDFromContext() = %q, want test-id", got)
	}
}

func TestWithCorrelationIDGeneratesWhenEmpty(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "")

	if got := CorrelationIDFromContext(ctx); got == "" {
		t.Error("empty ID should be replaced with a generated one")
	}
}

func TestCorrelationIDFromContextMissing(t *testing.T) {
	if got := CorrelationIDFromContext(context.Background()); got != "" {
		t.Errorf("CorrelationIDFromContext() = %q for bare context, want empty", got)
	}
	if got := CorrelationIDFromContext(nil); got != "" {
		t.Errorf("CorrelationIDFromContext(nil) = %q, want empty", got)
	}
}

func TestEnsureCorrelationID(t *testing.T) {
	// A bare context gets a fresh ID.
	ctx := EnsureCorrelationID(context.Background())
	id := CorrelationIDFromContext(ctx)
	if id == "" {
		t.Fatal("EnsureCorrelationID should attach an ID")
	}

	// An existing ID is preserved.
	same := EnsureCorrelationID(ctx)
	if got := CorrelationIDFromContext(same); got != id {
		t.Errorf("existing ID %q was replaced with %q", id, got)
	}
}

func TestCorrelatedLoggerPrependsID(t *testing.T) {
	rec := &correlationRecorder{}
	ctx := WithCorrelationID(context.Background(), "reload-42")
	logger := NewCorrelatedLogger(ctx, rec)

	logger.Info("configuration reloaded", "path", "/etc/wmstatus.lua")

	entry := rec.last()
	if entry.msg != "configuration reloaded" {
		t.Errorf("msg = %q", entry.msg)
	}
	id, ok := argValue(entry.args, "correlation_id")
	if !ok {
		t.Fatalf("args %v missing correlation_id", entry.args)
	}
	if id != "reload-42" {
		t.Errorf("correlation_id = %v, want reload-42", id)
	}
	if path, ok := argValue(entry.args, "path"); !ok || path != "/etc/wmstatus.lua" {
		t.Errorf("args %v should keep the caller's attributes", entry.args)
	}
}

func TestCorrelatedLoggerAllLevels(t *testing.T) {
	rec := &correlationRecorder{}
	ctx := WithCorrelationID(context.Background(), "x")
	logger := NewCorrelatedLogger(ctx, rec)

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(rec.entries))
	}
	for _, entry := range rec.entries {
		if _, ok := argValue(entry.args, "correlation_id"); !ok {
			t.Errorf("%s entry missing correlation_id", entry.level)
		}
	}
}

func TestCorrelatedLoggerWithoutID(t *testing.T) {
	rec := &correlationRecorder{}
	logger := NewCorrelatedLogger(context.Background(), rec)

	logger.Info("plain", "key", "value")

	entry := rec.last()
	if _, ok := argValue(entry.args, "correlation_id"); ok {
		t.Error("no correlation_id should be added for a context without one")
	}
	if v, ok := argValue(entry.args, "key"); !ok || v != "value" {
		t.Errorf("args %v should pass through unchanged", entry.args)
	}
}

func TestCorrelatedLoggerNilLogger(t *testing.T) {
	logger := NewCorrelatedLogger(context.Background(), nil)
	// Falls back to the nop logger; must not panic.
	logger.Info("dropped")
}

func TestCorrelatedLoggerWithContext(t *testing.T) {
	rec := &correlationRecorder{}
	first := NewCorrelatedLogger(WithCorrelationID(context.Background(), "first"), rec)
	second := first.WithContext(WithCorrelationID(context.Background(), "second"))

	second.Info("switched")

	id, _ := argValue(rec.last().args, "correlation_id")
	if id != "second" {
		t.Errorf("correlation_id = %v, want the new context's ID", id)
	}

	// The original logger keeps its own context.
	first.Info("original")
	id, _ = argValue(rec.last().args, "correlation_id")
	if id != "first" {
		t.Errorf("correlation_id = %v, want first", id)
	}
}

func TestCorrelatedSlogHandlerAddsID(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewCorrelatedSlogHandler(inner))

	ctx := WithCorrelationID(context.Background(), "ctx-77")
	logger.InfoContext(ctx, "with context")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if entry["correlation_id"] != "ctx-77" {
		t.Errorf("correlation_id = %v, want ctx-77", entry["correlation_id"])
	}
}

func TestCorrelatedSlogHandlerNoID(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewCorrelatedSlogHandler(inner))

	logger.InfoContext(context.Background(), "without context")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if _, ok := entry["correlation_id"]; ok {
		t.Error("correlation_id should be absent without a context ID")
	}
}

func TestCorrelatedSlogHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	handler := NewCorrelatedSlogHandler(inner)

	logger := slog.New(handler.WithAttrs([]slog.Attr{slog.String("component", "reload")}))
	ctx := WithCorrelationID(context.Background(), "attr-1")
	logger.InfoContext(ctx, "attached attrs")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if entry["component"] != "reload" {
		t.Errorf("component = %v, want reload", entry["component"])
	}
	if entry["correlation_id"] != "attr-1" {
		t.Errorf("correlation_id = %v, want attr-1", entry["correlation_id"])
	}

	buf.Reset()
	grouped := slog.New(handler.WithGroup("watch"))
	grouped.InfoContext(ctx, "grouped", "path", "/tmp/x")

	var groupedEntry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &groupedEntry); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	watch, ok := groupedEntry["watch"].(map[string]any)
	if !ok {
		t.Fatalf("grouped output missing watch group: %v", groupedEntry)
	}
	if watch["path"] != "/tmp/x" {
		t.Errorf("watch.path = %v, want /tmp/x", watch["path"])
	}
}

func TestCorrelatedJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := CorrelatedJSONLogger(&buf, slog.LevelInfo)

	ctx := WithCorrelationID(context.Background(), "json-9")
	logger.InfoContext(ctx, "hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if entry["correlation_id"] != "json-9" {
		t.Errorf("correlation_id = %v, want json-9", entry["correlation_id"])
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", entry["msg"])
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want value", entry["key"])
	}
}

func TestCorrelatedJSONLoggerNilWriter(t *testing.T) {
	logger := CorrelatedJSONLogger(nil, slog.LevelError)
	if logger == nil {
		t.Fatal("CorrelatedJSONLogger(nil, ...) returned nil")
	}
	// Falls back to stderr; level filtering keeps the test silent.
	logger.Info("suppressed below error")
}
