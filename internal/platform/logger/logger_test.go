package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(t *testing.T) (*Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return FromCore(Redacting(core, "salt")), logs
}

func TestRedactingCore(t *testing.T) {
	log, logs := newObserved(t)
	log.Info("answer received",
		"openai_api_key", "sk-live",
		"candidate_email", "a@b.c",
		"transcript", "my answer",
		"session_id", "abc",
		"phase", "QUESTIONING",
		"meta", map[string]interface{}{"password": "x", "slides": 4},
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries: want=1 got=%d", len(entries))
	}
	ctx := entries[0].ContextMap()
	for _, k := range []string{"openai_api_key", "candidate_email", "transcript"} {
		if ctx[k] != "[REDACTED]" {
			t.Fatalf("%s: want redacted got %v", k, ctx[k])
		}
	}
	if s, _ := ctx["session_id"].(string); !strings.HasPrefix(s, "hash:") {
		t.Fatalf("session_id: want hash got %v", ctx["session_id"])
	}
	if ctx["phase"] != "QUESTIONING" {
		t.Fatalf("phase: want passthrough got %v", ctx["phase"])
	}
	meta, _ := ctx["meta"].(map[string]interface{})
	if meta["password"] != "[REDACTED]" || meta["slides"] != "[REDACTED]" {
		t.Fatalf("nested map not sanitized: %v", meta)
	}
}

func TestRedactingCoreWithFields(t *testing.T) {
	log, logs := newObserved(t)
	child := log.With("session_id", "abc", "service", "ReviewDriver")
	child.Warn("one")
	child.Warn("two")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries: want=2 got=%d", len(entries))
	}
	first := entries[0].ContextMap()["session_id"]
	if first != entries[1].ContextMap()["session_id"] {
		t.Fatalf("hash should correlate across lines")
	}
	if first == "abc" {
		t.Fatalf("session id leaked through With")
	}
	if entries[0].ContextMap()["service"] != "ReviewDriver" {
		t.Fatalf("service field lost")
	}
}

func TestHashValue(t *testing.T) {
	if a, b := hashValue("s", "session-1"), hashValue("s", "session-1"); a != b || a == "" {
		t.Fatalf("hash not stable: %q %q", a, b)
	}
	if hashValue("s", "session-1") == hashValue("t", "session-1") {
		t.Fatalf("salt ignored")
	}
	if hashValue("s", "") != "" {
		t.Fatalf("empty value should hash to empty")
	}
}
