package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesStructuredField(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := New(zap.New(core).Sugar())

	log.InfoObj("conversion served", "conversion", map[string]any{"from": "Celsius"})
	log.DebugObj("debug", "k", 1)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	got, ok := fields["conversion"].(map[string]any)
	if !ok || got["from"] != "Celsius" {
		t.Fatalf("unexpected fields %#v", fields)
	}
}

func TestEnsureFallsBackToNop(t *testing.T) {
	log := Ensure(nil)
	if _, ok := log.(NopLogger); !ok {
		t.Fatalf("expected NopLogger, got %T", log)
	}
	log.ErrorObj("ignored", "k", "v")
}
