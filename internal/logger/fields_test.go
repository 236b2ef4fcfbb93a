package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  mode  ", Value: "  senior  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "mode" || fields[0].String != "senior" {
		t.Fatalf("unexpected mode field: %+v", fields[0])
	}

	if empty := StringFields(); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithFields(zap.New(core), zap.String("foo", "bar")).Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if got := entries[0].ContextMap()["foo"]; got != "bar" {
		t.Fatalf("expected field to be bar, got %q", got)
	}

	enriched := WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
	enriched.Info("another log")
}

func TestEngineFields(t *testing.T) {
	fields := EngineFields(" internship ", "job-1", "")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Key != FieldMode || fields[0].String != "internship" {
		t.Fatalf("unexpected mode field: %+v", fields[0])
	}

	if fields[1].Key != FieldJobID || fields[1].String != "job-1" {
		t.Fatalf("unexpected job field: %+v", fields[1])
	}
}

func TestWithEngineFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	WithEngineFields(zap.New(core), "senior", "job-7", "Acme").Debug("rule matched")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldMode] != "senior" || ctx[FieldJobID] != "job-7" || ctx[FieldCompany] != "Acme" {
		t.Fatalf("unexpected context: %v", ctx)
	}

	WithEngineFields(nil, "senior", "job-7", "Acme").Info("no panic")
}
