package logger

import (
	"reflect"
	"testing"
)

type entry struct {
	level   string
	message string
	keyvals []any
}

type recorder struct {
	entries []entry
}

func (r *recorder) add(level, message string, keyvals []any) {
	r.entries = append(r.entries, entry{level: level, message: message, keyvals: keyvals})
}

func (r *recorder) Log(message string, keyvals ...any)   { r.add("log", message, keyvals) }
func (r *recorder) Debug(message string, keyvals ...any) { r.add("debug", message, keyvals) }
func (r *recorder) Info(message string, keyvals ...any)  { r.add("info", message, keyvals) }
func (r *recorder) Warn(message string, keyvals ...any)  { r.add("warn", message, keyvals) }
func (r *recorder) Error(message string, keyvals ...any) { r.add("error", message, keyvals) }
func (r *recorder) Fatal(message string, keyvals ...any) { r.add("fatal", message, keyvals) }

func withRecorder(t *testing.T) *recorder {
	t.Helper()
	prev := singleton
	t.Cleanup(func() { singleton = prev })
	r := &recorder{}
	Init(r)
	return r
}

func TestPackageFunctionsBeforeInit(t *testing.T) {
	prev := singleton
	singleton = nil
	defer func() { singleton = prev }()

	Info("dropped")
	With("run_id", "x").Warn("dropped")
}

func TestPackageFunctionsFanOut(t *testing.T) {
	r := withRecorder(t)

	Info("stored", "id", 1)
	Warn("skipped")
	Error("failed", "err", "boom")

	want := []entry{
		{level: "info", message: "stored", keyvals: []any{"id", 1}},
		{level: "warn", message: "skipped"},
		{level: "error", message: "failed", keyvals: []any{"err", "boom"}},
	}
	if !reflect.DeepEqual(r.entries, want) {
		t.Errorf("entries = %+v, want %+v", r.entries, want)
	}
}

func TestWithPrependsFields(t *testing.T) {
	r := withRecorder(t)

	log := With("run_id", "abc")
	log.Info("chunk done", "chunk", 2)
	log.Debug("no extra fields")

	want := []entry{
		{level: "info", message: "chunk done", keyvals: []any{"run_id", "abc", "chunk", 2}},
		{level: "debug", message: "no extra fields", keyvals: []any{"run_id", "abc"}},
	}
	if !reflect.DeepEqual(r.entries, want) {
		t.Errorf("entries = %+v, want %+v", r.entries, want)
	}
}
