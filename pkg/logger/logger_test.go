package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("expected JSON line, got %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestForService_TagsEntries(t *testing.T) {
	var buf bytes.Buffer
	base := New(Options{Level: "debug", Output: &buf})

	orders := ForService(base, "orders")
	orders.Info().Msg("created")
	users := ForService(base, "users")
	users.Info().Msg("registered")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0]["service"] != "orders" || entries[0]["message"] != "created" {
		t.Errorf("unexpected first entry: %v", entries[0])
	}
	if entries[1]["service"] != "users" {
		t.Errorf("expected service=users, got %v", entries[1]["service"])
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Output: &buf})
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 || entries[0]["message"] != "kept" {
		t.Fatalf("expected only the warn entry, got %v", entries)
	}
	if _, ok := entries[0]["time"]; !ok {
		t.Error("expected a timestamp field")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"trace":   "trace",
		"DEBUG":   "debug",
		" warn ":  "warn",
		"warning": "warn",
		"error":   "error",
		"bogus":   "info",
		"":        "info",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
