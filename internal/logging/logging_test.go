package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf, "warn", "json")
	defer SetupWriter(&buf, "info", "console")

	log.Info().Msg("hidden")
	log.Warn().Int64("chat_id", 5).Msg("visible")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single json line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "visible" || entry["chat_id"].(float64) != 5 {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestSetupWriter_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf, "loud", "console")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("level = %s", zerolog.GlobalLevel())
	}
}
