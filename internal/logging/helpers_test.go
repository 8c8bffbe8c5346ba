package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestHelpersTolerateNilLogger(t *testing.T) {
	Info(nil, "ignored")
	Warn(nil, "ignored")
	Error(nil, "ignored", errors.New("boom"))
}

func TestInfoWritesThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	Info(logger, "schedule loaded", slog.String("team_id", "LAL"))

	out := buf.String()
	if !strings.Contains(out, "schedule loaded") || !strings.Contains(out, "team_id=LAL") {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestErrorAppendsErrAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	Error(logger, "simulation failed", errors.New("boom"), slog.String("game_id", "g1"))

	out := buf.String()
	if !strings.Contains(out, "error=boom") {
		t.Fatalf("expected the error attr, got %q", out)
	}
	if !strings.Contains(out, "game_id=g1") {
		t.Fatalf("expected caller attrs preserved, got %q", out)
	}
}

func TestErrorWithoutErrOmitsAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	Error(logger, "simulation result missing a team score", nil)

	if strings.Contains(buf.String(), "error=") {
		t.Fatalf("expected no error attr, got %q", buf.String())
	}
}
