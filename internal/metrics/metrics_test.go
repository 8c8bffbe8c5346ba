package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRecordUpstreamCallCounts(t *testing.T) {
	rec := NewRecorder()

	rec.RecordUpstreamCall("simulate-game", 10*time.Millisecond, nil)
	rec.RecordUpstreamCall("simulate-game", 20*time.Millisecond, errors.New("boom"))

	if got := rec.UpstreamCalls("simulate-game"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := rec.UpstreamErrors("simulate-game"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	if got := rec.LastCallLatency("simulate-game"); got != 20*time.Millisecond {
		t.Fatalf("expected last latency 20ms, got %s", got)
	}
}

func TestRecordUpstreamCallConcurrent(t *testing.T) {
	rec := NewRecorder()

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rec.RecordUpstreamCall("simulate-game", time.Millisecond, nil)
			}
		}()
	}
	wg.Wait()

	if got := rec.UpstreamCalls("simulate-game"); got != workers*50 {
		t.Fatalf("expected %d calls, got %d", workers*50, got)
	}
}

func TestRecordTurnCountsSuccessesOnly(t *testing.T) {
	rec := NewRecorder()

	rec.RecordTurn(time.Millisecond, nil)
	rec.RecordTurn(time.Millisecond, errors.New("boom"))
	rec.RecordTurn(time.Millisecond, nil)

	if got := rec.TurnsRecorded(); got != 2 {
		t.Fatalf("expected 2 turns recorded, got %d", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder

	rec.RecordUpstreamCall("x", time.Millisecond, nil)
	rec.RecordTurn(time.Millisecond, nil)
	rec.RecordHTTPRequest("GET", "/status", 200, time.Millisecond)

	if got := rec.UpstreamCalls("x"); got != 0 {
		t.Fatalf("expected 0 calls from nil recorder, got %d", got)
	}
	if got := rec.TurnsRecorded(); got != 0 {
		t.Fatalf("expected 0 turns from nil recorder, got %d", got)
	}
}

func TestSetupDisabledReturnsRecorder(t *testing.T) {
	rec, handler, shutdown, err := Setup(nil, TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec == nil {
		t.Fatal("expected recorder")
	}
	if handler != nil {
		t.Fatal("expected no handler when disabled")
	}
	if shutdown == nil {
		t.Fatal("expected shutdown func")
	}
}
