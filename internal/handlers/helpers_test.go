package handlers

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"os"
	"testing"
	"time"

	"sales-dashboard/internal/services"
)

var (
	testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	testEnd   = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	testNow   = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestDashboard covers 2024-01-01 to 2024-06-15 with the clock fixed at
// the morning of the last day.
func newTestDashboard() *services.Dashboard {
	d := services.NewDashboard(42, testStart, testEnd, testLogger())
	d.SetClock(func() time.Time { return testNow })
	return d
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("invalid json %q: %v", body, err)
	}
	return env
}

// signalsQuery encodes v the way the Datastar client sends signals on GET.
func signalsQuery(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return "?" + url.Values{"datastar": {string(b)}}.Encode()
}
