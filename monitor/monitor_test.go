package monitor

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMonitor_Counters(t *testing.T) {
	m := NewMonitor("test")

	m.SetActiveRooms(3)
	m.IncOnlinePlayers()
	m.IncOnlinePlayers()
	m.DecOnlinePlayers()
	m.IncMessagesReceived("roll_dice")
	m.IncMessagesSent("turn_start", 4)
	m.IncGamesStarted()
	m.IncRoomErrors("room_full")

	if got := testutil.ToFloat64(m.metrics.ActiveRooms); got != 3 {
		t.Errorf("Expected 3 active rooms, got %v", got)
	}
	if got := testutil.ToFloat64(m.metrics.OnlinePlayers); got != 1 {
		t.Errorf("Expected 1 online player, got %v", got)
	}
	if got := testutil.ToFloat64(m.metrics.MessagesSent.WithLabelValues("turn_start")); got != 4 {
		t.Errorf("Expected 4 sent turn_start frames, got %v", got)
	}
	if got := testutil.ToFloat64(m.metrics.RoomErrors.WithLabelValues("room_full")); got != 1 {
		t.Errorf("Expected 1 room_full error, got %v", got)
	}
}

func TestMonitor_IndependentRegistries(t *testing.T) {
	// two monitors must not panic on duplicate registration
	a := NewMonitor("dup")
	b := NewMonitor("dup")
	a.IncGamesFinished()
	if testutil.ToFloat64(b.metrics.GamesFinished) != 0 {
		t.Error("Monitors should not share metrics")
	}
}

func TestMonitor_Handler(t *testing.T) {
	m := NewMonitor("web")
	m.SetActiveRooms(7)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	if !strings.Contains(string(body), "web_active_rooms 7") {
		t.Errorf("Metrics output missing active rooms gauge:\n%s", body)
	}
}
