package overlay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"stereotax-go/pkg/trajectory"
)

// fakeSource implements PlanSource for testing.
type fakeSource struct {
	records []trajectory.InsertionRecord
}

func (f *fakeSource) Records() []trajectory.InsertionRecord {
	return f.records
}

func sampleRecord(name string, ap float64) trajectory.InsertionRecord {
	return trajectory.SolveInjection(name, ap, 1.0, 3.0, 0, 0.25)
}

func newTestServer(records ...trajectory.InsertionRecord) *Server {
	return New(":0", &fakeSource{records: records})
}

func TestServerInfo(t *testing.T) {
	s := newTestServer(sampleRecord("cortex", 1.7))

	req := httptest.NewRequest("GET", "/server/info", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatal("response missing 'result' field")
	}

	if result["service"] != "stereotax" {
		t.Errorf("expected service 'stereotax', got %v", result["service"])
	}

	if result["records"] != float64(1) {
		t.Errorf("expected 1 record, got %v", result["records"])
	}
}

func TestSessionRecords(t *testing.T) {
	s := newTestServer(sampleRecord("cortex", 1.7), sampleRecord("probe", -4.5))

	req := httptest.NewRequest("GET", "/session/records", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	result, ok := resp["result"].([]any)
	if !ok {
		t.Fatal("response missing 'result' array")
	}

	if len(result) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result))
	}

	first, ok := result[0].(map[string]any)
	if !ok {
		t.Fatal("record is not an object")
	}

	if first["name"] != "cortex" {
		t.Errorf("expected name 'cortex', got %v", first["name"])
	}

	if first["label"] != "cortex_Right" {
		t.Errorf("expected label 'cortex_Right', got %v", first["label"])
	}

	if first["kind"] != "injection" {
		t.Errorf("expected kind 'injection', got %v", first["kind"])
	}
}

func TestWebSocketReplay(t *testing.T) {
	s := newTestServer(sampleRecord("cortex", 1.7))
	s.running.Store(true)

	server := httptest.NewServer(s.Handler())
	defer server.Close()

	wsURL := "ws" + server.URL[4:] + "/websocket"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect WebSocket: %v", err)
	}
	defer conn.Close()

	// The record planned before connecting must be replayed.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	var notification map[string]any
	if err := json.Unmarshal(message, &notification); err != nil {
		t.Fatalf("failed to decode notification: %v", err)
	}

	if notification["method"] != "notify_record_planned" {
		t.Errorf("expected method 'notify_record_planned', got %v", notification["method"])
	}

	params, ok := notification["params"].(map[string]any)
	if !ok {
		t.Fatal("notification missing 'params'")
	}

	if params["name"] != "cortex" {
		t.Errorf("expected name 'cortex', got %v", params["name"])
	}
}

func TestRecordPlannedBroadcast(t *testing.T) {
	s := newTestServer()
	s.running.Store(true)

	server := httptest.NewServer(s.Handler())
	defer server.Close()

	wsURL := "ws" + server.URL[4:] + "/websocket"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect WebSocket: %v", err)
	}
	defer conn.Close()

	// Wait until the client is registered before broadcasting.
	deadline := time.Now().Add(2 * time.Second)
	for {
		s.wsClientMu.RLock()
		n := len(s.wsClients)
		s.wsClientMu.RUnlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	s.RecordPlanned(sampleRecord("probe", -4.5))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	var notification map[string]any
	if err := json.Unmarshal(message, &notification); err != nil {
		t.Fatalf("failed to decode notification: %v", err)
	}

	params, ok := notification["params"].(map[string]any)
	if !ok {
		t.Fatal("notification missing 'params'")
	}

	if params["name"] != "probe" {
		t.Errorf("expected name 'probe', got %v", params["name"])
	}

	if params["label"] != "probe_Right" {
		t.Errorf("expected label 'probe_Right', got %v", params["label"])
	}
}
