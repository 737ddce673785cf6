package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/callpad/internal/call"
	"github.com/xpanvictor/callpad/internal/config"
	"github.com/xpanvictor/callpad/internal/handlers"
	"github.com/xpanvictor/callpad/internal/tools/orders"
	"github.com/xpanvictor/callpad/pkg/Logger"
	"github.com/xpanvictor/callpad/pkg/voice"
)

type fakeVoice struct {
	startErr  error
	stopErr   error
	startGate chan struct{}
	entered   chan struct{}
	once      sync.Once

	starts atomic.Int32
	stops  atomic.Int32
}

func (f *fakeVoice) Start(ctx context.Context, assistantID string) (*voice.Call, error) {
	f.starts.Add(1)
	if f.entered != nil {
		f.once.Do(func() { close(f.entered) })
	}
	if f.startGate != nil {
		<-f.startGate
	}
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &voice.Call{ID: "call-http", AssistantID: assistantID, WebCallURL: "https://rooms.example/http"}, nil
}

func (f *fakeVoice) Stop(ctx context.Context) error {
	f.stops.Add(1)
	return f.stopErr
}

func newTestRouter(t *testing.T, fv *fakeVoice) (*gin.Engine, *Dependencies) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := Logger.NewNop()
	view := call.New(fv, "asst-test", logger)
	deps := NewServerDependencies(view, orders.NewStore(orders.SampleOrder), logger, &config.Settings{})
	r := gin.New()
	InitializeRoutes(r, deps)
	return r, deps
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) call.Status {
	t.Helper()
	var resp handlers.CallStatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return resp.Status
}

func assertPage(t *testing.T, r http.Handler, startDisabled, stopDisabled bool, text string) {
	t.Helper()
	w := do(r, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d", w.Code)
	}
	page := w.Body.String()

	startTag := `<button id="start-call" class="call-button">`
	if startDisabled {
		startTag = `<button id="start-call" class="call-button" disabled>`
	}
	stopTag := `<button id="stop-call" class="call-button">`
	if stopDisabled {
		stopTag = `<button id="stop-call" class="call-button" disabled>`
	}
	if !strings.Contains(page, startTag) {
		t.Errorf("page missing %s", startTag)
	}
	if !strings.Contains(page, stopTag) {
		t.Errorf("page missing %s", stopTag)
	}
	if !strings.Contains(page, `<p id="status">`+text+`</p>`) {
		t.Errorf("page status line is not %q", text)
	}
}

func TestInitialRender(t *testing.T) {
	r, _ := newTestRouter(t, &fakeVoice{})
	assertPage(t, r, false, true, "Call ended")
}

func TestStartCallFlow(t *testing.T) {
	fv := &fakeVoice{}
	r, _ := newTestRouter(t, fv)

	w := do(r, http.MethodPost, "/api/call/start", "")
	if w.Code != http.StatusOK {
		t.Fatalf("start = %d %s", w.Code, w.Body.String())
	}
	st := decodeStatus(t, w)
	if !st.Active || st.Text != "Call in progress..." {
		t.Fatalf("status = %+v", st)
	}
	if w.Header().Get(handlers.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	assertPage(t, r, true, false, "Call in progress...")
	if !strings.Contains(do(r, http.MethodGet, "/", "").Body.String(), `href="https://rooms.example/http"`) {
		t.Error("page should link the web call")
	}
}

func TestStopCallFlowIgnoresStopOutcome(t *testing.T) {
	fv := &fakeVoice{stopErr: errors.New("upstream timeout")}
	r, _ := newTestRouter(t, fv)

	if w := do(r, http.MethodPost, "/api/call/start", ""); w.Code != http.StatusOK {
		t.Fatalf("start = %d", w.Code)
	}
	w := do(r, http.MethodPost, "/api/call/stop", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stop = %d %s", w.Code, w.Body.String())
	}
	st := decodeStatus(t, w)
	if st.Active || st.Text != "Call ended" {
		t.Fatalf("status = %+v", st)
	}
	if st.LastError != "upstream timeout" {
		t.Errorf("lastError = %q", st.LastError)
	}
	if fv.stops.Load() != 1 {
		t.Errorf("stops = %d", fv.stops.Load())
	}
	assertPage(t, r, false, true, "Call ended")
}

func TestStopWithoutCall(t *testing.T) {
	fv := &fakeVoice{}
	r, _ := newTestRouter(t, fv)
	if w := do(r, http.MethodPost, "/api/call/stop", ""); w.Code != http.StatusConflict {
		t.Fatalf("stop = %d", w.Code)
	}
	if fv.stops.Load() != 0 {
		t.Errorf("stops = %d", fv.stops.Load())
	}
}

// A second click while the first start is in flight must not reach the
// voice service; the page also shows Start disabled while pending.
func TestDoubleStartWhilePending(t *testing.T) {
	fv := &fakeVoice{startGate: make(chan struct{}), entered: make(chan struct{})}
	r, _ := newTestRouter(t, fv)

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() { first <- do(r, http.MethodPost, "/api/call/start", "") }()
	<-fv.entered

	if w := do(r, http.MethodPost, "/api/call/start", ""); w.Code != http.StatusConflict {
		t.Fatalf("second start = %d", w.Code)
	}
	assertPage(t, r, true, true, "Call ended")

	close(fv.startGate)
	if w := <-first; w.Code != http.StatusOK {
		t.Fatalf("first start = %d", w.Code)
	}
	if got := fv.starts.Load(); got != 1 {
		t.Fatalf("external start requests = %d, want 1", got)
	}
}

func TestStartRejected(t *testing.T) {
	fv := &fakeVoice{startErr: errors.New("invalid assistant")}
	r, _ := newTestRouter(t, fv)

	w := do(r, http.MethodPost, "/api/call/start", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("start = %d", w.Code)
	}
	var resp handlers.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Details != "invalid assistant" {
		t.Errorf("details = %q", resp.Details)
	}

	st := decodeStatus(t, do(r, http.MethodGet, "/api/call/status", ""))
	if st.Active || st.LastError != "invalid assistant" {
		t.Errorf("status = %+v", st)
	}
	assertPage(t, r, false, true, "Call ended")
}

func TestOrdersWebhook(t *testing.T) {
	r, _ := newTestRouter(t, &fakeVoice{})

	w := do(r, http.MethodPost, "/orders", "")
	if w.Code != http.StatusOK {
		t.Fatalf("orders = %d", w.Code)
	}
	var order orders.Order
	if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
		t.Fatal(err)
	}
	if order != orders.SampleOrder {
		t.Errorf("order = %+v", order)
	}

	body := `{"message":{"type":"tool-calls","toolCalls":[
		{"id":"tc1","function":{"name":"get_orders","arguments":{"order_number":"1"}}},
		{"id":"tc2","function":{"name":"get_orders","arguments":"{\"order_number\":\"99\"}"}}
	]}}`
	w = do(r, http.MethodPost, "/orders", body)
	if w.Code != http.StatusOK {
		t.Fatalf("tool call = %d %s", w.Code, w.Body.String())
	}
	var resp handlers.ToolCallResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %+v", resp.Results)
	}
	if resp.Results[0].ToolCallID != "tc1" || !strings.Contains(resp.Results[0].Result, `"customer_name":"John Doe"`) {
		t.Errorf("first result = %+v", resp.Results[0])
	}
	if resp.Results[1].ToolCallID != "tc2" || resp.Results[1].Error != "order 99 not found" {
		t.Errorf("second result = %+v", resp.Results[1])
	}

	if w := do(r, http.MethodPost, "/orders", "{not json"); w.Code != http.StatusBadRequest {
		t.Errorf("bad body = %d", w.Code)
	}
}

func TestHealthAndCORS(t *testing.T) {
	r, _ := newTestRouter(t, &fakeVoice{})
	if w := do(r, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("health = %d", w.Code)
	}
	w := do(r, http.MethodOptions, "/api/call/start", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight = %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
