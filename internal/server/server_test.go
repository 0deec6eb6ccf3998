package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/config"
	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/render"
	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/store"
	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/tariff"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory error: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	chapters := []*tariff.Chapter{
		{Number: "84", RawContent: "Capítulo 84 - Máquinas\n84.13 - Bombas para líquidos\nBombas centrífugas e filtros"},
		{Number: "02", RawContent: "Capítulo 2 - Carnes"},
	}
	for _, ch := range chapters {
		if err := st.SaveChapter(context.Background(), ch); err != nil {
			t.Fatalf("SaveChapter(%s) error: %v", ch.Number, err)
		}
	}

	srv := New(config.ServerConfig{Port: 0}, st, render.New(render.DefaultOptions()), nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestListChapters(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/chapters")
	if err != nil {
		t.Fatalf("GET /api/chapters error: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Chapters []string `json:"chapters"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Chapters) != 2 || body.Chapters[0] != "02" || body.Chapters[1] != "84" {
		t.Errorf("chapters = %v, want [02 84]", body.Chapters)
	}
}

func TestGetChapter(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/chapters/84")
	if err != nil {
		t.Fatalf("GET /api/chapters/84 error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Number string `json:"number"`
		Markup string `json:"markup"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Number != "84" {
		t.Errorf("number = %q, want 84", body.Number)
	}
	if !strings.Contains(body.Markup, `id="pos-84-13"`) {
		t.Errorf("markup missing position anchor:\n%s", body.Markup)
	}
}

func TestGetChapterNotFound(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/chapters/99")
	if err != nil {
		t.Fatalf("GET /api/chapters/99 error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetDocument(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/document")
	if err != nil {
		t.Fatalf("GET /api/document error: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q, want text/html", ct)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("reading body: %v", err)
	}
	out := buf.String()
	i02 := strings.Index(out, `data-chapter="02"`)
	i84 := strings.Index(out, `data-chapter="84"`)
	if i02 == -1 || i84 == -1 || i02 > i84 {
		t.Errorf("document missing ordered chapters (02=%d, 84=%d):\n%s", i02, i84, out)
	}
}

func TestGetDocumentFiltered(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/document?chapters=84")
	if err != nil {
		t.Fatalf("GET /api/document?chapters=84 error: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	out := buf.String()
	if strings.Contains(out, `data-chapter="02"`) {
		t.Errorf("filtered document still contains chapter 02:\n%s", out)
	}
	if !strings.Contains(out, `data-chapter="84"`) {
		t.Errorf("filtered document missing chapter 84:\n%s", out)
	}
}

func TestHighlightEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	payload := `{"query":"bomba filtro","chapters":["84"]}`
	resp, err := http.Post(ts.URL+"/api/highlight", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("POST /api/highlight error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body highlightResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Terms) != 2 {
		t.Errorf("terms = %v, want 2 terms", body.Terms)
	}
	if body.Counts["bomba"] == 0 {
		t.Errorf("no matches for bomba: %v", body.Counts)
	}
	if !strings.Contains(body.Markup, `data-sh-term="bomba"`) {
		t.Errorf("markup missing markers:\n%s", body.Markup)
	}
	if body.Quality.Level == "" {
		t.Errorf("quality missing from response")
	}
}

func TestHighlightEndpointRequiresQuery(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/highlight", "application/json", strings.NewReader(`{"query":"  "}`))
	if err != nil {
		t.Fatalf("POST /api/highlight error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestWebSocketSession(t *testing.T) {
	_, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/highlight"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsRequest{Type: "query", Query: "bomba", Chapters: []string{"84"}}); err != nil {
		t.Fatalf("sending query: %v", err)
	}
	var result wsResponse
	if err := conn.ReadJSON(&result); err != nil {
		t.Fatalf("reading result: %v", err)
	}
	if result.Type != "result" {
		t.Fatalf("response type = %q, want result: %+v", result.Type, result)
	}
	if result.Counts["bomba"] == 0 {
		t.Errorf("no matches in websocket result: %v", result.Counts)
	}
	if result.SessionID == "" {
		t.Errorf("missing session id")
	}

	if err := conn.WriteJSON(wsRequest{Type: "navigate", Direction: "next"}); err != nil {
		t.Fatalf("sending navigate: %v", err)
	}
	var active wsResponse
	if err := conn.ReadJSON(&active); err != nil {
		t.Fatalf("reading active: %v", err)
	}
	if active.Type != "active" || active.Term != "bomba" {
		t.Errorf("active response = %+v", active)
	}
	if active.Total != result.Counts["bomba"] {
		t.Errorf("active total = %d, want %d", active.Total, result.Counts["bomba"])
	}

	if err := conn.WriteJSON(wsRequest{Type: "noop"}); err != nil {
		t.Fatalf("sending unknown type: %v", err)
	}
	var errResp wsResponse
	if err := conn.ReadJSON(&errResp); err != nil {
		t.Fatalf("reading error response: %v", err)
	}
	if errResp.Type != "error" {
		t.Errorf("unknown type response = %+v, want error", errResp)
	}
}
