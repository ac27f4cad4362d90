package preview

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/markview/internal/config"
	"github.com/vango-dev/markview/pkg/hast"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	components := paragraphComponents()
	s := New(Options{
		Config:     config.New(),
		Components: &components,
		Registry:   prometheus.NewRegistry(),
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || body != "ok" {
		t.Errorf("GET /healthz = %d %q", resp.StatusCode, body)
	}
}

func TestRenderEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name        string
		contentType string
		body        string
		selector    string
		want        string
	}{
		{"hast json", "application/json", threeParagraphs, "p.para", "onetwothree"},
		{"html", "text/html", `<p>x <em>y</em></p>`, "p.para em", "y"},
		{"sniffed", "", threeParagraphs, "p.para", "onetwothree"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, ts.URL+"/render", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			doc, err := goquery.NewDocumentFromReader(resp.Body)
			if err != nil {
				t.Fatal(err)
			}
			if got := doc.Find(tt.selector).Text(); got != tt.want {
				t.Errorf("%s text = %q, want %q", tt.selector, got, tt.want)
			}
		})
	}
}

func TestRenderEndpointDefaults(t *testing.T) {
	s := New(Options{Registry: prometheus.NewRegistry()})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/render", "text/html",
		strings.NewReader(`<table><tr><td>cell</td></tr></table><pre><code class="language-go">x := 1</code></pre>`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Find("div.table-wrapper td").Text(); got != "cell" {
		t.Errorf("table cell = %q", got)
	}
	if got := doc.Find(".code-header .code-language").Text(); got != "go" {
		t.Errorf("code language = %q", got)
	}
	if got, _ := doc.Find("pre.code-block").Attr("data-language"); got != "go" {
		t.Errorf("data-language = %q", got)
	}
}

func TestRenderEndpointError(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/render", "application/json", strings.NewReader(`{"type":`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	var msg ServerMessage
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != MessageError || msg.Code != "E100" {
		t.Errorf("error body = %+v", msg)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/render", "application/json", strings.NewReader(threeParagraphs))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	_, body := get(t, ts.URL+"/metrics")
	for _, want := range []string{
		"markview_documents_rendered_total 1",
		`markview_memo_renders_total{component="p"} 3`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	cfg := config.New()
	cfg.Metrics.Enabled = false
	s := New(Options{Config: cfg, Registry: prometheus.NewRegistry()})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, _ := get(t, ts.URL+"/metrics")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /metrics = %d, want 404", resp.StatusCode)
	}
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg string) ServerMessage {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatal(err)
	}
	return readMessage(t, conn)
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var reply ServerMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return reply
}

func TestWebSocketPatchRerendersChangedBlock(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	reply := roundTrip(t, conn, string(snapshot(threeParagraphs)))
	if reply.Type != MessageRender || reply.Rendered != 3 {
		t.Fatalf("snapshot reply = %+v", reply)
	}

	reply = roundTrip(t, conn, `{"type":"patch","patch":[{"op":"replace","path":"/children/2/children/0/value","value":"THREE"}]}`)
	if reply.Rendered != 1 || reply.Skipped != 2 {
		t.Errorf("patch reply = %+v, want 1 rendered, 2 skipped", reply)
	}

	reply = roundTrip(t, conn, `{"type":"patch","patch":[{"op":"test","path":"/type","value":"element"}]}`)
	if reply.Type != MessageError || reply.Code != "E131" {
		t.Errorf("failed test op reply = %+v", reply)
	}
}

func TestWebSocketConnectionsAreIndependent(t *testing.T) {
	_, ts := newTestServer(t)
	a := dial(t, ts)
	b := dial(t, ts)

	roundTrip(t, a, string(snapshot(threeParagraphs)))
	reply := roundTrip(t, b, string(snapshot(threeParagraphs)))
	if reply.Rendered != 3 || reply.Skipped != 0 {
		t.Errorf("second connection reused the first one's output: %+v", reply)
	}
}

func TestSetDocumentBroadcasts(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)

	// A round trip guarantees the connection is registered.
	roundTrip(t, conn, string(snapshot(threeParagraphs)))
	if n := s.Hub().ClientCount(); n != 1 {
		t.Fatalf("ClientCount() = %d, want 1", n)
	}

	root := hast.Root(
		hast.Element("p", nil, hast.Text("one")),
		hast.Element("p", nil, hast.Text("changed")),
	)
	s.SetDocument(context.Background(), root, "Doc")

	reply := readMessage(t, conn)
	if reply.Type != MessageRender || reply.Rendered != 1 || reply.Skipped != 1 {
		t.Errorf("broadcast reply = %+v", reply)
	}

	// Patches now apply to the broadcast document.
	reply = roundTrip(t, conn, `{"type":"patch","patch":[{"op":"replace","path":"/children/1/children/0/value","value":"again"}]}`)
	if reply.Type != MessageRender || !strings.Contains(reply.HTML, "again") {
		t.Errorf("patch after broadcast = %+v", reply)
	}

	_, body := get(t, ts.URL+"/")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Find("title").Text(); got != "Doc" {
		t.Errorf("title = %q", got)
	}
	if got := doc.Find("main#content p.para").Length(); got != 2 {
		t.Errorf("paragraphs = %d, want 2", got)
	}
}

func TestNewConnectionReceivesDocument(t *testing.T) {
	s, ts := newTestServer(t)
	s.SetDocument(context.Background(), hast.Root(hast.Element("p", nil, hast.Text("hi"))), "")

	conn := dial(t, ts)
	reply := readMessage(t, conn)
	if reply.Type != MessageRender || reply.HTML != `<p class="para">hi</p>` {
		t.Errorf("initial reply = %+v", reply)
	}
}
