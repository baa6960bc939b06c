package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/figpanel/pkg/geometry"
	"github.com/matzehuels/figpanel/pkg/units"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(log.New(io.Discard)).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[healthBody](t, resp.Body)
	if body.Status != "ok" || body.Version == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestLayout(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/layout", `{
		"layout": "2,1",
		"panels": [{"width": 100, "height": 100}, {"width": 200, "height": 100}, {"width": 1, "height": 1}],
		"page_width": 180,
		"margin": 5,
		"spacing": 3,
		"label_size": 0
	}`)
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, b)
	}
	got := decode[LayoutResponse](t, resp.Body)

	if s := got.Structure.String(); s != "[[0 1] [2]]" {
		t.Errorf("structure = %s", s)
	}
	if got.Page.Form != "rows" {
		t.Errorf("form = %q, want rows", got.Page.Form)
	}
	if !near(got.Page.Width, 180) {
		t.Errorf("width = %v, want 180", got.Page.Width)
	}
	// 5 + 83.5 + 3 + 170 + 5, plus the label padding of both rows
	want := 266.5 + units.ToMM(2*geometry.LabelPadding)
	if !near(got.Page.Height, want) {
		t.Errorf("height = %v, want %v", got.Page.Height, want)
	}
	if len(got.Page.Panels) != 3 {
		t.Fatalf("panels = %d, want 3", len(got.Page.Panels))
	}
	first := got.Page.Panels[0]
	if !near(first.X, 5) || !near(first.Y, 5) || !near(first.Width, 83.5) {
		t.Errorf("first panel = %+v", first)
	}
	if first.Label != "A" || got.Page.Panels[2].Label != "C" {
		t.Errorf("labels = %q, %q", first.Label, got.Page.Panels[2].Label)
	}
}

func TestLayoutDefaultsAndFallback(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/layout", `{"panels": [{"width": 10, "height": 10}, {"width": 0, "height": 5}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := decode[LayoutResponse](t, resp.Body)

	if got.Page.Form != "simple" {
		t.Errorf("form = %q, want simple", got.Page.Form)
	}
	if !near(got.Page.Width, 180) {
		t.Errorf("width = %v, want default 180", got.Page.Width)
	}
	if len(got.Page.Warnings) != 1 {
		t.Errorf("warnings = %v, want 1", got.Page.Warnings)
	}
	if !got.Page.Panels[1].Fallback {
		t.Error("zero-width panel should be reported as fallback")
	}
}

func TestLayoutErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed", `{"panels": [`, "INVALID_INPUT"},
		{"unknown field", `{"panels": [{"width": 1, "height": 1}], "colour": "red"}`, "INVALID_INPUT"},
		{"no panels", `{"layout": "2"}`, "INVALID_INPUT"},
		{"negative margin", `{"panels": [{"width": 1, "height": 1}], "margin": -1}`, "INVALID_INPUT"},
		{"zero page width", `{"panels": [{"width": 1, "height": 1}], "page_width": 0}`, "INVALID_INPUT"},
		{"margins fill page", `{"panels": [{"width": 1, "height": 1}], "page_width": 20, "margin": 10}`, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/v1/layout", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			body := decode[errorBody](t, resp.Body)
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Code, tt.code)
			}
			if body.Error == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t)

	t.Run("generated", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/healthz")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
			t.Errorf("request id %q is not a uuid: %v", resp.Header.Get(RequestIDHeader), err)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
		req.Header.Set(RequestIDHeader, "client-42")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if got := resp.Header.Get(RequestIDHeader); got != "client-42" {
			t.Errorf("request id = %q, want client-42", got)
		}
	})
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v2/nothing")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	s := New(log.New(&buf))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	out := buf.String()
	for _, want := range []string{"request", "path=/healthz", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(log.New(io.Discard))
	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
