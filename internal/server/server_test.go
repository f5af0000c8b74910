package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rankplot/pkg/pipeline"
	"github.com/matzehuels/rankplot/pkg/sink"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := httptest.NewServer(New(pipeline.NewRunner(nil, nil, logger), logger))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/v1/render", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("response should carry a request ID")
	}
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("%s = %q, want abc-123", RequestIDHeader, got)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		contains    string
	}{
		{
			name:        "svg default",
			body:        `{"data": [{"a": 10, "b": 30}, {"a": 20, "b": 20}]}`,
			contentType: "image/svg+xml",
			contains:    "<svg",
		},
		{
			name:        "json export",
			body:        `{"data": {"values": [[1, 2], [3, 4]]}, "format": "json"}`,
			contentType: "application/json",
			contains:    `"layout"`,
		},
		{
			name:        "png",
			body:        `{"data": [[1, 2]], "format": "png", "options": {"scale": 1}}`,
			contentType: "image/png",
			contains:    "PNG",
		},
		{
			name:        "toml document",
			body:        `{"data": "[x]\na = 1\nb = 2\n", "doc_format": "toml", "options": {"title": "T"}}`,
			contentType: "image/svg+xml",
			contains:    "<title>T</title>",
		},
		{
			name:        "plot options",
			body:        `{"data": [[5, 3]], "options": {"plot": {"color": ["red", "blue"], "hide_values": true}}}`,
			contentType: "image/svg+xml",
			contains:    "#ff0000",
		},
	}

	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, tt.body)
			data, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body %s", resp.StatusCode, data)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !strings.Contains(string(data), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestRenderJSONDocument(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, `{"data": {"2010": {"a": 1, "b": 2}}, "format": "json"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var doc sink.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Layout.Columns) != 1 || doc.Layout.Columns[0].Label != "2010" {
		t.Errorf("columns = %+v, want one column labeled 2010", doc.Layout.Columns)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed body", `{"data":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"data": [[1]], "bogus": 1}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing data", `{"format": "svg"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad format", `{"data": [[1]], "format": "gif"}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad doc format", `{"data": [[1]], "doc_format": "yaml"}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"toml not a string", `{"data": [[1]], "doc_format": "toml"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"ragged", `{"data": [[1, 2], [3]]}`, http.StatusBadRequest, "INVALID_SHAPE"},
		{"unsupported", `{"data": 42}`, http.StatusBadRequest, "UNSUPPORTED_INPUT"},
		{"bad option", `{"data": [[1]], "options": {"plot": {"hspace": 12}}}`, http.StatusBadRequest, "INVALID_OPTION"},
		{"oversized png", `{"data": [[1]], "format": "png", "options": {"width": 1000, "height": 1000, "dpi": 1000}}`, http.StatusBadRequest, "INVALID_OPTION"},
		{"oversized png scale", `{"data": [[1]], "format": "png", "options": {"scale": 100}}`, http.StatusBadRequest, "INVALID_OPTION"},
	}

	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Code != tt.code {
				t.Errorf("code = %q (%s), want %q", body.Code, body.Message, tt.code)
			}
			if body.RequestID == "" {
				t.Error("error body should carry the request ID")
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRenderMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/v1/render")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}
