package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	coloring "github.com/jaehwan-AI/coloring-web"
	"github.com/jaehwan-AI/coloring-web/internal/imageio"
)

// writeBoxSketch stores a 10×10 white sketch with a 1px black square ring
// two pixels in from the edge under the upload dir and returns its URL.
func writeBoxSketch(t *testing.T, srv *Server, name string) string {
	t.Helper()
	r := coloring.NewRaster(10, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c := coloring.White
			onRing := (x == 2 || x == 7) && y >= 2 && y <= 7 ||
				(y == 2 || y == 7) && x >= 2 && x <= 7
			if onRing {
				c = coloring.Black
			}
			r.SetColor(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := imageio.EncodePNG(&buf, r); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srv.cfg.UploadDir, name), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return "/uploads/" + name
}

func postFill(t *testing.T, h http.Handler, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/fill", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestFillEndpoint(t *testing.T) {
	srv, _, h := newTestServer(t)
	url := writeBoxSketch(t, srv, "sketch.png")

	rec := postFill(t, h, map[string]any{
		"url":  url,
		"taps": []map[string]any{{"x": 5, "y": 5, "color": "#e53935"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var out struct {
		ImageDataURL string `json:"image_data_url"`
		Painted      int    `json:"painted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Painted != 16 {
		t.Errorf("painted = %d, want 16 (the 4×4 interior)", out.Painted)
	}

	filled, _, err := imageio.DecodeDataURL(out.ImageDataURL)
	if err != nil {
		t.Fatal(err)
	}
	red := coloring.RGB(229, 57, 53)
	if got := filled.ColorAt(5, 5); got != red {
		t.Errorf("interior = %v, want %v", got, red)
	}
	if got := filled.ColorAt(2, 5); got != coloring.Black {
		t.Errorf("ring = %v, want black", got)
	}
	if got := filled.ColorAt(0, 0); got != coloring.White {
		t.Errorf("outer background = %v, want white", got)
	}

	// A second request for the same image reuses the cached mask.
	before := srv.masks.Stats()
	rec = postFill(t, h, map[string]any{
		"url":  url,
		"taps": []map[string]any{{"x": 5, "y": 5, "color": "#1e88e5"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("second fill status = %d", rec.Code)
	}
	if after := srv.masks.Stats(); after.Hits != before.Hits+1 {
		t.Errorf("mask cache hits = %d, want %d", after.Hits, before.Hits+1)
	}
}

func TestFillEndpointRejects(t *testing.T) {
	srv, _, h := newTestServer(t)
	url := writeBoxSketch(t, srv, "sketch.png")

	tests := []struct {
		name    string
		payload map[string]any
		want    int
	}{
		{
			"no taps",
			map[string]any{"url": url},
			http.StatusBadRequest,
		},
		{
			"bad color",
			map[string]any{"url": url, "taps": []map[string]any{{"x": 5, "y": 5, "color": "red"}}},
			http.StatusBadRequest,
		},
		{
			"bad tolerance",
			map[string]any{"url": url, "tolerance": 0, "taps": []map[string]any{{"x": 5, "y": 5, "color": "#e53935"}}},
			http.StatusBadRequest,
		},
		{
			"missing image",
			map[string]any{"url": "/uploads/nope.png", "taps": []map[string]any{{"x": 5, "y": 5, "color": "#e53935"}}},
			http.StatusNotFound,
		},
		{
			"traversal url",
			map[string]any{"url": "/uploads/../sketch.png", "taps": []map[string]any{{"x": 5, "y": 5, "color": "#e53935"}}},
			http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := postFill(t, h, tt.payload); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want coloring.Color
		ok   bool
	}{
		{"#e53935", coloring.RGB(229, 57, 53), true},
		{"#FFFFFF", coloring.White, true},
		{"#000000", coloring.Black, true},
		{"e53935", coloring.Color{}, false},
		{"#e5393", coloring.Color{}, false},
		{"#e5393z", coloring.Color{}, false},
		{"", coloring.Color{}, false},
	}
	for _, tt := range tests {
		got, err := parseHexColor(tt.in)
		if tt.ok != (err == nil) {
			t.Errorf("parseHexColor(%q) err = %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("parseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
