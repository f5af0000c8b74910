package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/rankplot/pkg/canvas"
	"github.com/matzehuels/rankplot/pkg/errors"
	"github.com/matzehuels/rankplot/pkg/rank"
)

func testScene() canvas.Scene {
	return canvas.Scene{
		Width:      100,
		Height:     50,
		Background: "#ffffff",
		Rects: []canvas.SceneRect{
			{Box: canvas.Box{X: 10, Y: 10, W: 40, H: 30}, Fill: "#ff0000", Label: "a"},
			{Box: canvas.Box{X: 60, Y: 10, W: 30, H: 30}, Fill: "#0000ff", Label: "b"},
		},
		Texts: []canvas.SceneText{
			{X: 12, Baseline: 20, Lines: []string{"New York", "City"}, Size: 8, LineHeight: 9.6, Fill: "#ffffff", Bold: true},
			{X: 62, Baseline: 20, Lines: []string{"a < b"}, Size: 8, LineHeight: 9.6, Fill: "#ffffff"},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(testScene(), WithTitle("Cities & Towns")))

	for _, want := range []string{
		`<svg`,
		`viewBox="0 0 100 50"`,
		`<title>Cities &amp; Towns</title>`,
		`fill:#ff0000`,
		`fill:#0000ff`,
		`>New York</text>`,
		`>City</text>`,
		`a &lt; b`,
		`font-weight:bold`,
		`</svg>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
	if strings.Contains(out, "@font-face") {
		t.Error("RenderSVG() embedded fonts without WithEmbeddedFonts")
	}
	if strings.Contains(out, "stroke:#000000") {
		t.Error("RenderSVG() drew a frame for a scene without one")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	scene := testScene()
	scene.Frame = &canvas.Box{X: 5, Y: 5, W: 90, H: 40}

	out := string(RenderSVG(scene, WithEmbeddedFonts(), WithBackground("black")))
	if strings.Count(out, "@font-face") != 2 {
		t.Errorf("RenderSVG() font faces = %d, want 2", strings.Count(out, "@font-face"))
	}
	if !strings.Contains(out, "fill:#000000") {
		t.Error("RenderSVG() background not replaced")
	}
	if !strings.Contains(out, "stroke:#000000") {
		t.Error("RenderSVG() frame missing")
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(testScene())
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("RenderPNG() size = %dx%d, want 200x100", b.Dx(), b.Dy())
	}

	tests := []struct {
		name    string
		x, y    int
		r, g, b uint32
	}{
		{"background", 2, 2, 0xffff, 0xffff, 0xffff},
		{"red rect", 90, 70, 0xffff, 0, 0},
		{"blue rect", 170, 70, 0, 0, 0xffff},
	}
	for _, tt := range tests {
		r, g, b, _ := img.At(tt.x, tt.y).RGBA()
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("%s pixel = %04x %04x %04x, want %04x %04x %04x", tt.name, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestRenderPNGScale(t *testing.T) {
	for _, tt := range []struct {
		scale float64
		want  int
	}{
		{1, 100},
		{3, 300},
		{0, 200},
	} {
		data, err := RenderPNG(testScene(), WithScale(tt.scale))
		if err != nil {
			t.Fatalf("RenderPNG() error = %v", err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("png.Decode() error = %v", err)
		}
		if got := img.Bounds().Dx(); got != tt.want {
			t.Errorf("RenderPNG(scale=%v) width = %d, want %d", tt.scale, got, tt.want)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	layout := rank.Layout{MaxRowLength: 80, Width: 40}
	data, err := RenderJSON(testScene(), layout)
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if doc.Layout.Width != 40 || len(doc.Scene.Rects) != 2 || doc.Scene.Texts[0].Lines[1] != "City" {
		t.Errorf("RenderJSON() round trip = %+v", doc)
	}
}

func TestRenderPDF(t *testing.T) {
	data, err := RenderPDF(testScene())
	if !HasPDFSupport() {
		if !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("RenderPDF() without rsvg-convert error = %v, want %s", err, errors.ErrCodeInvalidFormat)
		}
		return
	}
	if err != nil {
		t.Fatalf("RenderPDF() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("RenderPDF() output does not start with %%PDF")
	}
}
