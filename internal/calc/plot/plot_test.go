package plot

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Separator/internal/calc/separator"
)

func validConfig() separator.Config {
	c := separator.DefaultConfig()
	c.R2Meters = math.Sqrt((850*0.01 + 150*0.0225) / 1000)
	return c
}

func directive(c separator.Config) separator.RenderDirective {
	return separator.BuildDirective(c, separator.ComputeInterface(c))
}

func TestSVGValid(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(&buf, directive(validConfig())); err != nil {
		t.Fatalf("svg: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Fatal("output is not an svg document")
	}
	if !strings.Contains(out, separator.ColorLight) {
		t.Fatal("expected light phase band")
	}
	if !strings.Contains(out, "stroke-dasharray") {
		t.Fatal("expected dashed rising channel marker")
	}
	if !strings.Contains(out, "0.110") {
		t.Fatal("expected tick labels")
	}
}

func TestSVGInvalidShowsWarning(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(&buf, directive(separator.DefaultConfig())); err != nil {
		t.Fatalf("svg: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "fill:"+separator.ColorLight) {
		t.Fatal("invalid result must not draw the light phase")
	}
	if !strings.Contains(out, "bowl radius") {
		t.Fatal("expected warning text")
	}
}

func TestXPixel(t *testing.T) {
	d := separator.RenderDirective{XMin: 0, XMax: 0.2}
	if x := xpx(d, 0); x != plotLeft {
		t.Fatalf("expected %d, got %d", plotLeft, x)
	}
	if x := xpx(d, 0.2); x != plotRight {
		t.Fatalf("expected %d, got %d", plotRight, x)
	}
}

func TestChartSeries(t *testing.T) {
	graph := Chart(directive(validConfig()))
	if len(graph.Series) != 5 {
		t.Fatalf("expected 2 bands + 3 markers, got %d series", len(graph.Series))
	}
	if len(graph.XAxis.Ticks) != separator.TickCount {
		t.Fatalf("expected %d ticks, got %d", separator.TickCount, len(graph.XAxis.Ticks))
	}
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := PNG(&buf, directive(validConfig())); err != nil {
		t.Fatalf("png: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatal("output is not a png")
	}
}

func TestHandlerRender(t *testing.T) {
	h := &Handler{}
	body, _ := json.Marshal(validConfig())

	req := httptest.NewRequest(http.MethodPost, "/plot?format=png", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Render(w, req)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("unexpected response %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	if w.Header().Get("X-Interface-Radius") != "0.1500 m" {
		t.Fatalf("unexpected radius header %q", w.Header().Get("X-Interface-Radius"))
	}

	req = httptest.NewRequest(http.MethodPost, "/plot?format=gif", bytes.NewReader(body))
	w = httptest.NewRecorder()
	h.Render(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", w.Code)
	}
}
