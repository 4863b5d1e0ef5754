package plot

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"Separator/internal/calc/separator"
)

type Handler struct{}

// Render answers with the cross-section as svg (default) or png (?format=png).
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	var input separator.Config
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := separator.Calculate(input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	contentType := "image/svg+xml"
	switch r.URL.Query().Get("format") {
	case "", "svg":
		err = SVG(&buf, res.Directive)
	case "png":
		contentType = "image/png"
		err = PNG(&buf, res.Directive)
	default:
		http.Error(w, "Unknown format", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("plot: %v", err)
		http.Error(w, "Plot generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if res.Display != "" {
		w.Header().Set("X-Interface-Radius", res.Display)
	}
	w.Write(buf.Bytes())
}
