package separator

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
)

// Recorder stores a finished calculation for the signed-in user.
type Recorder interface {
	RecordCalculation(ctx context.Context, userID int, in Config, res Result) error
}

type Handler struct {
	History Recorder
	UserID  func(ctx context.Context) (int, bool)
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Config
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if h.History != nil && h.UserID != nil {
		if userID, ok := h.UserID(r.Context()); ok {
			if err := h.History.RecordCalculation(r.Context(), userID, input, res.Result); err != nil {
				log.Printf("record calculation: %v", err)
			}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// Defaults returns the starting values of the tool form.
func (h *Handler) Defaults(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DefaultConfig())
}
