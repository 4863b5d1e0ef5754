package presets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"Separator/internal/auth"
	"Separator/internal/calc/separator"
	"Separator/internal/repo"
)

type fixture struct {
	router *mux.Router
	repo   *repo.SQLRepository
	env    *auth.Authenv
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := repo.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	r := repo.NewSQLRepository(db)
	env := &auth.Authenv{JWTkey: []byte("test-key"), Repo: r}
	h := &PresetHandler{Repo: r}

	router := mux.NewRouter()
	api := router.PathPrefix("/api/user").Subrouter()
	api.Use(env.AuthMiddleware)
	api.HandleFunc("/presets", h.List).Methods("GET")
	api.HandleFunc("/presets", h.Create).Methods("POST")
	api.HandleFunc("/presets/{id:[0-9]+}", h.Get).Methods("GET")
	api.HandleFunc("/presets/{id:[0-9]+}", h.Delete).Methods("DELETE")
	api.HandleFunc("/history", h.History).Methods("GET")
	return fixture{router: router, repo: r, env: env}
}

func (f fixture) do(t *testing.T, userID int, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	token, err := f.env.NewToken(userID, fmt.Sprintf("user%d", userID), time.Now())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestPresetLifecycle(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, 1, http.MethodPost, "/api/user/presets", CreatePresetRequest{Name: "Bowl A", Config: separator.DefaultConfig()})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created repo.Preset
	json.NewDecoder(w.Body).Decode(&created)

	w = f.do(t, 1, http.MethodGet, "/api/user/presets", nil)
	var list []repo.Preset
	json.NewDecoder(w.Body).Decode(&list)
	if len(list) != 1 || list[0].Name != "Bowl A" {
		t.Fatalf("unexpected list %+v", list)
	}

	path := fmt.Sprintf("/api/user/presets/%d", created.ID)
	if w = f.do(t, 2, http.MethodGet, path, nil); w.Code != http.StatusNotFound {
		t.Fatalf("foreign get: expected 404, got %d", w.Code)
	}
	if w = f.do(t, 1, http.MethodGet, path, nil); w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	if w = f.do(t, 1, http.MethodDelete, path, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	if w = f.do(t, 1, http.MethodDelete, path, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", w.Code)
	}
}

func TestCreatePresetValidation(t *testing.T) {
	f := newFixture(t)
	bad := separator.DefaultConfig()
	bad.Rho1KGM3 = 10
	for _, req := range []CreatePresetRequest{
		{Name: "  ", Config: separator.DefaultConfig()},
		{Name: "bad", Config: bad},
	} {
		if w := f.do(t, 1, http.MethodPost, "/api/user/presets", req); w.Code != http.StatusBadRequest {
			t.Fatalf("%+v: expected 400, got %d", req, w.Code)
		}
	}
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	cfg := separator.DefaultConfig()
	for i := 0; i < 3; i++ {
		if err := f.repo.RecordCalculation(context.Background(), 5, cfg, separator.ComputeInterface(cfg)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	w := f.do(t, 5, http.MethodGet, "/api/user/history?limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list []repo.Calculation
	json.NewDecoder(w.Body).Decode(&list)
	if len(list) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(list))
	}

	if w = f.do(t, 5, http.MethodGet, "/api/user/history?limit=x", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", w.Code)
	}
}
