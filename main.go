package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	auth "Separator/internal/auth"
	autodesign "Separator/internal/calc/premium/autodesign"
	batch "Separator/internal/calc/premium/batch"
	importer "Separator/internal/calc/premium/importer"
	recommend "Separator/internal/calc/premium/recommend"
	plot "Separator/internal/calc/plot"
	report "Separator/internal/calc/report"
	separator "Separator/internal/calc/separator"
	config "Separator/internal/config"
	presets "Separator/internal/presets"
	repo "Separator/internal/repo"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, cfg config.Config, userRepo repo.Repository) {
	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Repo: userRepo}
	presetH := &presets.PresetHandler{Repo: userRepo}

	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
	api.HandleFunc("/logout", authEnv.LogoutHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	secureApi.HandleFunc("/presets", presetH.List).Methods("GET")
	secureApi.HandleFunc("/presets", presetH.Create).Methods("POST")
	secureApi.HandleFunc("/presets/{id:[0-9]+}", presetH.Get).Methods("GET")
	secureApi.HandleFunc("/presets/{id:[0-9]+}", presetH.Delete).Methods("DELETE")
	secureApi.HandleFunc("/history", presetH.History).Methods("GET")

	separatorH := &separator.Handler{History: userRepo, UserID: auth.UserID}
	plotH := &plot.Handler{}
	reportH := &report.Handler{}
	batchH := &batch.Handler{}
	importerH := &importer.Handler{}
	recommendH := &recommend.Handler{}
	sweepH := &autodesign.Handler{}

	secureApi.HandleFunc("/tools/separator/defaults", separatorH.Defaults).Methods("GET")
	secureApi.HandleFunc("/tools/separator/calc", separatorH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/separator/plot", plotH.Render).Methods("POST")
	secureApi.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")
	secureApi.HandleFunc("/tools/separator/batch", batchH.Separator).Methods("POST")
	secureApi.HandleFunc("/tools/separator/import", importerH.Separator).Methods("POST")
	secureApi.HandleFunc("/tools/separator/recommend", recommendH.HeavyWeir).Methods("POST")
	secureApi.HandleFunc("/tools/separator/sweep", sweepH.Sweep).Methods("POST")

	// Login and main pages are static files served from ./static when present.
	authFileServer := http.FileServer(http.Dir("./static/auth"))
	mux.PathPrefix("/auth/").
		Handler(authEnv.RedirectIfLoggedIn(http.StripPrefix("/auth", authFileServer)))
	mainFileServer := http.FileServer(http.Dir("./static/main"))
	mux.PathPrefix("/").
		Handler(mainFileServer)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config error: ", err)
	}
	if err := cfg.RequireToken(); err != nil {
		log.Fatal(err)
	}

	db, err := repo.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Database error: ", err)
	}
	defer db.Close()

	mux := mux.NewRouter()
	HandleList(mux, cfg, repo.NewSQLRepository(db))
	handler := CORS(mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Starting server on %s", cfg.Addr)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")

	wg.Wait()
}
