package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"traveltracker/internal/auth"
	"traveltracker/internal/config"
	"traveltracker/internal/server"
	"traveltracker/internal/storage/sqlite"
	"traveltracker/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authn := auth.NewPasswordAuthenticator(store)

	mux := http.NewServeMux()
	mux.Handle("/", server.New(store, authn, jwtManager).Handler())
	mux.Handle("/metrics", promhttp.Handler())

	// h2c allows HTTP/2 without TLS so clients behind a plain reverse proxy
	// can multiplex sync traffic.
	handler := h2c.NewHandler(mux, &http2.Server{})

	addr := ":" + cfg.Port
	slog.Info("sync server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
