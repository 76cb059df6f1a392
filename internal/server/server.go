package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	v1 "github.com/zeroverload/SmartLib/internal/api/v1"
	"github.com/zeroverload/SmartLib/internal/config"
	"github.com/zeroverload/SmartLib/internal/library"
	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/store"
	"github.com/zeroverload/SmartLib/internal/version"
)

const pingTimeout = 5 * time.Second

// StartServer starts the HTTP server
func StartServer(ctx context.Context, store *store.Store, svc *library.Service, secret string) (*http.Server, error) {
	addr := config.Opts.Host
	port := config.Opts.Port
	tokenDuration := time.Duration(config.Opts.AccessTokenHours) * time.Hour
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", addr, port),
		Handler:           setupHandler(store, svc, secret, tokenDuration),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	startHTTPServer(server)

	return server, nil
}

func startHTTPServer(server *http.Server) {
	go func() {
		log.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()
}

func setupHandler(store *store.Store, svc *library.Service, secret string, tokenDuration time.Duration) http.Handler {
	router := mux.NewRouter()

	// Setup the API routes
	v1.Server(router, v1.NewHandler(svc, secret, tokenDuration))

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			log.Error("Healthcheck failed", zap.Error(err))
			http.Error(w, "Database Connection Error", http.StatusInternalServerError)
			return
		}

		w.Write([]byte("OK"))
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(version.GetCurrentVersion()))
	}).Name("version")

	return router
}
