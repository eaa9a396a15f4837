// Package main provides the tower server binary: the realtime WebSocket
// presence server and its REST API on a single listening port.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/emberdragonc/ember-tower/internal/config"
	"github.com/emberdragonc/ember-tower/internal/httpapi"
	"github.com/emberdragonc/ember-tower/internal/observability"
	"github.com/emberdragonc/ember-tower/internal/server"
	"github.com/emberdragonc/ember-tower/internal/tower/broadcast"
	"github.com/emberdragonc/ember-tower/internal/tower/catalog"
	"github.com/emberdragonc/ember-tower/internal/tower/dispatch"
	"github.com/emberdragonc/ember-tower/internal/tower/room"
	"github.com/emberdragonc/ember-tower/internal/tower/session"
	"github.com/emberdragonc/ember-tower/internal/transport/ws"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting tower server",
		zap.String("addr", cfg.Server.Addr()),
	)

	// Load the room catalog.
	catalogStart := time.Now()
	entries := catalog.BuiltIn()
	if cfg.Rooms.CatalogPath != "" {
		entries, err = catalog.LoadFromFile(cfg.Rooms.CatalogPath)
		if err != nil {
			logger.Fatal("loading room catalog", zap.Error(err))
		}
	}
	registry, err := room.NewRegistry(entries)
	if err != nil {
		logger.Fatal("creating room registry", zap.Error(err))
	}
	logger.Info("room catalog loaded",
		zap.Int("rooms", registry.RoomCount()),
		zap.Duration("elapsed", time.Since(catalogStart)),
	)

	// Wire the realtime core.
	store := session.NewStore()
	fanout := broadcast.NewFanout(logger, cfg.WebSocket.OutboxDepth)
	dispatcher := dispatch.NewDispatcher(logger, store, registry, fanout, cfg.Chat.MaxMessageLength)
	wsServer := ws.NewServer(logger, dispatcher, fanout, cfg.WebSocket)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsServer.Handler())
	httpapi.NewAPI(logger, registry, store).Register(mux)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: mux,
	}

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)

	lifecycle.Add("http", &server.FuncService{
		StartFn: func() error {
			logger.Info("http server listening",
				zap.String("addr", cfg.Server.Addr()),
			)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving on %s: %w", cfg.Server.Addr(), err)
			}
			return nil
		},
		StopFn: func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("http shutdown", zap.Error(err))
			}
		},
	})

	logger.Info("tower server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Int("rooms", registry.RoomCount()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
