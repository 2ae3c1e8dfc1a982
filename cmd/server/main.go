package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vaultrun/scaperoom-backend/internal/config"
	"github.com/vaultrun/scaperoom-backend/internal/httpapi"
	"github.com/vaultrun/scaperoom-backend/internal/hub"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, log.Named("hub"))
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: httpapi.SetupRoutes(h, cfg.PublicURL, log.Named("api")),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		return srv.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
