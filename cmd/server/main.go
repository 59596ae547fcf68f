package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/example/choufli-orders/internal/access"
	"github.com/example/choufli-orders/internal/adapter/httpapi"
	"github.com/example/choufli-orders/internal/adapter/natsstan"
	"github.com/example/choufli-orders/internal/adapter/repo"
	"github.com/example/choufli-orders/internal/config"
	"github.com/example/choufli-orders/internal/domain"
	"github.com/example/choufli-orders/internal/telemetry"
	"github.com/example/choufli-orders/internal/usecase"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	log := telemetry.NewLogger("choufli-orders")
	defer func() { _ = log.Sync() }()

	var store domain.OrderStore
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		store = repo.NewPostgresStore(pool)
	} else {
		s, err := repo.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			log.Fatal("open sqlite", zap.String("path", cfg.DBPath), zap.Error(err))
		}
		defer s.Close()
		store = s
	}
	if err := store.Init(ctx); err != nil {
		log.Fatal("init schema", zap.Error(err))
	}

	var events domain.EventPublisher
	if cfg.NATSURL != "" {
		pub, err := natsstan.Connect(ctx, cfg.StanCluster, cfg.StanClient, cfg.NATSURL, cfg.StanSubject, log)
		if err != nil {
			// события вспомогательные, приём заказов важнее
			log.Warn("stan connect, events disabled", zap.Error(err))
		} else {
			events = pub
		}
	}

	srv := httpapi.NewServer(httpapi.Deps{
		Create:     usecase.CreateOrder{Store: store, Events: events},
		List:       usecase.ListOrders{Store: store},
		Delete:     usecase.DeleteOrder{Store: store, Events: events},
		Policy:     access.Policy{Secret: cfg.AdminSecret, AllowBasic: cfg.AllowBasic, AllowKey: cfg.AllowKey},
		StaticRoot: cfg.StaticRoot,
		Log:        log,
		Metrics:    telemetry.NewMetrics(prometheus.NewRegistry()),
	})

	hs := &http.Server{Addr: ":" + cfg.Port, Handler: srv.Router}
	go func() {
		log.Info("http listening", zap.String("addr", hs.Addr))
		if err := hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = hs.Shutdown(shutdownCtx)
}
