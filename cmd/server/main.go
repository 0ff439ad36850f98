package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"certvault/internal/audit"
	dochandler "certvault/internal/document/handler"
	docservice "certvault/internal/document/service"
	docstore "certvault/internal/document/store"
	idhandler "certvault/internal/identity/handler"
	idservice "certvault/internal/identity/service"
	idstore "certvault/internal/identity/store"
	"certvault/internal/platform/config"
	"certvault/internal/platform/httpserver"
	"certvault/internal/platform/logger"
	"certvault/internal/platform/metrics"
	platformredis "certvault/internal/platform/redis"
	"certvault/internal/session"
	httptransport "certvault/internal/transport/http"
	"certvault/internal/verify"
)

const auditBuffer = 256

// main wires dependencies and supervises the server plus the audit worker.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	m := metrics.New(prometheus.DefaultRegisterer)

	// Store backends: postgres wins over redis, redis over memory.
	var (
		users   idservice.UserStore
		pending idservice.PendingStore
		docs    docservice.DocumentStore
	)
	switch {
	case cfg.DatabaseURL != "":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = idstore.Schema(ctx, db)
		if err == nil {
			err = docstore.Schema(ctx, db)
		}
		cancel()
		if err != nil {
			log.Error("apply schema", "error", err)
			os.Exit(1)
		}
		users = idstore.NewPostgresUserStore(db)
		pending = idstore.NewPostgresPendingStore(db)
		docs = docstore.NewPostgresDocumentStore(db)
		log.Info("using postgres stores")
	case cfg.Redis.URL != "":
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			log.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		users = idstore.NewRedisUserStore(client.Client)
		pending = idstore.NewRedisPendingStore(client.Client, cfg.PendingTTL)
		docs = docstore.NewRedisDocumentStore(client.Client)
		log.Info("using redis stores")
	default:
		users = idstore.NewInMemoryUserStore()
		pending = idstore.NewInMemoryPendingStore()
		docs = docstore.NewInMemoryDocumentStore()
		log.Warn("using in-memory stores, data will not survive restarts")
	}

	var provider verify.Provider
	if cfg.Twilio.Configured() {
		provider = verify.NewTwilioProvider(cfg.Twilio)
	} else {
		provider = verify.StaticProvider{Code: "000000"}
		log.Warn("twilio not configured, using static verification code")
	}

	var sink audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.Kafka)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		sink = kafkaSink
		log.Info("audit events go to kafka", "topic", cfg.Kafka.AuditTopic)
	} else {
		sink = audit.NewMemorySink()
	}
	defer sink.Close()

	publisher := audit.NewPublisher(auditBuffer, log)
	worker := audit.NewWorker(sink, publisher.Inbox(), log)

	sessions := session.New(cfg.JWTSigningKey, cfg.SessionTTL)

	identitySvc := idservice.NewService(users, pending, docs, provider, sessions, publisher, m)
	documentSvc := docservice.NewService(docs, users, publisher, m)

	router := httptransport.NewRouter(
		idhandler.New(identitySvc, log, m),
		dochandler.New(documentSvc, log, m, sessions, cfg.AllowLegacyHeaderAuth),
	)
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(ctx)
	})
	g.Go(func() error {
		log.Info("starting certvault", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
