package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"workpaper/internal/audit"
	auditmemory "workpaper/internal/audit/store/memory"
	auditpostgres "workpaper/internal/audit/store/postgres"
	"workpaper/internal/bulkadmin"
	bulkmetrics "workpaper/internal/bulkadmin/metrics"
	businessservice "workpaper/internal/business/service"
	businessstore "workpaper/internal/business/store"
	identityservice "workpaper/internal/identity/service"
	identitystore "workpaper/internal/identity/store"
	jwttoken "workpaper/internal/jwt_token"
	paperservice "workpaper/internal/paper/service"
	paperstore "workpaper/internal/paper/store"
	"workpaper/internal/permission"
	permissionmetrics "workpaper/internal/permission/metrics"
	"workpaper/internal/platform/config"
	"workpaper/internal/platform/httpserver"
	"workpaper/internal/platform/logger"
	platformredis "workpaper/internal/platform/redis"
	"workpaper/internal/role"
	rolemetrics "workpaper/internal/role/metrics"
	httptransport "workpaper/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	// Stores: Postgres when configured, in-memory otherwise.
	var (
		identities identitystore.Store
		papers     paperstore.Store
		businesses businessstore.Store
		auditStore audit.Store
	)
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		identities = identitystore.NewPostgres(pool)
		papers = paperstore.NewPostgres(pool)
		businesses = businessstore.NewPostgres(pool)

		auditDB, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("failed to open audit database", "error", err)
			os.Exit(1)
		}
		defer auditDB.Close()
		auditStore = auditpostgres.New(auditDB)
	} else {
		identities = identitystore.NewInMemory()
		papers = paperstore.NewInMemory()
		businesses = businessstore.NewInMemory()
		auditStore = auditmemory.New()
	}

	var publisher *audit.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := audit.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()

		// Requests enqueue events and return. The worker owns delivery to
		// kafka and flushes its inbox on shutdown.
		worker := audit.NewWorker(kafkaPublisher, cfg.AuditBuffer, log)
		workerCtx, stopWorker := context.WithCancel(ctx)
		defer stopWorker()
		go func() {
			if err := worker.Run(workerCtx); err != nil && err != context.Canceled {
				log.Error("audit worker stopped", "error", err)
			}
		}()
		publisher = audit.NewPublisher(worker)
	} else {
		publisher = audit.NewPublisher(auditStore)
	}

	// Role cache: redis when configured, in-process otherwise.
	var cache role.Cache
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		cache = role.NewRedisCache(redisClient.Client, cfg.RoleCacheTTL, log)
	} else {
		cache = role.NewMemoryCache(cfg.RoleCacheTTL)
	}

	roleEngine := role.NewEngine(papers, businesses,
		role.WithCache(cache),
		role.WithLogger(log),
		role.WithMetrics(rolemetrics.New()),
	)
	permissionService := permission.New(roleEngine, identities,
		permission.WithLogger(log),
		permission.WithMetrics(permissionmetrics.New()),
	)

	identitySvc := identityservice.New(identities, roleEngine, publisher, identityservice.WithLogger(log))
	paperSvc := paperservice.New(papers, businesses, identities, roleEngine, publisher, paperservice.WithLogger(log))
	businessSvc := businessservice.New(businesses, papers, roleEngine, publisher, businessservice.WithLogger(log))

	coordinator := bulkadmin.NewCoordinator(identities, permissionService, roleEngine,
		bulkadmin.Config{
			MaxBatchSize: cfg.Bulk.MaxBatchSize,
			Parallelism:  cfg.Bulk.Parallelism,
			Timeout:      cfg.Bulk.Timeout,
			UndoWindow:   cfg.Bulk.UndoWindow,
		},
		bulkadmin.WithLogger(log),
		bulkadmin.WithMetrics(bulkmetrics.New()),
		bulkadmin.WithPublisher(publisher),
	)

	tokens := jwttoken.NewService(cfg.JWTSigningKey, "workpaper", "workpaper-api")
	handler := httptransport.NewHandler(identitySvc, identitySvc, paperSvc, businessSvc,
		roleEngine, permissionService, coordinator, log)
	router := httptransport.NewRouter(handler, httptransport.RouterConfig{
		TokenValidator: tokens,
		AdminToken:     cfg.AdminToken,
		Logger:         log,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting workpaper server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
