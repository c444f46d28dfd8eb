// Command auditsink drains the audit topic into PostgreSQL. Compliance and
// security events are persisted for the retention window; routine
// operational events are only logged.
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"

	_ "github.com/lib/pq"

	"workpaper/internal/audit"
	auditpostgres "workpaper/internal/audit/store/postgres"
	"workpaper/internal/platform/config"
	"workpaper/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New()

	if cfg.PostgresURL == "" {
		slogFatal("auditsink requires WORKPAPER_POSTGRES_URL", nil)
	}
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		slogFatal("failed to open postgres", err)
	}
	defer db.Close()
	store := auditpostgres.New(db)

	persist := audit.HandlerFunc(func(ctx context.Context, event audit.Event) error {
		return store.Append(ctx, event)
	})
	logOnly := audit.HandlerFunc(func(ctx context.Context, event audit.Event) error {
		log.InfoContext(ctx, "audit event",
			"action", event.Action, "actor_id", event.ActorID, "outcome", event.Outcome)
		return nil
	})

	consumer, err := audit.NewConsumer(cfg.KafkaBrokers, cfg.AuditTopic, "workpaper-auditsink",
		audit.WithConsumerLogger(log),
		audit.WithFallbackHandler(logOnly),
	)
	if err != nil {
		slogFatal("failed to create audit consumer", err)
	}
	defer consumer.Close()

	consumer.Register(audit.CategoryCompliance, persist)
	consumer.Register(audit.CategorySecurity, persist)
	consumer.Register(audit.CategoryOperations, logOnly)

	log.InfoContext(ctx, "audit sink started",
		"brokers", cfg.KafkaBrokers, "topic", cfg.AuditTopic)
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		slogFatal("audit consumer stopped", err)
	}
}

func slogFatal(msg string, err error) {
	logger.New().Error(msg, "error", err)
	os.Exit(1)
}
