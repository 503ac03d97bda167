package main

import (
	"context"
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/flaira/flaira/internal/adapters/postgres"
	"github.com/flaira/flaira/internal/adapters/resend"
	"github.com/flaira/flaira/internal/pkg/config"
	"github.com/flaira/flaira/internal/pkg/logging"
	"github.com/flaira/flaira/internal/workflows"
)

func main() {
	cfg, err := config.Load("flaira-mailer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("info", "json")

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, workflows.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.InviteDeliveryWorkflow)
	w.RegisterActivity(&workflows.InviteActivities{
		Mailer:  resend.New(cfg.Resend.APIKey, cfg.Resend.From, cfg.Server.WebURL),
		Invites: postgres.NewInviteRepo(db),
	})

	log.Println("mailer worker started")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
