// Command main runs a one-shot counter reconciliation pass against the
// membership ledger. Intended for cron or manual repair after incidents.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/repository"
)

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "Maximum duration for the reconciliation pass")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	corrections, err := repository.NewReconciler(db).Run(ctx)
	if err != nil {
		log.Fatalf("Reconciliation failed: %v", err)
	}

	if corrections.Total() == 0 {
		log.Println("All counters agree with the ledger, nothing to repair.")
		return
	}
	log.Printf("Repaired %d counters (post likes: %d, comment likes: %d, post comments: %d)",
		corrections.Total(), corrections.PostLikes, corrections.CommentLikes, corrections.PostComments)
}
