package service

import (
	"context"
	"log"
	"time"

	"github.com/pulseapp/auth-service/internal/repository"
)

// CleanupWorker periodically deletes expired sessions, registration
// sessions and OTPs. Expiry is already enforced at read time everywhere;
// this is pure garbage collection.
type CleanupWorker struct {
	repos    *repository.Repositories
	interval time.Duration
}

func NewCleanupWorker(repos *repository.Repositories, interval time.Duration) *CleanupWorker {
	return &CleanupWorker{repos: repos, interval: interval}
}

func (w *CleanupWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs one garbage collection pass.
func (w *CleanupWorker) Sweep(ctx context.Context) {
	if n, err := w.repos.Session.DeleteExpired(ctx); err != nil {
		log.Printf("ERROR [cleanup] expired sessions: %v", err)
	} else if n > 0 {
		log.Printf("INFO [cleanup] removed %d expired sessions", n)
	}

	if n, err := w.repos.Registration.DeleteExpired(ctx); err != nil {
		log.Printf("ERROR [cleanup] expired registration sessions: %v", err)
	} else if n > 0 {
		log.Printf("INFO [cleanup] removed %d expired registration sessions", n)
	}

	if n, err := w.repos.OTP.DeleteExpired(ctx); err != nil {
		log.Printf("ERROR [cleanup] expired OTPs: %v", err)
	} else if n > 0 {
		log.Printf("INFO [cleanup] removed %d expired OTPs", n)
	}
}
