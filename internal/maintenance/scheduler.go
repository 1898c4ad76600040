package maintenance

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/CodeMaverick-143/Project-Manager/internal/projects/repository"
	"github.com/CodeMaverick-143/Project-Manager/internal/storage/object"
)

// purgeAfterDays is how long soft-deleted projects stay recoverable.
const purgeAfterDays = 30

// Scheduler runs the nightly cleanup: hard-delete long-soft-deleted projects
// and remove their stored images.
type Scheduler struct {
	repo    *repository.Repo
	objects *object.Client
	cron    *cron.Cron
}

func NewScheduler(repo *repository.Repo, objects *object.Client) *Scheduler {
	return &Scheduler{
		repo:    repo,
		objects: objects,
		cron:    cron.New(),
	}
}

// Start schedules the nightly job at 03:00.
func (s *Scheduler) Start() {
	_, err := s.cron.AddFunc("0 3 * * *", s.runPurge)
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (purging nightly at 03:00)")
	s.cron.Start()
}

// Stop halts the scheduler; a running job finishes first.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	urls, err := s.repo.PurgeDeletedBefore(ctx, purgeAfterDays)
	if err != nil {
		log.Printf("Purge failed: %v", err)
		return
	}

	removed := 0
	for _, url := range urls {
		if err := s.objects.Remove(ctx, url); err != nil {
			if errors.Is(err, object.ErrDisabled) {
				break
			}
			log.Printf("Failed to remove stored image %s: %v", url, err)
			continue
		}
		removed++
	}

	log.Printf("Purge completed: %d projects removed, %d images cleaned at %s",
		len(urls), removed, time.Now().Format(time.RFC1123))
}
