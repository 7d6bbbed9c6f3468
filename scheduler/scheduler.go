package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper removes reservations that point at deleted hotels.
type Sweeper interface {
	SweepOrphans(ctx context.Context) (int, error)
}

const sweepTimeout = 5 * time.Minute

// StartScheduler runs the orphan sweep on spec, a standard cron expression
// or a descriptor such as "@every 1h". Stop the returned cron on shutdown.
func StartScheduler(spec string, loc *time.Location, sweeper Sweeper) (*cron.Cron, error) {
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() { RunSweep(sweeper) }); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("Scheduler started: sweep %s", spec)
	return c, nil
}

func RunSweep(sweeper Sweeper) {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	removed, err := sweeper.SweepOrphans(ctx)
	if err != nil {
		log.Printf("sweep failed after removing %d: %v", removed, err)
		return
	}
	if removed > 0 {
		log.Printf("sweep removed %d orphaned reservations", removed)
	}
}
