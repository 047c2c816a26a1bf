package stores

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor purges expired trace records on a schedule. The trace table is an
// audit convenience, not durable storage, so old rows are simply dropped.
type Janitor struct {
	scheduler *cron.Cron
	store     TraceStore
	retention time.Duration
	logger    *log.Logger
}

// NewJanitor creates a janitor that keeps trace records for the given
// retention window.
func NewJanitor(store TraceStore, retention time.Duration, logger *log.Logger) *Janitor {
	if logger == nil {
		logger = log.Default()
	}
	return &Janitor{
		scheduler: cron.New(),
		store:     store,
		retention: retention,
		logger:    logger,
	}
}

// Start runs one purge immediately and then hourly.
func (j *Janitor) Start() error {
	if _, err := j.scheduler.AddFunc("@hourly", j.purge); err != nil {
		return err
	}
	j.purge()
	j.scheduler.Start()
	return nil
}

// Stop halts the schedule. Does not wait for an in-flight purge.
func (j *Janitor) Stop() {
	j.scheduler.Stop()
}

func (j *Janitor) purge() {
	cutoff := time.Now().Add(-j.retention)
	removed, err := j.store.PurgeOlderThan(cutoff)
	if err != nil {
		j.logger.Printf("Trace purge failed: %v", err)
		return
	}
	if removed > 0 {
		j.logger.Printf("Trace purge removed %d records older than %s", removed, cutoff.Format(time.RFC3339))
	}
}
