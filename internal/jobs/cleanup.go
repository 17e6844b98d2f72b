package jobs

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/gharnest/gharnest-backend/internal/storage"
)

// CleanupJob periodically clears expired phone OTP fields from user
// records. The email OTP cache needs no sweep: the memory backend checks
// expiry on read and Redis expires keys natively.
type CleanupJob struct {
	store storage.Store
	cron  *cron.Cron
}

// NewCleanupJob creates the scheduled cleanup job
func NewCleanupJob(store storage.Store) *CleanupJob {
	return &CleanupJob{
		store: store,
		cron:  cron.New(),
	}
}

// Start schedules the sweep every 10 minutes.
func (j *CleanupJob) Start() error {
	if _, err := j.cron.AddFunc("@every 10m", j.sweep); err != nil {
		return err
	}
	j.cron.Start()
	log.Println("OTP cleanup job scheduled (every 10m)")
	return nil
}

// Stop halts the schedule; a running sweep finishes first.
func (j *CleanupJob) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	log.Println("OTP cleanup job stopped")
}

func (j *CleanupJob) sweep() {
	cleared, err := j.store.ClearExpiredPhoneOTPs()
	if err != nil {
		log.Printf("OTP cleanup failed: %v", err)
		return
	}
	if cleared > 0 {
		log.Printf("OTP cleanup: cleared %d expired codes", cleared)
	}
}
