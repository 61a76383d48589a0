package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"food-donation-api-server/internal/store"
)

// Scheduler runs the periodic campaign sweep: active campaigns whose end date
// has passed are marked completed so they drop out of public listings and
// stop accepting contributions.
type Scheduler struct {
	Campaigns store.Campaigns
	Log       zerolog.Logger

	cron *cron.Cron
}

func New(campaigns store.Campaigns, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Campaigns: campaigns,
		Log:       log,
		cron:      cron.New(),
	}
}

// Start registers the nightly sweep and launches the cron loop. The sweep
// also runs once immediately so a restart never leaves stale campaigns open
// until midnight.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@midnight", s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	go s.sweep()
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	closed, err := s.Campaigns.CloseExpired(ctx, time.Now())
	if err != nil {
		s.Log.Error().Err(err).Msg("campaign sweep failed")
		return
	}
	if closed > 0 {
		s.Log.Info().Int64("closed", closed).Msg("expired campaigns completed")
	}
}
