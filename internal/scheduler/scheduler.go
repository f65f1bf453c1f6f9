// Package scheduler keeps the forecast cache warm for frequently asked
// locations.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/fakhrymubarak/weatherwise/internal/config"
	"github.com/fakhrymubarak/weatherwise/internal/model"
	"github.com/fakhrymubarak/weatherwise/internal/repository"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const fetchTimeout = 30 * time.Second

// Scheduler periodically refreshes the cached forecast of each configured location.
type Scheduler struct {
	scheduler *gocron.Scheduler
	repo      repository.WeatherRepository
	locations []string
	interval  time.Duration
	log       *zap.SugaredLogger
}

// New creates a new Scheduler.
func New(locations []string, interval time.Duration, repo repository.WeatherRepository) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		repo:      repo,
		locations: locations,
		interval:  interval,
		log:       config.GetLogger(),
	}
}

// Start schedules the warm-up job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.log.Infow("Cache warmer has no locations configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(func() {
		s.warm(context.Background())
	})
	if err != nil {
		return err
	}

	s.log.Infow("Cache warmer started", "locations", s.locations, "interval", interval)
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// warm fetches the full horizon for every location concurrently.
func (s *Scheduler) warm(ctx context.Context) {
	var wg sync.WaitGroup
	for _, loc := range s.locations {
		loc := loc // per-iteration copy (go 1.21 loop semantics)
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()

			if _, err := s.repo.GetForecast(ctx, loc, model.MaxForecastDays); err != nil {
				s.log.Warnw("Cache warm-up failed", "location", loc, "error", err)
			}
		}()
	}
	wg.Wait()
	s.log.Debugw("Cache warm-up completed", "locations", len(s.locations))
}
