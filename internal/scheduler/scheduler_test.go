package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/fakhrymubarak/weatherwise/internal/model"
	"github.com/stretchr/testify/assert"
)

type recordingRepo struct {
	mu        sync.Mutex
	locations []string
	days      []int
	deadlines []bool
	failFor   string
}

func (r *recordingRepo) GetForecast(ctx context.Context, location string, days int) (*model.WeatherRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	r.locations = append(r.locations, location)
	r.days = append(r.days, days)
	r.deadlines = append(r.deadlines, hasDeadline)
	if location == r.failFor {
		return nil, errors.New("upstream down")
	}
	return &model.WeatherRecord{Location: location}, nil
}

func (r *recordingRepo) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]string(nil), r.locations...)
	sort.Strings(out)
	return out
}

func TestWarm_FetchesEveryLocation(t *testing.T) {
	repo := &recordingRepo{failFor: "atlantis"}
	s := New([]string{"london", "atlantis", "paris"}, time.Hour, repo)

	s.warm(context.Background())

	assert.Equal(t, []string{"atlantis", "london", "paris"}, repo.seen())
	for i := range repo.days {
		assert.Equal(t, model.MaxForecastDays, repo.days[i])
		assert.True(t, repo.deadlines[i], "each fetch runs under a timeout")
	}
}

func TestStart_NoLocations(t *testing.T) {
	repo := &recordingRepo{}
	s := New(nil, time.Minute, repo)

	assert.NoError(t, s.Start())
	defer s.Stop()

	assert.Empty(t, s.scheduler.Jobs())
	assert.Empty(t, repo.seen())
}

func TestStart_RunsImmediately(t *testing.T) {
	repo := &recordingRepo{}
	s := New([]string{"london"}, time.Hour, repo)

	assert.NoError(t, s.Start())
	defer s.Stop()

	assert.Len(t, s.scheduler.Jobs(), 1)
	assert.Eventually(t, func() bool {
		return len(repo.seen()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStop_Idempotent(t *testing.T) {
	s := New([]string{"london"}, time.Hour, &recordingRepo{})
	s.Stop()
	s.Stop()
}
