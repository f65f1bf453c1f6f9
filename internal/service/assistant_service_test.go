package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fakhrymubarak/weatherwise/internal/model"
	"github.com/fakhrymubarak/weatherwise/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYorkRecord() *model.WeatherRecord {
	friday := time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC)
	return &model.WeatherRecord{
		Location: "New York",
		Current:  &model.CurrentConditions{TempC: 24, FeelsLikeC: 26, Humidity: 55, WindKph: 9, Description: "Sunny"},
		Forecast: []model.DailyForecast{
			{Date: friday, MaxTempC: 27, MinTempC: 19, AvgTempC: 23, Hourly: []model.HourlySample{{Hour: 12, ChanceOfRain: 10}}},
			{Date: friday.AddDate(0, 0, 1), MaxTempC: 25, MinTempC: 18, AvgTempC: 21, Hourly: []model.HourlySample{{Hour: 12, ChanceOfRain: 85}}},
		},
	}
}

func TestAssistantService_Ask(t *testing.T) {
	repo := &mockWeatherRepository{mockData: newYorkRecord()}
	svc := &AssistantService{WeatherRepo: repo}

	answer, err := svc.Ask(context.Background(), "Will it rain in New York tomorrow?")
	require.NoError(t, err)

	assert.Equal(t, "new york", repo.location)
	assert.Equal(t, 2, repo.days)
	assert.Equal(t, model.PeriodTomorrow, answer.Intent.TimePeriod)
	assert.Equal(t, model.AttributePrecipitation, answer.Intent.Attribute)
	assert.Equal(t, "new york", answer.Location)
	assert.Equal(t, "The chance of rain tomorrow in New York is 85%, so take an umbrella.", answer.Reply)
}

func TestAssistantService_Ask_RequestedHorizon(t *testing.T) {
	tests := []struct {
		question string
		days     int
	}{
		{"weather in paris", 1},
		{"weather in paris tomorrow", 2},
		{"weather in paris this weekend", model.MaxForecastDays},
		{"weather in paris this week", model.MaxForecastDays},
		{"weather in paris on monday", model.MaxForecastDays},
	}
	for _, tt := range tests {
		repo := &mockWeatherRepository{mockData: newYorkRecord()}
		svc := &AssistantService{WeatherRepo: repo}
		_, err := svc.Ask(context.Background(), tt.question)
		require.NoError(t, err)
		assert.Equal(t, tt.days, repo.days, tt.question)
	}
}

func TestAssistantService_Ask_RetrievalErrorsBecomeReplies(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", repository.ErrLocationNotFound, "Sorry, I couldn't retrieve weather data for Atlantis: location not found"},
		{"upstream down", repository.ErrExternalAPI, "Sorry, I couldn't retrieve weather data for Atlantis: weather service unavailable"},
		{"timeout", context.DeadlineExceeded, "Sorry, I couldn't retrieve weather data for Atlantis: the request timed out"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &AssistantService{WeatherRepo: &mockWeatherRepository{err: tt.err}}
			answer, err := svc.Ask(context.Background(), "how hot is it in atlantis")
			require.NoError(t, err)
			assert.Equal(t, tt.want, answer.Reply)
		})
	}
}

func TestAssistantService_Ask_NeedsLocation(t *testing.T) {
	repo := &mockWeatherRepository{mockData: newYorkRecord()}
	svc := &AssistantService{WeatherRepo: repo}

	answer, err := svc.Ask(context.Background(), "Is it going to rain tomorrow?")
	require.NoError(t, err)
	assert.Equal(t, AskLocationPrompt, answer.Reply)
	assert.True(t, answer.Intent.NeedsLocation)
	assert.Zero(t, repo.calls, "no fetch without a location")
}

func TestAssistantService_Ask_DefaultLocation(t *testing.T) {
	repo := &mockWeatherRepository{mockData: newYorkRecord()}
	svc := &AssistantService{WeatherRepo: repo, DefaultLocation: "New York"}

	answer, err := svc.Ask(context.Background(), "how humid is it?")
	require.NoError(t, err)
	assert.Equal(t, "New York", repo.location)
	assert.Equal(t, "New York", answer.Location)
	assert.Equal(t, "The humidity in New York is currently 55%.", answer.Reply)
}

func TestAssistantService_Ask_CachedFlag(t *testing.T) {
	record := newYorkRecord()
	record.Cached = true
	svc := &AssistantService{WeatherRepo: &mockWeatherRepository{mockData: record}}

	answer, err := svc.Ask(context.Background(), "weather in new york")
	require.NoError(t, err)
	assert.True(t, answer.Cached)
}

func TestAssistantService_Ask_EmptyQuestion(t *testing.T) {
	svc := &AssistantService{WeatherRepo: &mockWeatherRepository{}}
	_, err := svc.Ask(context.Background(), "   ")
	assert.True(t, errors.Is(err, ErrEmptyQuestion))
}

func TestNewAssistantService(t *testing.T) {
	svc := NewAssistantService()
	require.NotNil(t, svc)
	assert.NotNil(t, svc.WeatherRepo)
	assert.Empty(t, svc.DefaultLocation)
}
