package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fakhrymubarak/weatherwise/internal/model"
	"github.com/fakhrymubarak/weatherwise/internal/repository"
)

var ErrWeatherService = errors.New("weather service error")

// WeatherServiceInterface serves raw weather records.
type WeatherServiceInterface interface {
	GetWeather(ctx context.Context, location string, days int) (*model.WeatherRecord, error)
}

type WeatherService struct {
	WeatherRepo repository.WeatherRepository
}

// NewWeatherService creates a WeatherService; without a repository it uses
// the Redis backed default.
func NewWeatherService(repo ...repository.WeatherRepository) *WeatherService {
	var weatherRepo repository.WeatherRepository
	if len(repo) > 0 && repo[0] != nil {
		weatherRepo = repo[0]
	} else {
		weatherRepo = repository.NewWeatherRepository()
	}
	return &WeatherService{WeatherRepo: weatherRepo}
}

func (s *WeatherService) GetWeather(ctx context.Context, location string, days int) (*model.WeatherRecord, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	record, err := s.WeatherRepo.GetForecast(ctx, location, days)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWeatherService, err)
	}
	return record, nil
}
