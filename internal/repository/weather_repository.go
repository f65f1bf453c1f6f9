package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fakhrymubarak/weatherwise/internal/config"
	"github.com/fakhrymubarak/weatherwise/internal/model"
	"github.com/fakhrymubarak/weatherwise/internal/redis"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Custom error types
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrEmptyLocation    = errors.New("location is empty")
	ErrExternalAPI      = errors.New("external API error")
	ErrDecode           = errors.New("malformed weather data")
)

// WeatherRepository defines the interface for weather data access
type WeatherRepository interface {
	// GetForecast returns current conditions plus up to days daily forecasts
	// for location. days is clamped to 1..model.MaxForecastDays.
	GetForecast(ctx context.Context, location string, days int) (*model.WeatherRecord, error)
}

// Cache is the part of the Redis client the repository relies on.
type Cache interface {
	Get(ctx context.Context, key string) *redisv9.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redisv9.StatusCmd
}

// weatherRepository implements WeatherRepository
type weatherRepository struct {
	cache      Cache
	httpClient *http.Client
	baseURL    string
	ttl        time.Duration
	backoff    BackoffConfig
	breaker    *gobreaker.CircuitBreaker
	log        *zap.SugaredLogger
}

// NewWeatherRepository creates a new weather repository instance
func NewWeatherRepository(httpClient ...*http.Client) WeatherRepository {
	client := &http.Client{Timeout: config.GetWeatherTimeout()}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return newWeatherRepository(redis.GetClient(), client)
}

func newWeatherRepository(cache Cache, client *http.Client) *weatherRepository {
	maxRetries, initial, maxBackoff := config.GetRetryConfig()
	return &weatherRepository{
		cache:      cache,
		httpClient: client,
		baseURL:    config.GetWeatherApiUrl(),
		ttl:        config.GetCacheExpiration(),
		backoff: BackoffConfig{
			MaxRetries:      maxRetries,
			InitialInterval: initial,
			MaxInterval:     maxBackoff,
		},
		breaker: newCircuitBreaker("wttr"),
		log:     config.GetLogger(),
	}
}

// GetForecast retrieves weather data, checking cache first, then external API
func (r *weatherRepository) GetForecast(ctx context.Context, location string, days int) (*model.WeatherRecord, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyLocation
	}
	days = ClampDays(days)
	key := cacheKey(location)

	if cached, err := r.getFromCache(ctx, key); err == nil {
		return cached.Truncate(days), nil
	} else if !errors.Is(err, redisv9.Nil) {
		r.log.Debugw("Cache read failed", "key", key, "error", err)
	}

	record, err := r.fetchFromExternalAPI(ctx, location)
	if err != nil {
		r.log.Warnw("Weather fetch failed", "location", location, "error", err)
		return nil, err
	}

	// The full forecast is cached so any horizon can be served from it.
	r.cacheWeather(ctx, key, record)

	return record.Truncate(days), nil
}

// ClampDays bounds a requested horizon to what the upstream serves.
func ClampDays(days int) int {
	if days < 1 {
		return 1
	}
	if days > model.MaxForecastDays {
		return model.MaxForecastDays
	}
	return days
}

func cacheKey(location string) string {
	return "weather:" + strings.Join(strings.Fields(strings.ToLower(location)), " ")
}

// getFromCache retrieves weather data from Redis cache
func (r *weatherRepository) getFromCache(ctx context.Context, key string) (*model.WeatherRecord, error) {
	val, err := r.cache.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var record model.WeatherRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, err
	}

	record.Cached = true
	return &record, nil
}

// fetchFromExternalAPI retrieves weather data from the wttr.in j1 endpoint
func (r *weatherRepository) fetchFromExternalAPI(ctx context.Context, location string) (*model.WeatherRecord, error) {
	endpoint := fmt.Sprintf("%s/%s?format=j1", r.baseURL, url.PathEscape(location))
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	}

	resp, err := doRequestWithResilience(ctx, r.httpClient, r.breaker, r.backoff, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrLocationNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrExternalAPI, resp.StatusCode)
	}

	var data model.WttrResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if len(data.CurrentCondition) == 0 && len(data.Weather) == 0 {
		return nil, ErrLocationNotFound
	}

	return data.ToRecord(location), nil
}

// cacheWeather stores weather data in Redis cache
func (r *weatherRepository) cacheWeather(ctx context.Context, key string, record *model.WeatherRecord) {
	b, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, b, r.ttl).Err(); err != nil {
		r.log.Debugw("Cache write failed", "key", key, "error", err)
	}
}
