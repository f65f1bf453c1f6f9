package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestGetRedisAddr(t *testing.T) {
	// Test with the environment variable set
	os.Setenv("REDIS_ADDR", "redis.internal:6380")
	defer os.Unsetenv("REDIS_ADDR")
	ReloadConfigForTest()

	assert.Equal(t, "redis.internal:6380", GetRedisAddr())

	// Test with environment variable not set (should return config value)
	os.Unsetenv("REDIS_ADDR")
	assert.Equal(t, "localhost:6379", GetRedisAddr())
}

func TestGetWeatherApiUrl(t *testing.T) {
	assert.Equal(t, "https://wttr.in", GetWeatherApiUrl())

	viper.Set("weather.api_url", "http://127.0.0.1:9999/")
	defer viper.Set("weather.api_url", "https://wttr.in")
	assert.Equal(t, "http://127.0.0.1:9999", GetWeatherApiUrl(), "trailing slash is trimmed")
}

func TestGetServerPort(t *testing.T) {
	assert.Equal(t, "8080", GetServerPort())
}

func TestGetCacheExpiration(t *testing.T) {
	assert.Equal(t, 10*time.Minute, GetCacheExpiration())
}

func TestGetServerTimeout(t *testing.T) {
	assert.Equal(t, 15*time.Second, GetServerTimeout("read_header_timeout"))
	assert.Equal(t, 10*time.Second, GetServerTimeout("write_timeout"))
	assert.Equal(t, 15*time.Second, GetServerTimeout("missing_timeout"), "falls back to default")
}

func TestGetRetryConfig_TestOverrides(t *testing.T) {
	retries, initial, maxBackoff := GetRetryConfig()
	assert.Equal(t, 1, retries)
	assert.Equal(t, 10*time.Millisecond, initial)
	assert.Equal(t, 20*time.Millisecond, maxBackoff)
}

func TestGetPrefetchLocations(t *testing.T) {
	ReloadConfigForTest()
	assert.Empty(t, GetPrefetchLocations())

	os.Setenv("PREFETCH_LOCATIONS", "London, New York,,Tokyo")
	defer os.Unsetenv("PREFETCH_LOCATIONS")
	assert.Equal(t, []string{"London", "New York", "Tokyo"}, GetPrefetchLocations())
}

func TestGetPrefetchInterval(t *testing.T) {
	assert.Equal(t, time.Minute, GetPrefetchInterval())
}

func TestGetDefaultLocation(t *testing.T) {
	assert.Empty(t, GetDefaultLocation())

	os.Setenv("ASSISTANT_DEFAULT_LOCATION", "  Jakarta ")
	defer os.Unsetenv("ASSISTANT_DEFAULT_LOCATION")
	assert.Equal(t, "Jakarta", GetDefaultLocation())
}

func TestRateLimiterConfig(t *testing.T) {
	rate, burst := GetGlobalRateLimiterConfig()
	assert.Equal(t, 10.0, rate)
	assert.Equal(t, 10, burst)

	rate, burst = GetParamRateLimiterConfig()
	assert.Equal(t, 2.0, rate)
	assert.Equal(t, 2, burst)

	assert.Equal(t, 3*time.Minute, GetRateLimiterCleanupTimeout())
}

func TestGetDuration_Invalid(t *testing.T) {
	viper.Set("test.bad_duration", "soon")
	assert.Equal(t, time.Second, getDuration("test.bad_duration", time.Second))
	viper.Set("test.bad_duration", "-5s")
	assert.Equal(t, time.Second, getDuration("test.bad_duration", time.Second))
}

func TestReloadConfigForTest(t *testing.T) {
	// Should not panic or error
	assert.NotPanics(t, ReloadConfigForTest)
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger())
	assert.Same(t, GetLogger(), GetLogger())
}

func TestIsTestRun(t *testing.T) {
	assert.True(t, isTestRun())
}
