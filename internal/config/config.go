package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		_ = godotenv.Load()

		setDefaults()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Debugw("Project root not found, using defaults", "error", err)
			return
		}
		viper.SetConfigType("yaml")
		viper.AddConfigPath(root)

		viper.SetConfigName("config")
		if err = viper.MergeInConfig(); err != nil {
			GetLogger().Warnw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Warnw("Error reading test config file", "error", err)
			}
		}
	})
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("server.idle_timeout", "30s")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("cache.expiration", "10m")
	viper.SetDefault("weather.api_url", "https://wttr.in")
	viper.SetDefault("weather.timeout", "10s")
	viper.SetDefault("weather.max_retries", 2)
	viper.SetDefault("weather.initial_backoff", "500ms")
	viper.SetDefault("weather.max_backoff", "5s")
	viper.SetDefault("prefetch.interval", "30m")
	viper.SetDefault("rate_limiter.cleanup_timeout", "3m")
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// GetWeatherApiUrl returns the base URL of the wttr.in compatible weather endpoint.
func GetWeatherApiUrl() string {
	initConfig()
	return strings.TrimRight(viper.GetString("weather.api_url"), "/")
}

func GetWeatherTimeout() time.Duration {
	initConfig()
	return getDuration("weather.timeout", 10*time.Second)
}

// GetRetryConfig returns the retry budget and backoff bounds for upstream calls.
func GetRetryConfig() (maxRetries int, initial, maxBackoff time.Duration) {
	initConfig()
	maxRetries = viper.GetInt("weather.max_retries")
	if maxRetries < 0 {
		maxRetries = 0
	}
	initial = getDuration("weather.initial_backoff", 500*time.Millisecond)
	maxBackoff = getDuration("weather.max_backoff", 5*time.Second)
	return
}

func GetRedisAddr() string {
	initConfig()
	return viper.GetString("redis.addr")
}

func GetServerPort() string {
	initConfig()
	serverPort := viper.GetString("server.port")
	return serverPort
}

// GetCacheExpiration returns how long fetched forecasts stay cached.
func GetCacheExpiration() time.Duration {
	initConfig()
	return getDuration("cache.expiration", 10*time.Minute)
}

func GetServerTimeout(key string) time.Duration {
	initConfig()
	return getDuration("server."+key, 15*time.Second)
}

// GetDefaultLocation returns the place used when a question names none.
func GetDefaultLocation() string {
	initConfig()
	return strings.TrimSpace(viper.GetString("assistant.default_location"))
}

// GetPrefetchLocations returns the places the cache warmer keeps fresh.
func GetPrefetchLocations() []string {
	initConfig()
	locations := viper.GetStringSlice("prefetch.locations")
	if raw, ok := viper.Get("prefetch.locations").(string); ok {
		// env values arrive as one comma separated string
		locations = strings.Split(raw, ",")
	}
	var out []string
	for _, loc := range locations {
		if loc = strings.TrimSpace(loc); loc != "" {
			out = append(out, loc)
		}
	}
	return out
}

func GetPrefetchInterval() time.Duration {
	initConfig()
	return getDuration("prefetch.interval", 30*time.Minute)
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		var (
			l   *zap.Logger
			err error
		)
		if os.Getenv("LOG_MODE") == "production" {
			l, err = zap.NewProduction()
		} else {
			l, err = zap.NewDevelopment()
		}
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetRateLimiterCleanupTimeout returns the rate limiter cleanup timeout as a time.Duration.
// Defaults to 3m if not set or invalid.
func GetRateLimiterCleanupTimeout() time.Duration {
	initConfig()
	return getDuration("rate_limiter.cleanup_timeout", 3*time.Minute)
}

// GetGlobalRateLimiterConfig returns the per-minute rate and burst for the global rate limiter from config.
func GetGlobalRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.global.rate")
	if rate == 0 {
		rate = 10
	}
	burst = viper.GetInt("rate_limiter.global.burst")
	if burst == 0 {
		burst = 10
	}
	return
}

// GetParamRateLimiterConfig returns the per-minute rate and burst for the param rate limiter from config.
func GetParamRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.param.rate")
	if rate == 0 {
		rate = 2
	}
	burst = viper.GetInt("rate_limiter.param.burst")
	if burst == 0 {
		burst = 2
	}
	return
}

func getDuration(key string, def time.Duration) time.Duration {
	durStr := viper.GetString(key)
	if durStr == "" {
		return def
	}
	dur, err := time.ParseDuration(durStr)
	if err != nil || dur <= 0 {
		return def
	}
	return dur
}
