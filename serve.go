package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fakhrymubarak/weatherwise/internal/config"
	"github.com/fakhrymubarak/weatherwise/internal/handler"
	"github.com/fakhrymubarak/weatherwise/internal/middleware"
	"github.com/fakhrymubarak/weatherwise/internal/redis"
	"github.com/fakhrymubarak/weatherwise/internal/repository"
	"github.com/fakhrymubarak/weatherwise/internal/scheduler"
	"github.com/fakhrymubarak/weatherwise/internal/service"
	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to listen on (overrides server.port)")
}

// newRouter wires the HTTP routes. Rate limiting applies to the lookup
// endpoints only.
func newRouter(ask *handler.AskHandler, weather *handler.WeatherHandler, health *handler.HealthHandler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ask", middleware.AskRateLimitMiddleware(http.HandlerFunc(ask.HandleAsk)))
	mux.Handle("/weather", middleware.RateLimitMiddleware(http.HandlerFunc(weather.HandleWeather)))
	mux.HandleFunc("/health", health.HandleHealth)
	return middleware.RequestID(mux)
}

func newServer(port string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           h,
		ReadHeaderTimeout: config.GetServerTimeout("read_header_timeout"),
		ReadTimeout:       config.GetServerTimeout("read_timeout"),
		WriteTimeout:      config.GetServerTimeout("write_timeout"),
		IdleTimeout:       config.GetServerTimeout("idle_timeout"),
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := config.GetLogger()
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := redis.Ping(ctx); err != nil {
		log.Warnw("Redis unreachable, serving without cache", "addr", config.GetRedisAddr(), "error", err)
	}

	weatherRepo := repository.NewWeatherRepository()
	router := newRouter(
		handler.NewAskHandler(service.NewAssistantService(weatherRepo)),
		handler.NewWeatherHandler(service.NewWeatherService(weatherRepo)),
		handler.NewHealthHandler(),
	)

	middleware.StartRateLimiterCleanup(ctx)

	warmer := scheduler.New(config.GetPrefetchLocations(), config.GetPrefetchInterval(), weatherRepo)
	if err := warmer.Start(); err != nil {
		return err
	}
	defer warmer.Stop()

	port := servePort
	if port == "" {
		port = config.GetServerPort()
	}
	srv := newServer(port, router)

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("Starting WeatherWise server", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Infow("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
