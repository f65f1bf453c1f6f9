package integrationtest

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"

	"github.com/fakhrymubarak/weatherwise/internal/handler"
	"github.com/fakhrymubarak/weatherwise/internal/middleware"
	"github.com/fakhrymubarak/weatherwise/internal/repository"
	"github.com/fakhrymubarak/weatherwise/internal/service"
)

const fixturePath = "../internal/model/testdata/wttr_london.json"

// mockWttr serves the London fixture for /london and 404 for anything else.
// Every hit is counted so tests can tell cached answers from fresh ones.
func mockWttr(hits *atomic.Int32) *httptest.Server {
	body, err := os.ReadFile(fixturePath)
	if err != nil {
		panic(err)
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("format") != "j1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if strings.EqualFold(strings.TrimPrefix(r.URL.Path, "/"), "london") {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(body)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Unknown location"))
	}))
}

// newTestServer wires the same routes as the serve command against the
// configured Redis and upstream.
func newTestServer() *httptest.Server {
	weatherRepo := repository.NewWeatherRepository()

	mux := http.NewServeMux()
	mux.Handle("/ask", middleware.AskRateLimitMiddleware(
		http.HandlerFunc(handler.NewAskHandler(service.NewAssistantService(weatherRepo)).HandleAsk)))
	mux.Handle("/weather", middleware.RateLimitMiddleware(
		http.HandlerFunc(handler.NewWeatherHandler(service.NewWeatherService(weatherRepo)).HandleWeather)))
	mux.HandleFunc("/health", handler.NewHealthHandler().HandleHealth)

	return httptest.NewServer(middleware.RequestID(mux))
}
