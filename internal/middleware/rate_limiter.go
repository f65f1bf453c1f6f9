package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fakhrymubarak/weatherwise/internal/classifier"
	"github.com/fakhrymubarak/weatherwise/internal/config"
	"github.com/fakhrymubarak/weatherwise/internal/model"
	"golang.org/x/time/rate"
)

// paramKey is the query parameter key used for per-param rate limiting (default: "location").
var paramKey = "location"

// SetParamKey sets the query parameter key for per-param rate limiting. Used primarily for testing.
func SetParamKey(key string) {
	paramKey = key
}

// visitor holds a rate limiter and the last time its owner was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	// globalVisitors maps IP addresses to their global limiter.
	globalVisitors = make(map[string]*visitor) // key: ip
	// paramVisitors maps IP addresses and parameter values to their per-param limiter.
	paramVisitors = make(map[string]map[string]*visitor) // key: ip -> paramValue -> visitor
	muGlobal      sync.Mutex
	muParam       sync.Mutex
)

// perMinute converts a per-minute budget into a token bucket limiter.
func perMinute(requests float64, burst int) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(requests/60.0), burst)
}

// getGlobalLimiter returns the rate limiter for the given IP address, creating one if it does not exist.
func getGlobalLimiter(ip string) *rate.Limiter {
	muGlobal.Lock()
	defer muGlobal.Unlock()
	v, exists := globalVisitors[ip]
	if !exists {
		limiter := perMinute(config.GetGlobalRateLimiterConfig())
		globalVisitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// getParamLimiter returns the rate limiter for the given IP address and parameter value, creating one if it does not exist.
func getParamLimiter(ip, param string) *rate.Limiter {
	muParam.Lock()
	defer muParam.Unlock()
	if _, ok := paramVisitors[ip]; !ok {
		paramVisitors[ip] = make(map[string]*visitor)
	}
	v, exists := paramVisitors[ip][param]
	if !exists {
		limiter := perMinute(config.GetParamRateLimiterConfig())
		paramVisitors[ip][param] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// evictStale removes visitors not seen within maxIdle of now.
func evictStale(now time.Time, maxIdle time.Duration) {
	muGlobal.Lock()
	for ip, v := range globalVisitors {
		if now.Sub(v.lastSeen) > maxIdle {
			delete(globalVisitors, ip)
		}
	}
	muGlobal.Unlock()

	muParam.Lock()
	for ip, paramMap := range paramVisitors {
		for param, v := range paramMap {
			if now.Sub(v.lastSeen) > maxIdle {
				delete(paramMap, param)
			}
		}
		if len(paramMap) == 0 {
			delete(paramVisitors, ip)
		}
	}
	muParam.Unlock()
}

// StartRateLimiterCleanup evicts idle visitors every minute until ctx is done.
// Visitors idle for longer than rate_limiter.cleanup_timeout are dropped.
func StartRateLimiterCleanup(ctx context.Context) {
	maxIdle := config.GetRateLimiterCleanupTimeout()
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				evictStale(now, maxIdle)
			}
		}
	}()
}

// ResetVisitors clears all visitor states for both global and per-param limiters. Used primarily for testing.
func ResetVisitors() {
	muGlobal.Lock()
	clear(globalVisitors)
	muGlobal.Unlock()
	muParam.Lock()
	clear(paramVisitors)
	muParam.Unlock()
}

// getIP extracts the client's IP address from the HTTP request, considering X-Forwarded-For headers.
func getIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // fallback
	}
	return ip
}

// getParam returns the normalised value of the configured query parameter,
// spelled the way the classifier spells places.
func getParam(r *http.Request) string {
	return strings.Join(strings.Fields(strings.ToLower(r.URL.Query().Get(paramKey))), " ")
}

func tooManyRequests(w http.ResponseWriter, errMsg, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(model.Response{
		Error:   &errMsg,
		Message: message,
	})
}

// RateLimitMiddleware returns an HTTP middleware that enforces global and per-parameter rate limiting.
// The per-parameter limit only applies to requests carrying the parameter.
// If a limit is exceeded, it responds with a 429 status and a JSON error message.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return rateLimit(next, getParam)
}

// AskRateLimitMiddleware is RateLimitMiddleware for question endpoints: the
// per-place bucket is keyed on the place named in the "q" parameter, so a
// question and a /weather lookup for the same place share one bucket.
func AskRateLimitMiddleware(next http.Handler) http.Handler {
	return rateLimit(next, getQuestionPlace)
}

// getQuestionPlace returns the place the "q" parameter asks about, or "".
func getQuestionPlace(r *http.Request) string {
	return classifier.Classify(r.URL.Query().Get("q")).Location
}

func rateLimit(next http.Handler, placeOf func(r *http.Request) string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getIP(r)
		if !getGlobalLimiter(ip).Allow() {
			perMin, _ := config.GetGlobalRateLimiterConfig()
			tooManyRequests(w,
				fmt.Sprintf("Rate limit exceeded: max %g requests per minute per user/IP", perMin),
				"Too Many Requests (global limit)")
			return
		}
		if place := placeOf(r); place != "" && !getParamLimiter(ip, place).Allow() {
			perMin, _ := config.GetParamRateLimiterConfig()
			tooManyRequests(w,
				fmt.Sprintf("Rate limit exceeded: max %g requests per minute per unique %s per user/IP", perMin, paramKey),
				"Too Many Requests (per-param limit)")
			return
		}
		next.ServeHTTP(w, r)
	})
}
