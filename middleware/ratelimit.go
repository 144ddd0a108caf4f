package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"event-wall-backend/constants"
	"event-wall-backend/utils"

	"golang.org/x/time/rate"
)

// RateLimiter limite le débit par invité (id de session, sinon adresse IP)
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter autorise perMinute requêtes par minute et par client, en rafale comprise
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

// Allow consomme un jeton pour key
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastAccess = time.Now()
	limiter := entry.limiter
	rl.mu.Unlock()

	return limiter.Allow()
}

// Cleanup oublie les clients inactifs depuis maxIdle et renvoie le nombre retiré
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	threshold := time.Now().Add(-maxIdle)
	removed := 0
	for key, entry := range rl.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(rl.limiters, key)
			removed++
		}
	}
	return removed
}

// Middleware renvoie 429 quand le client dépasse son quota
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ip:" + utils.ClientIP(r)
		if claims := GetUserFromContext(r.Context()); claims != nil {
			key = "user:" + claims.UserID
		}

		if !rl.Allow(key) {
			retryAfter := time.Duration(float64(time.Second) / float64(rl.limit))
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			utils.RespondError(w, http.StatusTooManyRequests, constants.ErrTooManyComments)
			return
		}
		next.ServeHTTP(w, r)
	})
}
