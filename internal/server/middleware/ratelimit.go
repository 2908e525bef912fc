package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/travlr/internal/server/handlers"
)

// RateLimiter ограничивает число запросов на ключ (обычно IP) в окне window.
// Бакет целиком пополняется, когда окно истекло.
type RateLimiter struct {
	buckets  map[string]*bucket
	logger   *slog.Logger
	cleanupC chan struct{}
	now      func() time.Time
	rate     int
	window   time.Duration
	mu       sync.Mutex
	stopOnce sync.Once
}

// bucket представляет bucket для конкретного IP
type bucket struct {
	lastRefill time.Time
	tokens     int
}

// NewRateLimiter создает новый rate limiter и запускает очистку старых бакетов.
// Вызывающий обязан вызвать Stop.
func NewRateLimiter(rate int, window time.Duration, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		logger:   logger,
		cleanupC: make(chan struct{}),
		now:      time.Now,
		rate:     rate,
		window:   window,
	}

	go rl.cleanup()

	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupOldBuckets()
		case <-rl.cleanupC:
			return
		}
	}
}

// cleanupOldBuckets удаляет бакеты, которые не пополнялись дольше двух окон
func (rl *RateLimiter) cleanupOldBuckets() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastRefill) > rl.window*2 {
			delete(rl.buckets, key)
		}
	}
}

// Stop останавливает cleanup goroutine. Повторный вызов безопасен.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.cleanupC) })
}

// Allow проверяет, разрешен ли запрос для ключа
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.lastRefill) >= rl.window {
		b = &bucket{tokens: rl.rate, lastRefill: now}
		rl.buckets[key] = b
	}

	if b.tokens <= 0 {
		return false
	}

	b.tokens--
	return true
}

// PathRateLimit задает лимит для конкретного пути
type PathRateLimit struct {
	Path   string
	Rate   int
	Window time.Duration
}

// PathRateLimiter применяет лимиты только к перечисленным путям, остальные запросы проходят.
type PathRateLimiter struct {
	limiters   map[string]*RateLimiter
	logger     *slog.Logger
	trustProxy bool
}

// NewPathRateLimiter создает limiter на каждый путь.
// trustProxy включает X-Forwarded-For/X-Real-IP: только если сервер стоит за своим прокси.
func NewPathRateLimiter(limits []PathRateLimit, trustProxy bool, logger *slog.Logger) *PathRateLimiter {
	p := &PathRateLimiter{
		limiters:   make(map[string]*RateLimiter, len(limits)),
		logger:     logger,
		trustProxy: trustProxy,
	}
	for _, limit := range limits {
		p.limiters[limit.Path] = NewRateLimiter(limit.Rate, limit.Window, logger)
	}
	return p
}

// Middleware отвечает 429 при превышении лимита
func (p *PathRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter, ok := p.limiters[r.URL.Path]
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		key := getClientIP(r, p.trustProxy)
		if !limiter.Allow(key) {
			p.logger.WarnContext(r.Context(), "rate limit exceeded",
				slog.String("ip", key),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			w.Header().Set("Retry-After", strconv.Itoa(int(limiter.window.Seconds())))
			_ = handlers.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Stop останавливает все limiters
func (p *PathRateLimiter) Stop() {
	for _, limiter := range p.limiters {
		limiter.Stop()
	}
}

// getClientIP извлекает IP клиента из RemoteAddr.
// Заголовки прокси клиент может подделать, поэтому они читаются только при trustProxy.
func getClientIP(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return remoteHost(r)
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
