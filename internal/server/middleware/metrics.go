package middleware

import (
	"net/http"
	"time"
)

// RequestObserver получает результат каждого запроса
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// unmatchedRoute используется, когда ServeMux не нашел маршрут
const unmatchedRoute = "unmatched"

// MetricsMiddleware считает запросы и их длительность.
// route берется из шаблона ServeMux ("GET /api/trips/{tripCode}"), а не из пути,
// чтобы коды туров не раздували кардинальность.
func MetricsMiddleware(observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}
			observer.ObserveRequest(r.Method, route, wrapped.statusCode, time.Since(start))
		})
	}
}
