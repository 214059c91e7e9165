package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FeedComposed counts feed compositions by mode ("personal" or "global").
	FeedComposed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_feed_composed_total",
		Help: "Total number of feed compositions by mode",
	}, []string{"mode"})

	// FeedFallbacks counts feeds that fell back to the global listing after
	// a failed following-set lookup.
	FeedFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "murmur_feed_fallbacks_total",
		Help: "Total number of feed reads that fell back to the global feed",
	})

	// AnonymousLikes counts like requests from unauthenticated actors that
	// were acknowledged without mutating state.
	AnonymousLikes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "murmur_anonymous_likes_total",
		Help: "Total number of anonymous like requests acknowledged as no-ops",
	})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
