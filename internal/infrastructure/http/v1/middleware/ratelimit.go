package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/apperror"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/pkg/logger"
)

type rateOutcomeKey struct{}

// rateOutcome is set by the limiter callbacks for the current request.
type rateOutcome struct {
	reached bool
}

// RateLimit limits requests per client IP. formatted uses the limiter
// syntax, e.g. "300-M". Store errors let the request through.
func RateLimit(formatted string) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}

	instance := limiter.New(memory.NewStore(), rate)

	limiterMiddleware := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			if o, ok := r.Context().Value(rateOutcomeKey{}).(*rateOutcome); ok {
				o.reached = true
			}
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn(r.Context(), "rate limiter unavailable", "error", err)
		}),
	)

	return func(c *gin.Context) {
		outcome := &rateOutcome{}
		passed := false

		req := c.Request.WithContext(context.WithValue(c.Request.Context(), rateOutcomeKey{}, outcome))
		limiterMiddleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Next()
		})).ServeHTTP(c.Writer, req)

		if passed {
			return
		}
		if outcome.reached {
			_ = c.Error(apperror.NewRateLimited(rate.Limit))
			c.Abort()
			return
		}
		// limiter store failed: fail open
		c.Next()
	}, nil
}
