package middleware

import (
	"net/http"

	"github.com/taskpilot/taskpilot/internal/request"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const defaultRateLimit = "10-M"

// RateLimit returns middleware backed by ulule/limiter with an in-memory
// store, keyed by client IP. Classifier turns are expensive; this keeps one
// chatty client from burning the API budget. rate uses limiter's formatted
// notation, e.g. "10-M" for ten requests per minute.
func RateLimit(rateStr string) (func(http.Handler) http.Handler, error) {
	if rateStr == "" {
		rateStr = defaultRateLimit
	}
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		return nil, err
	}

	instance := limiter.New(memory.NewStore(), rate)
	keyGetter := func(r *http.Request) string {
		return request.ClientIP(r)
	}
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(keyGetter))
	return mw.Handler, nil
}
