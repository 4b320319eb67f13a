package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain composes mws so that the first one is the outermost. Nil entries are
// skipped, which lets callers leave optional layers such as the rate limiter
// in place when they are switched off.
func Chain(mws ...Middleware) Middleware {
	active := make([]Middleware, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			active = append(active, mw)
		}
	}
	return func(h http.Handler) http.Handler {
		for i := len(active) - 1; i >= 0; i-- {
			h = active[i](h)
		}
		return h
	}
}
