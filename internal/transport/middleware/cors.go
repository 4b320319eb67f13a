package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/heartmarshall/roadsigns-backend/internal/config"
)

// CORS returns middleware that answers preflight requests and sets the
// Access-Control headers for allowed origins.
func CORS(cfg config.CORSConfig) Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   cfg.Methods(),
		AllowedHeaders:   cfg.Headers(),
		ExposedHeaders:   []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
