package middleware

import (
	"net"
	"net/http"

	"github.com/heartmarshall/roadsigns-backend/pkg/ctxutil"
)

// ClientIP stores the peer address of the request in the context.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxutil.WithClientIP(r.Context(), remoteHost(r.RemoteAddr))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
