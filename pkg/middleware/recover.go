package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/kdiomande/maillots/pkg/logger"
	"github.com/kdiomande/maillots/pkg/response"
)

// Recovery catches any panic in downstream handlers, logs the stack trace,
// and returns the generic 500 to the client.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()
				logger.Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(stack),
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.ServerError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
