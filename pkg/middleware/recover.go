package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/miraedance/atelier/pkg/logger"
	"github.com/miraedance/atelier/pkg/response"
)

// Recovery converts downstream panics into logged 500s. Mount it inside
// reqid/Logger so the log line carries the request id.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.WithCtx(r.Context()).Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.Error(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
