package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Recover turns a handler panic into an error handed to respond, which
// writes the generic client error. http.ErrAbortHandler is re-panicked so
// net/http can abort the connection as it intends. If the handler had
// already started the response, the panic is only logged.
func Recover(logger *slog.Logger, respond func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := wrap(w)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic recovered",
					slog.String("requestID", chimiddleware.GetReqID(r.Context())),
					slog.Any("panic", rec),
					slog.Bool("responseStarted", rw.wroteHeader),
					slog.String("stack", string(debug.Stack())),
				)
				if rw.wroteHeader {
					return
				}
				respond(rw, r, fmt.Errorf("panic: %v", rec))
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
