package http

import (
	"log/slog"
	"net/http"
)

// NotFoundHandler answers unmatched routes with a JSON 404 naming the path.
func NotFoundHandler(logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.DebugContext(r.Context(), "no route", "method", r.Method, "path", r.URL.Path)
		writeErrorResponse(w, http.StatusNotFound, errorResponse{
			Error: "route not found",
			Code:  codeNotFound,
			Path:  r.URL.Path,
		})
	})
}
