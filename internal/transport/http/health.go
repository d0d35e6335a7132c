package http

import (
	stdhttp "net/http"
)

// HealthHandler reports liveness. It does not touch the stores.
func HealthHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if r.Method != stdhttp.MethodGet && r.Method != stdhttp.MethodHead {
		methodNotAllowed(w, "GET, HEAD")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(stdhttp.StatusOK)
	if r.Method == stdhttp.MethodGet {
		_, _ = w.Write([]byte("ok"))
	}
}
