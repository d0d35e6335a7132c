package http

import (
	"net/http"
	"strings"
)

const corsAllowHeaders = "Content-Type, Authorization"

// CORS applies the origin allow-list. Preflight responses advertise the
// methods routeMethods reports for the requested path; preflights for paths
// with no route fall through to next.
func CORS(allowedOrigins []string, routeMethods func(path string) []string, next http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		switch origin = strings.TrimSpace(origin); origin {
		case "":
		case "*":
			allowAll = true
		default:
			allowed[origin] = struct{}{}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		_, known := allowed[origin]
		preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

		switch {
		case !allowAll && !known && preflight:
			writeError(w, http.StatusForbidden, codeForbidden, "origin not allowed")
			return
		case !allowAll && !known:
			next.ServeHTTP(w, r)
			return
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		default:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}

		if !preflight {
			next.ServeHTTP(w, r)
			return
		}

		methods := routeMethods(r.URL.Path)
		if len(methods) == 0 {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(append(methods[:len(methods):len(methods)], http.MethodOptions), ", "))
		w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
		w.WriteHeader(http.StatusNoContent)
	})
}
