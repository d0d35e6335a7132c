package http

import (
	"log/slog"
	"net/http"
	"strings"
)

// Services groups what the router needs to serve every endpoint.
// Notifications is optional; without it /notifications is not routed.
type Services struct {
	Broadcaster   Broadcaster
	Offers        OfferService
	Buyers        BuyerReader
	Notifications NotificationLister
}

type route struct {
	pattern string
	methods []string
	handler http.Handler
}

// routeTable maps registered mux patterns to the methods they answer.
type routeTable map[string][]string

// methods resolves a path the way ServeMux does: an exact pattern first, then
// the longest subtree pattern ending in "/".
func (t routeTable) methods(path string) []string {
	if m, ok := t[path]; ok {
		return m
	}
	best := ""
	for pattern := range t {
		if strings.HasSuffix(pattern, "/") && strings.HasPrefix(path, pattern) && len(pattern) > len(best) {
			best = pattern
		}
	}
	if best == "" {
		return nil
	}
	return t[best]
}

// NewRouter wires the API routes with CORS and request logging.
func NewRouter(svc Services, corsOrigins []string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	routes := []route{
		{"/health", []string{http.MethodGet, http.MethodHead}, http.HandlerFunc(HealthHandler)},
		{"/offers/broadcast", []string{http.MethodPost}, HandleBroadcast(svc.Broadcaster, logger)},
		{"/offers", []string{http.MethodGet}, HandleListOffers(svc.Offers, logger)},
		{"/offers/", []string{http.MethodGet, http.MethodPost}, HandleOffer(svc.Offers, logger)},
		{"/buyers", []string{http.MethodGet}, HandleListBuyers(svc.Buyers, logger)},
		{"/buyers/", []string{http.MethodGet}, HandleBuyer(svc.Buyers, logger)},
	}
	if svc.Notifications != nil {
		routes = append(routes, route{"/notifications", []string{http.MethodGet}, HandleListNotifications(svc.Notifications, logger)})
	}

	mux := http.NewServeMux()
	table := make(routeTable, len(routes))
	for _, rt := range routes {
		mux.Handle(rt.pattern, rt.handler)
		table[rt.pattern] = rt.methods
	}
	mux.Handle("/", NotFoundHandler(logger))

	return RequestLogger(CORS(corsOrigins, table.methods, mux), logger)
}
