package lookup

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ImportPrefix is where lookups are mounted; an import source URL is
// ImportPrefix + kind + "/".
const ImportPrefix = "/api/import/"

// failure is the body of non-2xx answers; import sources read status and
// statusText from it.
type failure struct {
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
}

// Handler returns the HTTP API of the service.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get(ImportPrefix+"{kind}/*", s.handleLookup)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.handler())
	}
	return r
}

func (s *Service) handleLookup(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	value := chi.URLParam(r, "*")
	if v, err := url.PathUnescape(value); err == nil {
		value = v
	}
	resp, err := s.Lookup(r.Context(), kind, value)
	switch {
	case errors.Is(err, ErrUnknownKind):
		writeJSON(w, http.StatusNotFound, failure{http.StatusNotFound, http.StatusText(http.StatusNotFound)})
	case err != nil:
		s.log.Warn("lookup failed", zap.String("kind", kind), zap.String("value", value), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, failure{http.StatusBadGateway, http.StatusText(http.StatusBadGateway)})
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.metrics.observeRequest(r.Method, routePattern(r), ww.Status(), time.Since(start))
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

// routePattern keeps label cardinality bounded by reporting the matched
// route rather than the path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return "unknown_route"
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
