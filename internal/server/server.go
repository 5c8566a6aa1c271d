package server

import (
	"net/http"

	"github.com/Adda-Baaj/unit-service/internal/converter"
	"github.com/Adda-Baaj/unit-service/internal/logger"
	"github.com/Adda-Baaj/unit-service/internal/metrics"
	"github.com/Adda-Baaj/unit-service/internal/storage"
)

// APIPrefix is the path every conversion route lives under.
const APIPrefix = "/api/v1/units"

// Options tunes the HTTP surface.
type Options struct {
	RateLimitPerMinute int
	// Metrics is optional; nil disables /metrics and request instrumentation.
	Metrics *metrics.Metrics
}

// Server exposes the converter over HTTP.
type Server struct {
	conv    *converter.Converter
	store   storage.Store
	metrics *metrics.Metrics
	log     logger.Logger
	mux     *http.ServeMux
	handler http.Handler
}

// New builds the route table and middleware chain.
func New(conv *converter.Converter, store storage.Store, log logger.Logger, opts Options) *Server {
	if conv == nil {
		conv = converter.New()
	}
	if store == nil {
		store = storage.Noop()
	}

	s := &Server{
		conv:    conv,
		store:   store,
		metrics: opts.Metrics,
		log:     logger.Ensure(log),
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("GET "+APIPrefix+"/convert", s.handleConvert)
	s.mux.HandleFunc("POST "+APIPrefix+"/convert/bulk", s.handleConvertBulk)
	s.mux.HandleFunc("GET "+APIPrefix+"/info", s.handleInfo)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	var h http.Handler = s.mux
	h = rateLimit(newHostLimiter(opts.RateLimitPerMinute), s.metrics, h)
	h = observe(s.mux, s.metrics, s.log, h)
	h = traced(s.mux, h)
	h = requestID(h)
	s.handler = h

	return s
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler { return s.handler }
