package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"runtime"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/numkernels/internal/errors"
	"github.com/agbru/numkernels/internal/kernels"
	"github.com/agbru/numkernels/internal/logging"
	"github.com/agbru/numkernels/internal/sysmon"
	"github.com/agbru/numkernels/internal/telemetry"
)

// Timeouts applied to the underlying http.Server.
const (
	ReadHeaderTimeout = 5 * time.Second
	WriteTimeout      = 2 * time.Minute
	IdleTimeout       = 60 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr     string
	Limits   kernels.Limits
	Security SecurityConfig
}

// Server is the HTTP host of the kernels.
type Server struct {
	config    Config
	module    *kernels.Module
	metrics   *Metrics
	logger    logging.Logger
	tracer    trace.Tracer
	sampler   sysmon.Sampler
	startTime time.Time
}

// Option configures a Server during construction.
type Option func(*Server)

// WithLogger sets the request logger. The kernels module logs through it
// as well unless WithModule is given.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithModule sets the kernels module used to evaluate requests.
func WithModule(m *kernels.Module) Option {
	return func(s *Server) { s.module = m }
}

// WithTracer sets the tracer for per-request spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Server) { s.tracer = t }
}

// WithSampler replaces the host statistics source of /healthz.
func WithSampler(fn sysmon.Sampler) Option {
	return func(s *Server) { s.sampler = fn }
}

// New creates a Server.
func New(config Config, opts ...Option) *Server {
	s := &Server{
		config:    config,
		metrics:   NewMetrics(),
		logger:    logging.NopLogger{},
		sampler:   sysmon.Sample,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.module == nil {
		s.module = kernels.New(kernels.WithLogger(s.logger))
	}
	if s.tracer == nil {
		s.tracer = telemetry.Tracer()
	}
	return s
}

// Handler returns the route table wrapped in the security middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/", SecurityMiddleware(s.config.Security, s.metricsMiddleware(s.handleKernel)))
	mux.HandleFunc("/metrics", SecurityMiddleware(s.config.Security, s.handleMetrics))
	mux.HandleFunc("/healthz", SecurityMiddleware(s.config.Security, s.handleHealth))
	return mux
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return apperrors.WrapError(err, "listen on %s", s.config.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return apperrors.WrapError(err, "shutdown")
	}
	return nil
}

// kernelResponse is the JSON body of a successful /v1 call. Result is
// emitted as a bare JSON number in its exact decimal form.
type kernelResponse struct {
	Op         kernels.Op      `json:"op"`
	Args       []uint32        `json:"args"`
	Result     json.RawMessage `json:"result"`
	DurationNS int64           `json:"duration_ns"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleKernel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, "", http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	req, err := parseRequest(r)
	if err != nil {
		s.writeError(w, "", http.StatusBadRequest, err)
		return
	}
	op := string(req.Op)

	ctx, span := telemetry.StartEvaluation(r.Context(), s.tracer, req)
	defer span.End()

	if err := s.config.Limits.Check(req); err != nil {
		s.metrics.ObserveLimitRejection(op)
		span.SetStatus(codes.Error, err.Error())
		s.writeError(w, op, http.StatusUnprocessableEntity, err)
		return
	}
	if err := ctx.Err(); err != nil {
		s.writeError(w, op, http.StatusServiceUnavailable, err)
		return
	}

	start := time.Now()
	v, err := s.module.Invoke(req)
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		s.writeError(w, op, http.StatusBadRequest, err)
		return
	}
	s.metrics.ObserveKernel(op, elapsed)
	span.SetAttributes(attribute.String("kernel.result", v.String()))

	s.writeJSON(w, op, http.StatusOK, kernelResponse{
		Op:         req.Op,
		Args:       req.Args,
		Result:     json.RawMessage(v.String()),
		DurationNS: elapsed.Nanoseconds(),
	})
}

// parseRequest reads the operation from the path and its arguments from the
// query, by name first and then by position (a, b).
func parseRequest(r *http.Request) (kernels.Request, error) {
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/"), "/")
	op, err := kernels.ParseOp(name)
	if err != nil {
		return kernels.Request{}, err
	}
	q := r.URL.Query()
	positional := []string{"a", "b"}
	raw := make([]string, 0, op.Arity())
	for i, argName := range op.ArgNames() {
		v := q.Get(argName)
		if v == "" && i < len(positional) {
			v = q.Get(positional[i])
		}
		if v == "" {
			return kernels.Request{}, apperrors.ValidationError{Field: argName, Message: "missing query parameter"}
		}
		raw = append(raw, v)
	}
	args, err := kernels.ParseArgs(op, raw)
	if err != nil {
		return kernels.Request{}, err
	}
	return kernels.Request{Op: op, Args: args}, nil
}

type healthResponse struct {
	Status     string       `json:"status"`
	Uptime     string       `json:"uptime"`
	Goroutines int          `json:"goroutines"`
	Host       sysmon.Stats `json:"host"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, "", http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	s.writeJSON(w, "", http.StatusOK, healthResponse{
		Status:     "ok",
		Uptime:     time.Since(s.startTime).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
		Host:       s.sampler(r.Context()),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, "", http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware tracks in-flight requests and logs each response.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		if s.logger != nil {
			s.logger.Debug("request served",
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", rec.status),
				logging.String("duration", time.Since(start).String()))
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, op string, code int, body any) {
	if op != "" {
		s.metrics.ObserveResponse(op, code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil && s.logger != nil {
		s.logger.Error("failed to encode response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, op string, code int, err error) {
	if s.logger != nil && code >= http.StatusInternalServerError {
		s.logger.Error("request failed", err, logging.String("op", op))
	}
	s.writeJSON(w, op, code, errorResponse{Error: err.Error()})
}
