package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// requestID returns the id sent by the client, or a new one.
func requestID(header string) string {
	if header != "" {
		return header
	}
	return uuid.NewString()
}

// ctxlog is a [context.Context] key and acts as a virtual package for operations related to it.
type ctxlog struct{}

// loggerMiddleware returns a middleware that sets a [slog.Logger] in
// the [context.Context] and logs the request after it has terminated.
func (key ctxlog) loggerMiddleware(parent *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		id := requestID(ctx.Header(requestIDHeader))
		ctx.SetHeader(requestIDHeader, id)
		logger := parent.With("x-request-id", id)

		start := time.Now()
		next(huma.WithValue(ctx, key, logger.WithGroup("op").With("id", ctx.Operation().OperationID)))

		logger.LogAttrs(context.Background(), slog.LevelInfo,
			joinSpace(ctx.Operation().Method, ctx.Operation().Path, ctx.Version().Proto),
			slog.String("from", ctx.RemoteAddr()),
			slog.String("ref", ctx.Header("Referer")),
			slog.String("ua", ctx.Header("User-Agent")),
			slog.Int("status", ctx.Status()),
			slog.Duration("dur", time.Since(start)),
		)
	}
}

// recoverMiddleware returns a middleware that recovers and logs the value from panic.
// Also sets status response to [http.StatusInternalServerError].
func (key ctxlog) recoverMiddleware(fallback *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		defer func() {
			v := recover()
			if v != nil {
				key.logger(ctx.Context(), fallback).LogAttrs(context.Background(), slog.LevelError,
					"panic occurred", slog.Any("recovered", v))
				ctx.SetStatus(http.StatusInternalServerError)
			}
		}()
		next(ctx)
	}
}

// pageMiddleware is the [http.Handler] counterpart of loggerMiddleware,
// meter.middleware and recoverMiddleware, for the web pages.
func (key ctxlog) pageMiddleware(parent *slog.Logger, meter *requestMeter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := requestID(r.Header.Get(requestIDHeader))
			w.Header().Set(requestIDHeader, id)
			logger := parent.With("x-request-id", id)
			sw := &statusWriter{ResponseWriter: w}

			start := time.Now()
			defer func() {
				if v := recover(); v != nil {
					logger.LogAttrs(context.Background(), slog.LevelError, "panic occurred", slog.Any("recovered", v))
					if sw.status == 0 {
						sw.WriteHeader(http.StatusInternalServerError)
					}
				}
				meter.observe(r.Method, patternPath(r.Pattern), sw.code(), start)
				logger.LogAttrs(context.Background(), slog.LevelInfo,
					joinSpace(r.Method, r.URL.Path, r.Proto),
					slog.String("from", r.RemoteAddr),
					slog.String("ref", r.Referer()),
					slog.String("ua", r.UserAgent()),
					slog.Int("status", sw.code()),
					slog.Duration("dur", time.Since(start)),
				)
			}()

			ctx := context.WithValue(r.Context(), key, logger.WithGroup("page").With("pattern", r.Pattern))
			next.ServeHTTP(sw, r.WithContext(ctx))
		})
	}
}

// patternPath strips the method from a [http.ServeMux] pattern.
func patternPath(pattern string) string {
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}

// errorHandler returns a function that gets the [slog.Logger] from [context.Context] and logs the error.
func (key ctxlog) errorHandler(fallback *slog.Logger) func(context.Context, error) {
	return func(ctx context.Context, err error) {
		level := slog.LevelError
		attrs := []slog.Attr{slog.Any("err", err)}

		var statusErr huma.StatusError
		if errors.As(err, &statusErr) {
			switch statusErr.GetStatus() / 100 {
			case 5: //nolint: mnd // 5XX HTTP Status Codes
				level = slog.LevelError
			case 4: //nolint: mnd // 4XX HTTP Status Codes
				level = slog.LevelWarn
			case 3: //nolint: mnd // 3XX HTTP Status Codes
				level = slog.LevelInfo
			}
			attrs = append(attrs, slog.Int("status", statusErr.GetStatus()))
		}

		key.logger(ctx, fallback).LogAttrs(context.Background(), level, "error occurred", attrs...)
	}
}

func (key ctxlog) logger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	logger, ok := ctx.Value(key).(*slog.Logger)
	if !ok {
		return fallback
	}
	return logger
}

// statusWriter records the status code written through it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (w *statusWriter) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// requestMeter counts requests and their duration per method, path and status.
type requestMeter struct {
	set     *metrics.Set
	buckets []float64
	refs    sync.Map
	refsMu  sync.Mutex
}

type meterRef struct {
	*metrics.Counter
	*metrics.PrometheusHistogram
}

func newRequestMeter(set *metrics.Set) *requestMeter {
	return &requestMeter{
		set:     set,
		buckets: metrics.ExponentialBuckets(1e-3, 5, 6), //nolint: mnd // arbitrary
	}
}

func (m *requestMeter) middleware(ctx huma.Context, next func(huma.Context)) {
	op, start := ctx.Operation(), time.Now()
	next(ctx)
	m.observe(op.Method, op.Path, ctx.Status(), start)
}

func (m *requestMeter) observe(method, path string, status int, start time.Time) {
	uid := method + " " + path + " " + strconv.Itoa(status)
	val, ok := m.refs.Load(uid)
	if !ok {
		m.refsMu.Lock()
		val, ok = m.refs.Load(uid)
		if !ok {
			labels := joinQuote("{method=", method, ",path=", path, ",status=", strconv.Itoa(status), "}") //nolint: golines
			val = meterRef{
				m.set.NewCounter("http_requests_total" + labels),
				m.set.NewPrometheusHistogramExt("http_request_duration_seconds"+labels, m.buckets),
			}
			m.refs.Store(uid, val)
		}
		m.refsMu.Unlock()
	}
	ref := val.(meterRef) //nolint: errcheck // always true
	ref.Counter.Inc()
	ref.PrometheusHistogram.UpdateDuration(start)
}
