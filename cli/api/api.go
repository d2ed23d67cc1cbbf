package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2"

	"github.com/Luq02/lab6/datastores"
	"github.com/Luq02/lab6/handlers"
	"github.com/Luq02/lab6/router"
)

type ServerOptions struct {
	Host              string        `short:"H" doc:"host to listen on"                    default:""`
	Port              string        `short:"p" doc:"port to listen on"                    default:"8888"`
	ReadHeaderTimeout time.Duration `          doc:"time allowed to read request headers" default:"15s"`
}

func NewServer(options *ServerOptions, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              options.Host + ":" + options.Port,
		ReadHeaderTimeout: options.ReadHeaderTimeout,
		Handler:           handler,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

type RouterOptions struct {
	EndpointsPrefix string `doc:"mount endpoints at a prefix" default:"/api"`
}

// BuildInfo describes the running binary.
type BuildInfo struct {
	Title    string
	Version  string
	Revision string
	Created  string
}

// NewRouter serves the contacts of store as web pages at the root and as a
// JSON API under options.EndpointsPrefix.
func NewRouter(
	options *RouterOptions,
	build BuildInfo,
	logger *slog.Logger,
	store datastores.ContactsStore,
) (http.Handler, huma.API) {
	buildinfoMetric := joinQuote("build_info{goversion=", runtime.Version(),
		",title=", build.Title,
		",version=", build.Version,
		",revision=", build.Revision,
		",created=", build.Created,
		"} 1\n")
	metriks := metrics.NewSet()
	meter := newRequestMeter(metriks)
	errorHandler := ctxlog{}.errorHandler(logger)

	pages := &handlers.ContactPages{
		Store:        store,
		ErrorHandler: errorHandler,
		Middleware:   ctxlog{}.pageMiddleware(logger, meter),
	}

	return router.New(build.Title, build.Version,
		readiness(store),
		func(w io.Writer) {
			fmt.Fprint(w, buildinfoMetric)
			metriks.WritePrometheus(w)
			metrics.WriteProcessMetrics(w)
		},
		pages.Register,
		router.OptUseMiddleware(
			ctxlog{}.loggerMiddleware(logger),
			meter.middleware,
			ctxlog{}.recoverMiddleware(logger),
		),
		router.OptGroup(options.EndpointsPrefix,
			router.OptAutoRegister(&handlers.Contacts{
				Store:        store,
				ErrorHandler: errorHandler,
			}),
		),
	)
}

// readiness reports 503 while the store cannot be reached. Stores without a
// Ping method are always ready.
func readiness(store datastores.ContactsStore) http.HandlerFunc {
	pinger, ok := store.(interface{ Ping(context.Context) error })
	return func(w http.ResponseWriter, r *http.Request) {
		if !ok {
			return
		}
		if err := pinger.Ping(r.Context()); err != nil {
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		}
	}
}

// joinQuote is [strings.Join] with " as separator.
func joinQuote(elems ...string) string { return strings.Join(elems, `"`) }

// joinSpace is [strings.Join] with space as separator.
func joinSpace(elems ...string) string { return strings.Join(elems, ` `) }
