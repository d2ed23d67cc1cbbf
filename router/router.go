package router

import (
	"io"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
)

// New returns a mux serving the probes, the metrics and the huma API
// configured by opts. mount registers handlers that live outside huma,
// it may be nil.
func New(
	title, version string,
	readiness http.HandlerFunc,
	writeMetrics func(io.Writer),
	mount func(*http.ServeMux),
	opts ...func(huma.API),
) (*http.ServeMux, huma.API) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /liveness", func(http.ResponseWriter, *http.Request) {})
	mux.HandleFunc("GET /readiness", readiness)
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		writeMetrics(w)
	})
	if mount != nil {
		mount(mux)
	}

	api := humago.New(mux, huma.DefaultConfig(title, version))
	for _, opt := range opts {
		opt(api)
	}

	return mux, api
}

// OptUseMiddleware adds middlewares to the API.
func OptUseMiddleware(middlewares ...func(huma.Context, func(huma.Context))) func(huma.API) {
	return func(api huma.API) { api.UseMiddleware(middlewares...) }
}

// OptGroup applies opts to a group of the API mounted at prefix.
func OptGroup(prefix string, opts ...func(huma.API)) func(huma.API) {
	return func(api huma.API) {
		group := huma.NewGroup(api, prefix)
		for _, opt := range opts {
			opt(group)
		}
	}
}

// OptAutoRegister registers the operations of server, see [huma.AutoRegister].
func OptAutoRegister(server any) func(huma.API) {
	return func(api huma.API) { huma.AutoRegister(api, server) }
}
