package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"

	"github.com/Luq02/lab6/cli/api"
	"github.com/Luq02/lab6/cli/datastore"
	"github.com/Luq02/lab6/cli/logger"
	"github.com/Luq02/lab6/datastores"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version  = "dev"
	revision = ""
	created  = ""
)

const title = "Contacts"

// Options for the CLI. Pass e.g. `--port` or set the `SERVICE_PORT` env var.
type Options struct {
	logger.Options
	api.ServerOptions
	api.RouterOptions
	datastore.StoreOptions
}

// setup registers the serve hooks. The store is opened on start only, so
// subcommands such as openapi never touch it.
func setup(build api.BuildInfo) func(humacli.Hooks, *Options) {
	return func(hooks humacli.Hooks, options *Options) {
		log := logger.New(&options.Options)
		srv := api.NewServer(&options.ServerOptions, nil, log)
		opened := make(chan datastore.Store, 1)

		hooks.OnStart(func() {
			store, err := prepare(context.Background(), srv, options, build, log)
			if err != nil {
				log.Error("could not open contacts store", "err", err)
				os.Exit(1)
			}
			opened <- store

			log.Info("listening", "addr", srv.Addr)
			err = srv.ListenAndServe()
			if !errors.Is(err, http.ErrServerClosed) {
				log.Error("failed to listen and serve", "err", err)
			} else {
				log.Info("server closed")
			}
		})
		hooks.OnStop(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			err := srv.Shutdown(ctx)
			if err != nil {
				log.Warn("could not shutdown the server", "err", err)
			}
			select {
			case store := <-opened:
				err = store.Close()
				if err != nil {
					log.Warn("could not close the contacts store", "err", err)
				}
			default:
			}
		})
	}
}

// prepare opens the store and mounts the router on srv.
func prepare(
	ctx context.Context,
	srv *http.Server,
	options *Options,
	build api.BuildInfo,
	log *slog.Logger,
) (datastore.Store, error) {
	store, err := datastore.Open(ctx, &options.StoreOptions, log)
	if err != nil {
		return nil, err
	}
	srv.Handler, _ = api.NewRouter(&options.RouterOptions, build, log, store)
	return store, nil
}

func main() {
	build := api.BuildInfo{Title: title, Version: version, Revision: revision, Created: created}

	cli := humacli.New(setup(build))

	cli.Root().Use = "contacts"
	cli.Root().Version = version
	cli.Root().AddCommand(&cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, root := api.NewRouter(&api.RouterOptions{EndpointsPrefix: "/api"}, build,
				slog.New(slog.DiscardHandler), datastores.NewContactsInmem())
			b, err := root.OpenAPI().YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	})

	cli.Run()
}
