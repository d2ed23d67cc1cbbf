package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Luq02/lab6/cli/api"
	"github.com/Luq02/lab6/cli/datastore"
	"github.com/Luq02/lab6/cli/logger"
)

var testBuild = api.BuildInfo{Title: title, Version: "test"}

type hooks struct {
	start, stop []func()
}

func (h *hooks) OnStart(fn func()) { h.start = append(h.start, fn) }
func (h *hooks) OnStop(fn func())  { h.stop = append(h.stop, fn) }

func TestSetupDoesNotOpenStore(t *testing.T) {
	h := &hooks{}
	options := &Options{
		Options:      logger.Options{File: os.DevNull},
		StoreOptions: datastore.StoreOptions{StoreDriver: "sqlite", StoreDSN: ""},
	}

	setup(testBuild)(h, options)

	assert.Len(t, h.start, 1)
	assert.Len(t, h.stop, 1)
	// Stopping before starting has nothing to close.
	h.stop[0]()
}

func TestPrepare(t *testing.T) {
	options := &Options{
		Options:       logger.Options{File: os.DevNull},
		RouterOptions: api.RouterOptions{EndpointsPrefix: "/api"},
	}
	log := logger.New(&options.Options)
	srv := api.NewServer(&options.ServerOptions, nil, log)

	store, err := prepare(context.Background(), srv, options, testBuild, log)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	require.NotNil(t, srv.Handler)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contacts", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPrepareBadStore(t *testing.T) {
	options := &Options{
		Options:      logger.Options{File: os.DevNull},
		StoreOptions: datastore.StoreOptions{StoreDriver: "sqlite", StoreDSN: ""},
	}
	log := logger.New(&options.Options)
	srv := api.NewServer(&options.ServerOptions, nil, log)

	store, err := prepare(context.Background(), srv, options, testBuild, log)
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Nil(t, srv.Handler)
}
