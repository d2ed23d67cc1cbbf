package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Luq02/lab6/datastores"
)

var testBuild = BuildInfo{Title: "Contacts", Version: "1.2.3", Revision: "abc", Created: "today"}

type testServer struct {
	t       *testing.T
	handler http.Handler
	logs    *bytes.Buffer
}

func newTestServer(t *testing.T, prefix string, store datastores.ContactsStore) *testServer {
	t.Helper()
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	handler, _ := NewRouter(&RouterOptions{EndpointsPrefix: prefix}, testBuild, logger, store)
	return &testServer{t: t, handler: handler, logs: logs}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	return resp
}

func (s *testServer) json(method, target string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var b []byte
	if body != nil {
		var err error
		b, err = json.Marshal(body)
		require.NoError(s.t, err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

// logEntries returns the decoded log lines whose message is msg.
func (s *testServer) logEntries(msg string) []map[string]any {
	s.t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(s.logs.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(s.t, json.Unmarshal([]byte(line), &m))
		if m["msg"] == msg {
			entries = append(entries, m)
		}
	}
	return entries
}

func TestRouterBothSurfacesShareStore(t *testing.T) {
	s := newTestServer(t, "/api", datastores.NewContactsInmem())

	resp := s.json(http.MethodPost, "/api/contacts", map[string]string{
		"name":  "API User",
		"phone": "5555555555",
		"email": "api@example.com",
		"type":  "work",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = s.do(httptest.NewRequest(http.MethodGet, "/contact/"+strconv.FormatInt(created.ID, 10), nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "API User")

	form := url.Values{"name": {"Jane Doe"}, "phone": {"9876543210"}, "email": {"jane@example.com"}, "type": {"Personal"}}
	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp = s.do(req)
	require.Equal(t, http.StatusSeeOther, resp.Code)

	resp = s.json(http.MethodGet, "/api/contacts", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var contacts []map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &contacts))
	require.Len(t, contacts, 2)
	assert.Equal(t, "Jane Doe", contacts[1]["name"])
}

func TestRouterDeleteThenGet(t *testing.T) {
	s := newTestServer(t, "/api", datastores.NewContactsInmem(&datastores.Contact{
		Name: "John Doe", Phone: "1234567890", Email: "john@example.com", Type: "Personal",
	}))

	resp := s.json(http.MethodDelete, "/api/contacts/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	resp = s.json(http.MethodGet, "/api/contacts/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	entries := s.logEntries("error occurred")
	require.Len(t, entries, 1)
	assert.Equal(t, "WARN", entries[0]["level"])
}

func TestRouterPrefix(t *testing.T) {
	s := newTestServer(t, "/v1", datastores.NewContactsInmem())

	assert.Equal(t, http.StatusOK, s.json(http.MethodGet, "/v1/contacts", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.json(http.MethodGet, "/api/contacts", nil).Code)
}

func TestRouterRequestID(t *testing.T) {
	s := newTestServer(t, "/api", datastores.NewContactsInmem())

	for _, target := range []string{"/api/contacts", "/"} {
		resp := s.do(httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, resp.Code, target)
		_, err := uuid.Parse(resp.Header().Get(requestIDHeader))
		assert.NoError(t, err, target)

		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set(requestIDHeader, "req-42")
		resp = s.do(req)
		assert.Equal(t, "req-42", resp.Header().Get(requestIDHeader), target)
	}

	var ids []any
	for _, e := range s.logEntries("GET / HTTP/1.1") {
		ids = append(ids, e["x-request-id"])
	}
	assert.Contains(t, ids, "req-42")
}

func TestRouterMetrics(t *testing.T) {
	s := newTestServer(t, "/api", datastores.NewContactsInmem())
	s.json(http.MethodGet, "/api/contacts", nil)
	s.do(httptest.NewRequest(http.MethodGet, "/contact/7", nil))

	resp := s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/api/contacts",status="200"} 1`)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/contact/{id}",status="404"} 1`)
	assert.Contains(t, body, `build_info{goversion="`)
	assert.Contains(t, body, `version="1.2.3"`)
}

type pingStore struct {
	*datastores.ContactsInmem
	err error
}

func (s pingStore) Ping(context.Context) error { return s.err }

func TestRouterProbes(t *testing.T) {
	ok := newTestServer(t, "/api", pingStore{ContactsInmem: datastores.NewContactsInmem()})
	assert.Equal(t, http.StatusOK, ok.do(httptest.NewRequest(http.MethodGet, "/liveness", nil)).Code)
	assert.Equal(t, http.StatusOK, ok.do(httptest.NewRequest(http.MethodGet, "/readiness", nil)).Code)

	down := newTestServer(t, "/api", pingStore{ContactsInmem: datastores.NewContactsInmem(), err: errors.New("down")})
	assert.Equal(t, http.StatusOK, down.do(httptest.NewRequest(http.MethodGet, "/liveness", nil)).Code)
	assert.Equal(t, http.StatusServiceUnavailable, down.do(httptest.NewRequest(http.MethodGet, "/readiness", nil)).Code)

	plain := newTestServer(t, "/api", datastores.NewContactsInmem())
	assert.Equal(t, http.StatusOK, plain.do(httptest.NewRequest(http.MethodGet, "/readiness", nil)).Code)
}

func TestPageMiddlewareRecovers(t *testing.T) {
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, nil))
	meter := newRequestMeter(metrics.NewSet())

	mux := http.NewServeMux()
	mux.Handle("GET /boom", ctxlog{}.pageMiddleware(logger, meter)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, logs.String(), `"msg":"panic occurred"`)
}

func TestNewServer(t *testing.T) {
	srv := NewServer(&ServerOptions{Host: "localhost", Port: "9999"}, http.NotFoundHandler(), slog.New(slog.DiscardHandler))
	assert.Equal(t, "localhost:9999", srv.Addr)
	assert.NotNil(t, srv.ErrorLog)
}

func TestPatternPath(t *testing.T) {
	assert.Equal(t, "/contact/{id}", patternPath("GET /contact/{id}"))
	assert.Equal(t, "/metrics", patternPath("/metrics"))
	assert.Equal(t, "", patternPath(""))
}
