package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-elevate/pkg/dispatch"
	"github.com/tendant/simple-elevate/pkg/elevate"
	"github.com/tendant/simple-elevate/pkg/identity"
	"github.com/tendant/simple-elevate/pkg/params"
	"github.com/tendant/simple-elevate/pkg/session"
)

type testServer struct {
	router  *chi.Mux
	store   *params.InMemoryStore
	service *elevate.Service
	base    *nopDispatcher
}

type nopDispatcher struct {
	count int
}

func (d *nopDispatcher) Dispatch(ctx context.Context, stmt dispatch.Statement) error {
	d.count++
	return nil
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	registry := identity.NewInMemoryRegistry()
	app := registry.AddIdentity("app", false)
	registry.AddIdentity("alice", true)

	store := params.NewInMemoryStore()
	store.DefineString(elevate.LogStatementParameter, "Sets the type of statements logged", "none", params.PrivilegeSuperuser)
	elevate.DefinePolicyParameters(store)

	sess := session.New(app)
	service := elevate.NewService(registry, store, sess)

	base := &nopDispatcher{}
	chain := dispatch.NewChain(base)
	chain.Install(elevate.NewGate(service, store))

	router := chi.NewRouter()
	NewHandler(service, chain).RegisterRoutes(router)

	return &testServer{
		router:  router,
		store:   store,
		service: service,
		base:    base,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestElevateEndpoint(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodPost, "/elevate", ElevateRequest{Username: "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
	assert.True(t, server.service.Active())

	// Second elevation without revert is a conflict.
	rec = server.do(t, http.MethodPost, "/elevate", ElevateRequest{Username: "alice"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = server.do(t, http.MethodPost, "/revert", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, server.service.Active())

	rec = server.do(t, http.MethodPost, "/revert", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestElevateUnknownRole(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodPost, "/elevate", ElevateRequest{Username: "nobody"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestElevateMissingUsername(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodPost, "/elevate", ElevateRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecBlockedByPolicy(t *testing.T) {
	server := newTestServer(t)

	require.NoError(t, server.store.Reload(map[string]string{
		elevate.BlockAlterSystemParameter: "true",
	}))

	rec := server.do(t, http.MethodPost, "/elevate", ElevateRequest{Username: "alice"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodPost, "/exec", ExecRequest{SQL: "ALTER SYSTEM SET work_mem = '64MB'"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, server.base.count)

	// Other statements still execute.
	rec = server.do(t, http.MethodPost, "/exec", ExecRequest{SQL: "CREATE TABLE t (id int)"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, server.base.count)
}

func TestStatusEndpoint(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Active)
	assert.Equal(t, "app", status.EffectiveRole)
	assert.Empty(t, status.OriginalRole)

	server.do(t, http.MethodPost, "/elevate", ElevateRequest{Username: "alice"})

	rec = server.do(t, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Active)
	assert.Equal(t, "alice", status.EffectiveRole)
	assert.True(t, status.Superuser)
	assert.Equal(t, "app", status.OriginalRole)
}
