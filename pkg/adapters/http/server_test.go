package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sprout "github.com/openbadge-labs/sprout"
	"github.com/openbadge-labs/sprout/internal/logging"
	"github.com/openbadge-labs/sprout/pkg/adapters/memory"
	"github.com/openbadge-labs/sprout/pkg/domain"
	"github.com/openbadge-labs/sprout/pkg/ledger"
)

type testAPI struct {
	srv       *httptest.Server
	led       *memory.Ledger
	authority ledger.Address
	program   ledger.Address
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	program := ledger.AddressOf([]byte("badge-program"))
	led := memory.NewLedger(program)
	eng := sprout.New(led, program, sprout.WithMinBalance(5000))

	srv := httptest.NewServer(NewHandler(eng, logging.NewNop()))
	t.Cleanup(srv.Close)

	return &testAPI{
		srv:       srv,
		led:       led,
		authority: ledger.AddressOf([]byte("authority")),
		program:   program,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(t, err)

	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func (a *testAPI) createSession(t *testing.T, id string) {
	t.Helper()
	resp, _ := a.do(t, http.MethodPost, "/sessions", map[string]any{
		"id":        id,
		"authority": a.authority.String(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestCreateSession(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(t, http.MethodPost, "/sessions", map[string]any{
		"id":        "s1",
		"authority": api.authority.String(),
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, string(domain.StepNeedAccount), body["next_step"])

	t.Run("generated id", func(t *testing.T) {
		resp, body := api.do(t, http.MethodPost, "/sessions", map[string]any{
			"authority": api.authority.String(),
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		session := body["session"].(map[string]any)
		assert.NotEmpty(t, session["id"])
	})

	t.Run("missing authority", func(t *testing.T) {
		resp, _ := api.do(t, http.MethodPost, "/sessions", map[string]any{"id": "s2"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetSessionNotFound(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do(t, http.MethodGet, "/sessions/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProbeRendersNode(t *testing.T) {
	api := newTestAPI(t)
	api.createSession(t, "s1")

	resp, body := api.do(t, http.MethodPost, "/sessions/s1/probe", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(domain.StepNeedAccount), body["next_step"])

	node := body["node"].(map[string]any)
	assert.NotEmpty(t, node["text"])
	assert.NotEmpty(t, node["actions"])
}

func TestCreateFlowOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	api.createSession(t, "s1")

	// Account first.
	resp, body := api.do(t, http.MethodPost, "/sessions/s1/create/account", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, api.authority.String(), body["address"])

	// Re-probe so the balance lands in the session, then the profile.
	resp, _ = api.do(t, http.MethodPost, "/sessions/s1/probe", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = api.do(t, http.MethodPost, "/sessions/s1/create/profile", map[string]any{
		"params": map[string]any{"name": "Acme Academy"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t,
		ledger.Derive(ledger.TagIssuer, api.authority).String(),
		body["address"])
	assert.Equal(t, string(domain.StepNeedAchievement), body["next_step"])
}

func TestCreateStatusMapping(t *testing.T) {
	api := newTestAPI(t)
	api.createSession(t, "s1")

	t.Run("unknown kind", func(t *testing.T) {
		resp, _ := api.do(t, http.MethodPost, "/sessions/s1/create/badge", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("parent missing", func(t *testing.T) {
		resp, _ := api.do(t, http.MethodPost, "/sessions/s1/create/achievement", map[string]any{
			"params": map[string]any{"name": "Go 101", "description": "d"},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		// A present but underfunded account: probe sees it, the create is
		// rejected with 402.
		api.led.Fund(api.authority, 10)
		resp, _ := api.do(t, http.MethodPost, "/sessions/s1/probe", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = api.do(t, http.MethodPost, "/sessions/s1/create/profile", map[string]any{
			"params": map[string]any{"name": "Acme"},
		})
		assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	})

	t.Run("missing params", func(t *testing.T) {
		api.led.Fund(api.authority, 10_000)
		resp, _ := api.do(t, http.MethodPost, "/sessions/s1/probe", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = api.do(t, http.MethodPost, "/sessions/s1/create/profile", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("invalid params", func(t *testing.T) {
		resp, _ := api.do(t, http.MethodPost, "/sessions/s1/create/profile", map[string]any{
			"params": map[string]any{"name": ""},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown param fields", func(t *testing.T) {
		resp, _ := api.do(t, http.MethodPost, "/sessions/s1/create/profile", map[string]any{
			"params": map[string]any{"name": "Acme", "tagline": "nope"},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestResetOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	api.createSession(t, "s1")

	t.Run("valid boundary", func(t *testing.T) {
		resp, body := api.do(t, http.MethodPost, "/sessions/s1/reset", map[string]any{
			"boundary": "flags",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotNil(t, body["session"])
	})

	t.Run("unknown boundary", func(t *testing.T) {
		resp, _ := api.do(t, http.MethodPost, "/sessions/s1/reset", map[string]any{
			"boundary": "profile",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRefreshBalanceOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	api.createSession(t, "s1")
	api.led.Fund(api.authority, 7777)

	resp, body := api.do(t, http.MethodPost, "/sessions/s1/balance", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	session := body["session"].(map[string]any)
	resources := session["resources"].([]any)
	account := resources[domain.KindAccount].(map[string]any)
	assert.EqualValues(t, 7777, account["lamports"])
}

// busyEngine rejects every creation as already in flight. The embedded
// interface stays nil: only AttemptCreate is reachable in the test.
type busyEngine struct {
	Engine
}

func (busyEngine) AttemptCreate(ctx context.Context, sessionID string, kind domain.Kind) (ledger.Address, error) {
	return ledger.Zero, domain.ErrCreationBusy
}

func TestBusyCreateReturnsConflict(t *testing.T) {
	srv := httptest.NewServer(NewHandler(busyEngine{}, logging.NewNop()))
	t.Cleanup(srv.Close)

	resp, err := srv.Client().Post(srv.URL+"/sessions/s1/create/account", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
