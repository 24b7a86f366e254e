package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Sternrassler/pokedex-client/internal/testutil"
	"github.com/Sternrassler/pokedex-client/pkg/client"
	"github.com/Sternrassler/pokedex-client/pkg/pokeapi"
	"github.com/Sternrassler/pokedex-client/pkg/pokedex"
	"github.com/Sternrassler/pokedex-client/pkg/profile"
	"github.com/Sternrassler/pokedex-client/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory profileStore with the same merge semantics
// as the Redis store.
type memoryStore struct {
	mu      sync.Mutex
	docs    map[string]map[string]string
	pingErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: make(map[string]map[string]string)}
}

func (m *memoryStore) GetProfile(ctx context.Context, id *profile.Identity) (*profile.Profile, error) {
	if id == nil || id.UID == "" {
		return nil, profile.ErrUnauthenticated
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return &profile.Profile{UID: id.UID, Email: id.Email, Team: m.docs[id.UID][profile.FieldTeam]}, nil
}

func (m *memoryStore) SaveTeam(ctx context.Context, id *profile.Identity, team string) error {
	if id == nil || id.UID == "" {
		return profile.ErrUnauthenticated
	}
	if !profile.ValidTeam(team) {
		return profile.ErrInvalidTeam
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id.UID]
	if !ok {
		doc = make(map[string]string)
		m.docs[id.UID] = doc
	}
	doc[profile.FieldTeam] = team
	if id.Email != "" {
		doc[profile.FieldEmail] = id.Email
	}
	return nil
}

func (m *memoryStore) Ping(ctx context.Context) error {
	return m.pingErr
}

type testEnv struct {
	mock     *testutil.MockPokeAPI
	store    *memoryStore
	verifier *session.Verifier
	server   *Server
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()

	mock := testutil.NewMockPokeAPI()
	t.Cleanup(mock.Close)
	mock.AddPokemon(testutil.Bulbasaur)
	mock.AddPokemon(testutil.Charmander)

	cfg := client.DefaultConfig("pokedex-proxy-test/1.0")
	cfg.BaseURL = mock.URL()
	c, err := client.New(cfg)
	require.NoError(t, err)

	verifier, err := session.NewVerifier("test-secret", "")
	require.NoError(t, err)

	store := newMemoryStore()
	server := NewServer(ServerOptions{
		Pokedex:   pokedex.NewRepository(pokeapi.NewAPI(c)),
		Profiles:  store,
		Verifier:  verifier,
		ListLimit: 60,
	})

	return &testEnv{mock: mock, store: store, verifier: verifier, server: server}
}

func (e *testEnv) do(t *testing.T, method, target string, body io.Reader, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

func (e *testEnv) token(t *testing.T, uid, email string) string {
	t.Helper()
	token, err := e.verifier.Issue(profile.Identity{UID: uid, Email: email}, time.Hour)
	require.NoError(t, err)
	return token
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestReadyEndpoint(t *testing.T) {
	env := setupServer(t)

	w := env.do(t, "GET", "/ready", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	env.store.pingErr = errors.New("connection refused")
	w = env.do(t, "GET", "/ready", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupServer(t)

	env.do(t, "GET", "/health", nil, "")
	w := env.do(t, "GET", "/metrics", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pokedex_http_requests_total")
}

func TestRequestID(t *testing.T) {
	env := setupServer(t)

	w := env.do(t, "GET", "/health", nil, "")
	generated := w.Header().Get(requestIDHeader)
	assert.NotEmpty(t, generated)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(requestIDHeader, "0b8e5c8e-6f0e-4f59-9d62-3c1f0d5a2b11")
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	assert.Equal(t, "0b8e5c8e-6f0e-4f59-9d62-3c1f0d5a2b11", rec.Header().Get(requestIDHeader))

	req = httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(requestIDHeader))
}

func TestListPokemon(t *testing.T) {
	env := setupServer(t)

	w := env.do(t, "GET", "/pokemon", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []string{"Fuego", "Planta", "Veneno"}, resp.Categories)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Bulbasaur", resp.Items[0].Name)
	assert.Equal(t, []string{"Planta", "Veneno"}, resp.Items[0].Categories)
	assert.Equal(t, pokeapi.ImageURL(4), resp.Items[1].ImageURL)
}

func TestListPokemon_Filters(t *testing.T) {
	env := setupServer(t)

	w := env.do(t, "GET", "/pokemon?type=Fuego", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 4, resp.Items[0].ID)
	// Chips come from the unfiltered list.
	assert.Len(t, resp.Categories, 3)

	w = env.do(t, "GET", "/pokemon?q=BULBA", nil, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Items[0].ID)
}

func TestListPokemon_Limit(t *testing.T) {
	env := setupServer(t)

	w := env.do(t, "GET", "/pokemon?limit=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 1)

	for _, bad := range []string{"0", "-3", "many"} {
		w := env.do(t, "GET", "/pokemon?limit="+bad, nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", bad)
	}
}

func TestListPokemon_DetailFailureDegrades(t *testing.T) {
	env := setupServer(t)
	env.mock.FailDetail(4, http.StatusInternalServerError)

	w := env.do(t, "GET", "/pokemon", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, []string{}, resp.Items[1].Categories)
}

func TestListPokemon_ListFailure(t *testing.T) {
	env := setupServer(t)
	env.mock.SetResponse("/api/v2/pokemon", testutil.MockResponse{StatusCode: http.StatusServiceUnavailable})

	w := env.do(t, "GET", "/pokemon", nil, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "server error")
}

func TestGetPokemon(t *testing.T) {
	env := setupServer(t)

	w := env.do(t, "GET", "/pokemon/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var detail pokedex.DisplayDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "Bulbasaur", detail.Name)
	assert.Equal(t, []string{"Planta", "Veneno"}, detail.Categories)
	assert.Equal(t, []pokedex.Attribute{{Label: "PS", Value: 45}, {Label: "Ataque", Value: 49}}, detail.Attributes)
}

func TestGetPokemon_Errors(t *testing.T) {
	env := setupServer(t)
	env.mock.FailDetail(4, http.StatusInternalServerError)

	tests := []struct {
		path   string
		status int
	}{
		{"/pokemon/abc", http.StatusBadRequest},
		{"/pokemon/-1", http.StatusBadRequest},
		{"/pokemon/0", http.StatusBadRequest},
		{"/pokemon/9999", http.StatusNotFound},
		{"/pokemon/4", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := env.do(t, "GET", tt.path, nil, "")
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestGetTeams(t *testing.T) {
	env := setupServer(t)

	w := env.do(t, "GET", "/teams", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var teams []profile.Team
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &teams))
	assert.Len(t, teams, 3)
}

func TestProfile_RequiresToken(t *testing.T) {
	env := setupServer(t)

	w := env.do(t, "GET", "/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, "PUT", "/profile/team", strings.NewReader(`{"team":"Azul"}`), "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfile_SaveAndGet(t *testing.T) {
	env := setupServer(t)
	token := env.token(t, "ash", "ash@example.com")

	w := env.do(t, "GET", "/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var p profile.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, profile.Profile{UID: "ash", Email: "ash@example.com"}, p)

	w = env.do(t, "PUT", "/profile/team", strings.NewReader(`{"team":"Azul"}`), token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, profile.TeamBlue, p.Team)

	w = env.do(t, "GET", "/profile", nil, token)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, profile.TeamBlue, p.Team)
}

func TestProfile_SaveTeamValidation(t *testing.T) {
	env := setupServer(t)
	token := env.token(t, "brock", "")

	w := env.do(t, "PUT", "/profile/team", strings.NewReader(`{"team":"Verde"}`), token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "PUT", "/profile/team", strings.NewReader(`{team`), token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
