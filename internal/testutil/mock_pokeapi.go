// Package testutil provides testing utilities for the pokedex client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// Pokemon is the fixture shape served by the mock detail endpoint.
type Pokemon struct {
	ID     int
	Name   string
	Height int
	Weight int
	Types  []string
	Stats  []Stat
}

// Stat is a fixture stat entry.
type Stat struct {
	Name  string
	Value int
}

// MockPokeAPI is a configurable PokeAPI server for testing. Paths without a
// custom handler are served from the registered fixtures.
type MockPokeAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	list     []listEntry
	pokemon  map[int]Pokemon
	failing  map[int]int

	requestCount     int
	conditionalCount int
	inFlight         int
	maxInFlight      int
	lastHeader       http.Header
}

type listEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// NewMockPokeAPI creates and starts a mock PokeAPI server.
func NewMockPokeAPI() *MockPokeAPI {
	mock := &MockPokeAPI{
		handlers: make(map[string]http.HandlerFunc),
		pokemon:  make(map[int]Pokemon),
		failing:  make(map[int]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.lastHeader = r.Header.Clone()
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.conditionalCount++
		}
		mock.inFlight++
		if mock.inFlight > mock.maxInFlight {
			mock.maxInFlight = mock.inFlight
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		defer func() {
			mock.mu.Lock()
			mock.inFlight--
			mock.mu.Unlock()
		}()

		if exists {
			handler(w, r)
			return
		}
		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockPokeAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockPokeAPI) Close() {
	m.server.Close()
}

// SetHandler sets a custom handler for a specific path.
func (m *MockPokeAPI) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockPokeAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// AddListEntry appends a raw entry to the list endpoint. The URL is used
// verbatim so tests can register malformed locators.
func (m *MockPokeAPI) AddListEntry(name, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, listEntry{Name: name, URL: url})
}

// AddPokemon registers a fixture and a matching list entry.
func (m *MockPokeAPI) AddPokemon(p Pokemon) {
	m.mu.Lock()
	m.pokemon[p.ID] = p
	m.mu.Unlock()
	m.AddListEntry(p.Name, fmt.Sprintf("https://pokeapi.co/api/v2/pokemon/%d/", p.ID))
}

// FailDetail makes the detail endpoint for id answer with status.
func (m *MockPokeAPI) FailDetail(id int, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[id] = status
}

// RequestCount returns the number of requests made to the server.
func (m *MockPokeAPI) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// ConditionalCount returns the number of conditional requests.
func (m *MockPokeAPI) ConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conditionalCount
}

// MaxInFlight returns the highest number of concurrently served requests.
func (m *MockPokeAPI) MaxInFlight() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maxInFlight
}

// LastRequestHeader returns the headers of the most recent request.
func (m *MockPokeAPI) LastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastHeader
}

func (m *MockPokeAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/v2/pokemon"

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == prefix:
		m.serveList(w, r)
	case strings.HasPrefix(path, prefix+"/"):
		id, err := strconv.Atoi(strings.TrimPrefix(path, prefix+"/"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		m.serveDetail(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (m *MockPokeAPI) serveList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	m.mu.RLock()
	all := append([]listEntry(nil), m.list...)
	m.mu.RUnlock()

	if offset > len(all) {
		offset = len(all)
	}
	page := all[offset:]
	if limit > 0 && limit < len(page) {
		page = page[:limit]
	}

	writeJSON(w, map[string]any{
		"count":   len(all),
		"results": page,
	})
}

func (m *MockPokeAPI) serveDetail(w http.ResponseWriter, r *http.Request, id int) {
	m.mu.RLock()
	p, ok := m.pokemon[id]
	status, failing := m.failing[id]
	m.mu.RUnlock()

	if failing {
		w.WriteHeader(status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	types := make([]map[string]any, 0, len(p.Types))
	for i, t := range p.Types {
		types = append(types, map[string]any{
			"slot": i + 1,
			"type": map[string]string{"name": t, "url": "https://pokeapi.co/api/v2/type/" + t + "/"},
		})
	}
	stats := make([]map[string]any, 0, len(p.Stats))
	for _, s := range p.Stats {
		stats = append(stats, map[string]any{
			"base_stat": s.Value,
			"effort":    0,
			"stat":      map[string]string{"name": s.Name, "url": "https://pokeapi.co/api/v2/stat/" + s.Name + "/"},
		})
	}

	w.Header().Set("ETag", fmt.Sprintf(`W/"pokemon-%d"`, id))
	if r.Header.Get("If-None-Match") == fmt.Sprintf(`W/"pokemon-%d"`, id) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeJSON(w, map[string]any{
		"id":     p.ID,
		"name":   p.Name,
		"height": p.Height,
		"weight": p.Weight,
		"types":  types,
		"stats":  stats,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

// Bulbasaur and Charmander are shared fixtures.
var (
	Bulbasaur = Pokemon{
		ID: 1, Name: "bulbasaur", Height: 7, Weight: 69,
		Types: []string{"grass", "poison"},
		Stats: []Stat{{"hp", 45}, {"attack", 49}},
	}
	Charmander = Pokemon{
		ID: 4, Name: "charmander", Height: 6, Weight: 85,
		Types: []string{"fire"},
		Stats: []Stat{{"hp", 39}, {"attack", 52}},
	}
)
