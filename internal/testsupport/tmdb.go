package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// TMDBServer is an httptest server answering /movie/{id}/keywords requests
// from a fixed table. Unknown ids receive 404.
type TMDBServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests map[string]int
}

// NewTMDBServer starts a fake TMDB keyword endpoint. It is closed when the
// test finishes.
func NewTMDBServer(t testing.TB, keywordsByID map[string][]string) *TMDBServer {
	t.Helper()

	srv := &TMDBServer{requests: make(map[string]int)}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseKeywordsPath(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		srv.mu.Lock()
		srv.requests[id]++
		srv.mu.Unlock()

		names, ok := keywordsByID[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
			return
		}
		type keyword struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		}
		payload := struct {
			ID       string    `json:"id"`
			Keywords []keyword `json:"keywords"`
		}{ID: id}
		for i, name := range names {
			payload.Keywords = append(payload.Keywords, keyword{ID: i + 1, Name: name})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// Requests reports how many keyword requests were served for id.
func (s *TMDBServer) Requests(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[id]
}

// TotalRequests reports the number of keyword requests served.
func (s *TMDBServer) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.requests {
		total += n
	}
	return total
}

func parseKeywordsPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/movie/")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, "/keywords")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
