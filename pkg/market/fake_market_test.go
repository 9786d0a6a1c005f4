package market

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/market-contract-tests/internal/domain"
)

// fakeMarket is an in-memory stand-in for the market API with the same
// status codes and error messages.
type fakeMarket struct {
	mu         sync.Mutex
	nextID     int
	products   map[int]domain.Product
	categories map[int]string
	requests   []string
	lastBody   []byte
}

func newFakeMarket(t *testing.T) (*fakeMarket, *httptest.Server) {
	t.Helper()
	m := &fakeMarket{
		nextID:     1,
		products:   map[int]domain.Product{},
		categories: map[int]string{1: "Food", 2: "Electronic"},
	}
	srv := httptest.NewServer(http.StripPrefix("/market/api/v1", m))
	t.Cleanup(srv.Close)
	return m, srv
}

func (m *fakeMarket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, r.Method+" "+r.URL.Path)

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case parts[0] == "products" && len(parts) == 1:
		m.serveProducts(w, r)
	case parts[0] == "products" && len(parts) == 2:
		m.serveProduct(w, r, parts[1])
	case parts[0] == "categories" && len(parts) == 2 && r.Method == http.MethodGet:
		id, _ := strconv.Atoi(parts[1])
		title, ok := m.categories[id]
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Unable to find category with id: %d", id))
			return
		}
		writeJSON(w, http.StatusOK, domain.Category{ID: id, Title: title})
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (m *fakeMarket) serveProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ids := make([]int, 0, len(m.products))
		for id := range m.products {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		out := make([]domain.Product, 0, len(ids))
		for _, id := range ids {
			out = append(out, m.products[id])
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		raw, _ := io.ReadAll(r.Body)
		m.lastBody = raw
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err != nil || !m.valid(p) {
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		p = p.WithID(m.nextID)
		m.products[m.nextID] = p
		m.nextID++
		writeJSON(w, http.StatusCreated, p)
	case http.MethodPut:
		var p domain.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "malformed product")
			return
		}
		id, ok := p.IDValue()
		if _, exists := m.products[id]; !ok || !exists {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Product with id: %d doesn't exist", id))
			return
		}
		m.products[id] = p
		writeJSON(w, http.StatusOK, p)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (m *fakeMarket) serveProduct(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	p, exists := m.products[id]
	switch r.Method {
	case http.MethodGet:
		if !exists {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Unable to find product with id: %d", id))
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodDelete:
		if !exists {
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		delete(m.products, id)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (m *fakeMarket) valid(p domain.Product) bool {
	if p.GetTitle() == "" || len(p.GetTitle()) > 255 || p.Price == nil {
		return false
	}
	for _, title := range m.categories {
		if title == p.GetCategoryTitle() {
			return true
		}
	}
	return false
}

func (m *fakeMarket) has(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.products[id]
	return ok
}

func (m *fakeMarket) posted() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.lastBody)
}

func (m *fakeMarket) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.products)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, domain.ErrorMessage{
		Status:    status,
		Message:   msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
