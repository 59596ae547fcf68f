package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/example/choufli-orders/internal/access"
	"github.com/example/choufli-orders/internal/adapter/repo"
	"github.com/example/choufli-orders/internal/domain"
	"github.com/example/choufli-orders/internal/telemetry"
	"github.com/example/choufli-orders/internal/usecase"
)

func newTestServer(t *testing.T, store domain.OrderStore, staticRoot string) *Server {
	t.Helper()
	return NewServer(Deps{
		Create:     usecase.CreateOrder{Store: store},
		List:       usecase.ListOrders{Store: store},
		Delete:     usecase.DeleteOrder{Store: store},
		Policy:     access.Policy{Secret: "s3cret", AllowBasic: true, AllowKey: true},
		StaticRoot: staticRoot,
		Log:        zap.NewNop(),
		Metrics:    telemetry.NewMetrics(prometheus.NewRegistry()),
	})
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

const validOrder = `{"customer":{"name":"Ali","phone":"123","address":"Tunis"},"items":[{"name":"Pizza","size":"M"}],"total":15}`

func TestCreateThenList(t *testing.T) {
	s := newTestServer(t, repo.NewMemoryStore(), t.TempDir())

	w := doJSON(t, s, http.MethodPost, "/api/orders", validOrder)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (%s)", w.Code, w.Body)
	}
	var created map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created["status"] != "ok" {
		t.Fatalf(`create body = %s, want {"status":"ok"}`, w.Body)
	}

	w = doJSON(t, s, http.MethodGet, "/api/orders", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", w.Code)
	}
	var listed struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(listed.Orders))
	}
	if o := listed.Orders[0]; o.Name != "Ali" || o.Total != 15 {
		t.Errorf("first order = %+v, want Ali with total 15", o)
	}
}

func TestListEmptyIsArray(t *testing.T) {
	s := newTestServer(t, repo.NewMemoryStore(), t.TempDir())
	w := doJSON(t, s, http.MethodGet, "/api/orders", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"orders":[]`) {
		t.Errorf("body = %s, want empty orders array", w.Body)
	}
}

func TestCreateInvalidJSON(t *testing.T) {
	s := newTestServer(t, repo.NewMemoryStore(), t.TempDir())
	w := doJSON(t, s, http.MethodPost, "/api/orders", `{"customer":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid JSON") {
		t.Errorf("body = %s, want Invalid JSON", w.Body)
	}
}

func TestCreateMissingFields(t *testing.T) {
	store := repo.NewMemoryStore()
	s := newTestServer(t, store, t.TempDir())
	w := doJSON(t, s, http.MethodPost, "/api/orders",
		`{"customer":{"name":"","phone":"123","address":"Tunis"},"items":[],"total":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Missing fields") {
		t.Errorf("body = %s, want Missing fields", w.Body)
	}
	if orders, _ := store.ListRecent(context.Background(), 10); len(orders) != 0 {
		t.Errorf("store has %d rows after rejected create, want 0", len(orders))
	}
}

type failingStore struct{}

func (failingStore) Init(context.Context) error { return nil }

func (failingStore) Insert(context.Context, domain.NewOrder) (int64, error) {
	return 0, &domain.StorageError{Op: "insert", Err: errors.New("disk on fire")}
}

func (failingStore) ListRecent(context.Context, int) ([]domain.Order, error) {
	return nil, &domain.StorageError{Op: "list", Err: errors.New("disk on fire")}
}

func (failingStore) Delete(context.Context, int64) error {
	return &domain.StorageError{Op: "delete", Err: errors.New("disk on fire")}
}

func TestStorageFailuresAreGeneric500s(t *testing.T) {
	s := newTestServer(t, failingStore{}, t.TempDir())

	w := doJSON(t, s, http.MethodPost, "/api/orders", validOrder)
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), "Database error") {
		t.Errorf("create: status %d body %s, want 500 Database error", w.Code, w.Body)
	}
	if strings.Contains(w.Body.String(), "disk on fire") {
		t.Error("driver detail leaked into response")
	}

	w = doJSON(t, s, http.MethodGet, "/api/orders", "")
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), "Database error") {
		t.Errorf("list: status %d body %s, want 500 Database error", w.Code, w.Body)
	}
}

func TestOptionsPreflight(t *testing.T) {
	s := newTestServer(t, repo.NewMemoryStore(), t.TempDir())
	for _, path := range []string{"/api/orders", "/admin", "/anything/else"} {
		w := doJSON(t, s, http.MethodOptions, path, "")
		if w.Code != http.StatusNoContent {
			t.Errorf("OPTIONS %s status = %d, want 204", path, w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("OPTIONS %s missing CORS origin header", path)
		}
	}
}

func TestCORSHeadersOnEveryResponse(t *testing.T) {
	s := newTestServer(t, repo.NewMemoryStore(), t.TempDir())
	w := doJSON(t, s, http.MethodGet, "/no/such/file", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("404 response lacks CORS headers")
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("404 response lacks allowed methods header")
	}
}

func TestUnmatchedMethodIs404(t *testing.T) {
	s := newTestServer(t, repo.NewMemoryStore(), t.TempDir())
	w := doJSON(t, s, http.MethodDelete, "/api/orders", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t, repo.NewMemoryStore(), t.TempDir())
	w := doJSON(t, s, http.MethodGet, "/api/orders", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("response lacks X-Request-ID")
	}
}

func TestStaticServing(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>menu</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, repo.NewMemoryStore(), root)

	t.Run("default document", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/", "")
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "menu") {
			t.Errorf("status %d body %s, want index.html content", w.Code, w.Body)
		}
		if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
			t.Errorf("Content-Type = %q, want text/html", ct)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/nope.css", "")
		if w.Code != http.StatusNotFound || w.Body.String() != "Not found" {
			t.Errorf("status %d body %q, want 404 Not found", w.Code, w.Body)
		}
	})
}

func TestStaticTraversalRejected(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "static")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	secret := filepath.Join(base, "secrets.txt")
	if err := os.WriteFile(secret, []byte("top secret"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, repo.NewMemoryStore(), root)

	for _, path := range []string{"/../secrets.txt", "/%2e%2e/secrets.txt", "/a/../../secrets.txt"} {
		w := doJSON(t, s, http.MethodGet, path, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, w.Code)
		}
		if strings.Contains(w.Body.String(), "top secret") {
			t.Errorf("GET %s leaked file content", path)
		}
	}
}
