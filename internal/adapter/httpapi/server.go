package httpapi

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/example/choufli-orders/internal/access"
	"github.com/example/choufli-orders/internal/domain"
	"github.com/example/choufli-orders/internal/telemetry"
	"github.com/example/choufli-orders/internal/usecase"
)

const (
	apiListLimit   = 50
	adminListLimit = 100
)

// Deps — зависимости HTTP-адаптера, собираются в main.
type Deps struct {
	Create     usecase.CreateOrder
	List       usecase.ListOrders
	Delete     usecase.DeleteOrder
	Policy     access.Policy
	StaticRoot string
	Log        *zap.Logger
	Metrics    *telemetry.Metrics
}

type Server struct {
	Router *mux.Router
	deps   Deps
	tmpl   *template.Template
}

func NewServer(d Deps) *Server {
	s := &Server{
		Router: mux.NewRouter(),
		deps:   d,
		tmpl:   template.Must(template.New("pages").Parse(adminTemplate + loginTemplate)),
	}
	r := s.Router
	r.Use(corsMiddleware, requestIDMiddleware, s.instrument)

	r.HandleFunc("/api/orders", s.handleListOrders).Methods(http.MethodGet).Name("list_orders")
	r.HandleFunc("/api/orders", s.handleCreateOrder).Methods(http.MethodPost).Name("create_order")
	r.HandleFunc("/admin", s.handleAdmin).Methods(http.MethodGet).Name("admin_page")
	r.HandleFunc("/admin/delete", s.handleAdminDelete).Methods(http.MethodPost).Name("admin_delete")
	r.Handle("/metrics", d.Metrics.Handler()).Methods(http.MethodGet).Name("metrics")
	// всё остальное: OPTIONS — CORS preflight, GET — статика, иначе 404
	r.PathPrefix("/").HandlerFunc(s.handleFallback).Name("static")
	return s
}

func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		s.serveStatic(w, r)
	default:
		writePlain(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.deps.List.Execute(r.Context(), apiListLimit)
	if err != nil {
		s.deps.Log.Error("list orders", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var p usecase.OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	_, err := s.deps.Create.Execute(r.Context(), p)
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSONError(w, http.StatusBadRequest, "Missing fields")
	case err != nil:
		s.deps.Log.Error("create order", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "Database error")
	default:
		writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
	}
}

// Каждый ответ, включая ошибки и статику, уходит с CORS-заголовками:
// фронтенд живёт на другом origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		next.ServeHTTP(w, r)
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		name := "unknown"
		if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
			name = route.GetName()
		}
		s.deps.Metrics.Record(name, r.Method, strconv.Itoa(rec.status), time.Since(start).Seconds())
		s.deps.Log.Info("request",
			zap.String("request_id", w.Header().Get("X-Request-ID")),
			zap.String("handler", name),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writePlain(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
