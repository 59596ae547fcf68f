package httpapi

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// handleAdmin отдаёт список заказов авторизованному оператору, остальным —
// страницу входа (200, не 401: браузеру нужна форма, чтобы отправить ключ).
func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	dec := s.deps.Policy.Authorize(r.Header.Get("Authorization"), r.URL.Query().Get("key"))
	if !dec.Authorized {
		s.renderLogin(w)
		return
	}
	orders, err := s.deps.List.Execute(r.Context(), adminListLimit)
	if err != nil {
		s.deps.Log.Error("admin list orders", zap.Error(err))
		writePlain(w, http.StatusInternalServerError, "Database error")
		return
	}
	// ключ уходит в формы удаления только для ключевой сессии; при Basic
	// браузер сам повторит учётные данные
	key := ""
	if dec.ViaKey {
		key = r.URL.Query().Get("key")
	}
	s.renderAdmin(w, orders, key)
}

func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writePlain(w, http.StatusBadRequest, "Invalid form")
		return
	}
	dec := s.deps.Policy.Authorize(r.Header.Get("Authorization"), r.PostFormValue("key"))
	if !dec.Authorized {
		w.Header().Set("WWW-Authenticate", `Basic realm="Admin"`)
		writePlain(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		writePlain(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	if err := s.deps.Delete.Execute(r.Context(), id); err != nil {
		s.deps.Log.Error("delete order", zap.Int64("order_id", id), zap.Error(err))
		writePlain(w, http.StatusInternalServerError, "Database error")
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
