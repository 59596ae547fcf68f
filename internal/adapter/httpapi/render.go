package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/example/choufli-orders/internal/domain"
)

type adminRow struct {
	Order domain.Order
	Items string
}

type adminPage struct {
	Orders []adminRow
	Key    string
}

func (s *Server) renderAdmin(w http.ResponseWriter, orders []domain.Order, key string) {
	page := adminPage{Key: key}
	for _, o := range orders {
		page.Orders = append(page.Orders, adminRow{Order: o, Items: itemsSummary(o.Items)})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "admin", page); err != nil {
		s.deps.Log.Error("render admin page", zap.Error(err))
	}
}

func (s *Server) renderLogin(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "login", nil); err != nil {
		s.deps.Log.Error("render login page", zap.Error(err))
	}
}

// itemsSummary сворачивает позиции заказа в строку вида "Pizza (M), Salade (L)".
func itemsSummary(raw json.RawMessage) string {
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fieldText(it["name"])+" ("+fieldText(it["size"])+")")
	}
	return strings.Join(parts, ", ")
}

func fieldText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// Пользовательские поля экранирует html/template; в шаблонах нет ни одного
// небезопасного контекста вывода.
const adminTemplate = `{{define "admin"}}<!DOCTYPE html>
<html lang="fr">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Admin - Commandes</title>
  <style>
    body { font-family: "Fira Sans", Arial, sans-serif; background: #f7f1e7; color: #1b1916; margin: 0; padding: 40px 24px; }
    h1 { margin-bottom: 20px; font-size: 1.8rem; }
    table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 12px; overflow: hidden; }
    th, td { padding: 12px 14px; text-align: left; border-bottom: 1px solid #efe6d7; font-size: 0.9rem; }
    th { background: #1b1916; color: #fff; text-transform: uppercase; font-size: 0.75rem; }
    tr:last-child td { border-bottom: none; }
    .action-btn { background: #1b1916; color: #fff; border: none; padding: 6px 10px; border-radius: 999px; font-size: 0.75rem; text-transform: uppercase; cursor: pointer; }
  </style>
</head>
<body>
  <h1>Commandes recentes</h1>
  <table>
    <thead>
      <tr>
        <th>ID</th><th>Nom</th><th>Telephone</th><th>Adresse</th>
        <th>Articles</th><th>Total</th><th>Date</th><th>Actions</th>
      </tr>
    </thead>
    <tbody>
      {{range .Orders}}
      <tr>
        <td>{{.Order.ID}}</td>
        <td>{{.Order.Name}}</td>
        <td>{{.Order.Phone}}</td>
        <td>{{.Order.Address}}</td>
        <td>{{.Items}}</td>
        <td>{{.Order.Total}} TND</td>
        <td>{{.Order.CreatedAt}}</td>
        <td>
          <form method="post" action="/admin/delete">
            <input type="hidden" name="id" value="{{.Order.ID}}" />
            {{if $.Key}}<input type="hidden" name="key" value="{{$.Key}}" />{{end}}
            <button class="action-btn" type="submit">Supprimer</button>
          </form>
        </td>
      </tr>
      {{else}}
      <tr><td colspan="8">Aucune commande.</td></tr>
      {{end}}
    </tbody>
  </table>
</body>
</html>
{{end}}`

const loginTemplate = `{{define "login"}}<!DOCTYPE html>
<html lang="fr">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Admin - Connexion</title>
  <style>
    body { font-family: "Fira Sans", Arial, sans-serif; background: #f7f1e7; color: #1b1916; margin: 0; padding: 80px 24px; display: grid; place-items: center; }
    form { background: #fff; border-radius: 16px; padding: 24px; display: grid; gap: 14px; min-width: 280px; }
    input { padding: 10px 12px; border: 1px solid #efe6d7; border-radius: 8px; }
    button { background: #1b1916; color: #fff; border: none; padding: 10px 12px; border-radius: 999px; cursor: pointer; text-transform: uppercase; font-size: 0.75rem; }
    p { font-size: 0.8rem; color: #6b645c; }
  </style>
</head>
<body>
  <form method="get" action="/admin">
    <h1>Acces administrateur</h1>
    <input type="password" name="key" placeholder="Cle d'acces" autofocus />
    <button type="submit">Entrer</button>
    <p>Ou utilisez vos identifiants HTTP Basic habituels.</p>
  </form>
</body>
</html>
{{end}}`
