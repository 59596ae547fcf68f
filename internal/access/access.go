package access

import (
	"encoding/base64"
	"strings"
)

// Policy — правила доступа к админ-ресурсу. Обе схемы (Basic и общий ключ)
// включаются независимо; выключенная схема никогда не даёт доступ.
type Policy struct {
	Secret     string
	AllowBasic bool
	AllowKey   bool
}

// Decision — результат проверки для одного запроса, не персистентен.
// ViaKey взводится только когда доступ дал ключ, а не Basic: от этого зависит,
// попадёт ли ключ скрытым полем в форму удаления.
type Decision struct {
	Authorized bool
	ViaKey     bool
	Reason     string
}

// Authorize принимает сырой заголовок Authorization и ключ из запроса.
// Некорректный или чужой заголовок — это "не авторизован", не ошибка.
func (p Policy) Authorize(authHeader, key string) Decision {
	if p.AllowBasic && p.basicOK(authHeader) {
		return Decision{Authorized: true, Reason: "basic"}
	}
	if p.AllowKey && key != "" && key == p.Secret {
		return Decision{Authorized: true, ViaKey: true, Reason: "key"}
	}
	return Decision{Reason: "no valid credential"}
}

func (p Policy) basicOK(header string) bool {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return false
	}
	user, pass, ok := strings.Cut(string(raw), ":")
	return ok && user == "admin" && pass == p.Secret
}
