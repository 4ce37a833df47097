// redact предоставляет утилиты безопасного редактирования чувствительных
// данных для логов (e-mail, токены, пароли, одноразовые ссылки). Цель —
// исключить утечки секретов, сохранив полезный для отладки контекст.
package redact

import "strings"

// Email маскирует e-mail для логирования.
//
// Правила:
//   - Строка должна содержать РОВНО один символ '@', иначе возвращается "***";
//   - Локальная часть заменяется на первые два символа (по рунам) + "***";
//   - Если длина локальной части ≤ 2 символов — возвращается "***@<domain>";
//   - Доменная часть возвращается без изменений.
//
// Примеры:
//
//	"foobar@example.com"   -> "fo***@example.com"
//	"ab@ex.com"            -> "***@ex.com"
//	"no-at"                -> "***"
func Email(s string) string {
	if strings.Count(s, "@") != 1 {
		return "***"
	}

	i := strings.IndexByte(s, '@')
	local, domain := s[:i], s[i+1:]

	lr := []rune(local)
	if len(lr) > 2 {
		local = string(lr[:2]) + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

// Token возвращает литерал-заглушку для токена в логах.
func Token() string { return "[REDACTED_TOKEN]" }

// Password возвращает литерал-заглушку для пароля в логах.
func Password() string { return "[REDACTED_PASSWORD]" }

// TokenID укорачивает идентификатор токена (jti) до первых 8 символов.
// jti сам по себе не даёт доступа, но полный идентификатор в логах не нужен.
func TokenID(id string) string {
	if len(id) <= 8 {
		return id
	}

	return id[:8] + "…"
}

// Path заменяет сегмент пути, следующий за любым из markers, на Token().
//
//	Path("/api/v1/auth/verify/eyJhbGci", "verify") -> "/api/v1/auth/verify/[REDACTED_TOKEN]"
//
// Ссылки подтверждения и сброса пароля несут токен прямо в пути,
// поэтому логирующий мидлвар прогоняет путь через эту функцию.
func Path(p string, markers ...string) string {
	if len(markers) == 0 || p == "" {
		return p
	}

	parts := strings.Split(p, "/")
	for i := 0; i < len(parts)-1; i++ {
		for _, m := range markers {
			if parts[i] == m && parts[i+1] != "" {
				parts[i+1] = Token()
				i++
				break
			}
		}
	}

	return strings.Join(parts, "/")
}
