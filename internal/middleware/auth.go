package middleware

import (
	"RepoHost/internal/service"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

type ctxKey int

const identityKey ctxKey = iota

// UserParam — имя параметра маршрута с логином владельца.
const UserParam = "user"

// Authorizer проверяет пару логин/токен.
type Authorizer interface {
	Authorize(ctx context.Context, login, token string) (service.Identity, error)
}

// ErrorResponder пишет ответ об ошибке.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// WithAuth пропускает запрос дальше только с валидным токеном владельца из {user}.
// Токен передаётся заголовком Authorization: Bearer <token>.
func WithAuth(a Authorizer, onError ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			login := chi.URLParam(r, UserParam)
			if v, err := url.PathUnescape(login); err == nil {
				login = v
			}
			token := BearerToken(r)

			id, err := a.Authorize(r.Context(), login, token)
			if err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// BearerToken достаёт токен из заголовка Authorization.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// WithIdentity кладёт Identity в контекст.
func WithIdentity(ctx context.Context, id service.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext достаёт Identity, положенную WithAuth.
func IdentityFromContext(ctx context.Context) (service.Identity, bool) {
	id, ok := ctx.Value(identityKey).(service.Identity)
	return id, ok
}
