package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Header - заголовок с ключом доступа к API сервера
const Header = "X-API-Key"

type Auth struct {
	key []byte
	log *slog.Logger
}

func New(apiKey string, log *slog.Logger) *Auth {
	return &Auth{
		key: []byte(apiKey),
		log: log.With("component", "auth_middleware"),
	}
}

// Middleware принимает ключ из X-API-Key или Authorization: Bearer
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		key := ctx.Header(Header)
		if key == "" {
			if bearer := ctx.Header("Authorization"); strings.HasPrefix(bearer, "Bearer ") {
				key = bearer[len("Bearer "):]
			}
		}

		if key == "" || subtle.ConstantTimeCompare([]byte(key), a.key) != 1 {
			a.log.Warn("unauthorized request", "path", ctx.URL().Path, "remote_addr", ctx.RemoteAddr())
			ctx.SetHeader("Content-Type", "application/json")
			ctx.SetStatus(http.StatusUnauthorized)
			if err := json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
				"error": "Unauthorized",
			}); err != nil {
				a.log.Error("json encode", "error", err)
			}
			return
		}

		next(ctx)
	}
}
