package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Auth guards sync routes with the static API token from configuration.
type Auth struct {
	token string
	log   *slog.Logger
}

func New(token string, log *slog.Logger) *Auth {
	return &Auth{
		token: token,
		log:   log.With("component", "auth_middleware"),
	}
}

// Middleware enforces the token only on operations that declare the
// bearer security requirement; read endpoints stay public.
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !requiresToken(ctx.Operation()) {
			next(ctx)
			return
		}

		header := ctx.Header("Authorization")

		if len(header) < 7 || header[:7] != "Bearer " {
			a.log.Warn("missing bearer token", "path", ctx.URL().Path)
			a.reject(ctx)
			return
		}

		if subtle.ConstantTimeCompare([]byte(header[7:]), []byte(a.token)) != 1 {
			a.log.Warn("invalid api token", "path", ctx.URL().Path)
			a.reject(ctx)
			return
		}

		next(ctx)
	}
}

func requiresToken(op *huma.Operation) bool {
	if op == nil {
		return false
	}
	for _, req := range op.Security {
		if _, ok := req["bearer"]; ok {
			return true
		}
	}
	return false
}

func (a *Auth) reject(ctx huma.Context) {
	ctx.SetStatus(http.StatusUnauthorized)
	ctx.SetHeader("Content-Type", "application/json")

	if err := json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
		"error": "Unauthorized",
	}); err != nil {
		a.log.Error("encode unauthorized response", "error", err)
	}
}
