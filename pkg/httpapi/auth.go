package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the bearer token issued by the main application.
type Claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

type userKey struct{}

// UserFromContext returns the authenticated user set by the auth middleware.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey{}).(*domain.User)
	return user, ok && user != nil
}

// IssueToken signs an HS256 token for userID. Used by tests and tooling.
func IssueToken(secret string, userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: userID})
	return token.SignedString([]byte(secret))
}

type authenticator struct {
	secret []byte
	users  store.UserRepository
	logger logger.Logger
}

func (a authenticator) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r.Header.Get("Authorization"))
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "Token de acesso requerido")
			return
		}
		claims := &Claims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return a.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || claims.UserID <= 0 {
			writeError(w, http.StatusForbidden, "Token inválido")
			return
		}
		user, err := a.users.GetByID(r.Context(), claims.UserID)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Utilizador não encontrado")
			return
		}
		if err != nil {
			a.logger.Error("auth user lookup failed", logger.Int64("user_id", claims.UserID), logger.Err(err))
			writeError(w, http.StatusInternalServerError, msgInternal)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.IsAdmin {
			writeError(w, http.StatusForbidden, "Privilégios de administrador requeridos")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
