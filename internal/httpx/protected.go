package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gorilla/mux"
)

type contextKey string

const artistIDContextKey contextKey = "artistID"

// Protected verifies the bearer token issued by the auth module and stores its
// subject as the acting artist id.
func Protected(jwtSecret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				LoggerFromContext(r.Context()).WithError(err).Debug("rejected bearer token")
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			sub := subject(claims)
			if sub == "" {
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithArtistID(r.Context(), sub)))
		})
	}
}

// subject accepts both string and numeric sub claims.
func subject(claims jwt.MapClaims) string {
	switch sub := claims["sub"].(type) {
	case string:
		return sub
	case float64:
		return fmt.Sprintf("%.0f", sub)
	default:
		return ""
	}
}

func WithArtistID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, artistIDContextKey, id)
}

func ArtistIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(artistIDContextKey).(string)
	return id, ok && id != ""
}
