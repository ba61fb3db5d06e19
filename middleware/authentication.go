package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/fogrup/fogrup-backend/db"
	"github.com/fogrup/fogrup-backend/db/model"
	"github.com/fogrup/fogrup-backend/env"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

func Authenticator(logger *log.Logger) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return env.HS256_SECRET, nil
			})
			if err != nil || !t.Valid {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			claims, ok := t.Claims.(jwt.MapClaims)
			if !ok || claims["sub"] == nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			uid := claims["sub"].(string)

			var u model.User
			if err := db.GetDB(r.Context()).Preload("Sessions").First(&u, uid).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					w.WriteHeader(http.StatusForbidden)
				} else {
					logger.Println(err)
					w.WriteHeader(http.StatusInternalServerError)
				}
				return
			}
			ctx := context.WithValue(r.Context(), "user", &u)
			if ip, ok := claims["aud"].(string); ok {
				for i := range u.Sessions {
					if u.Sessions[i].IP == ip {
						ctx = context.WithValue(ctx, "session", &u.Sessions[i])
						break
					}
				}
			}
			h.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
