package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/fogrup/fogrup-backend/db"
	"github.com/fogrup/fogrup-backend/db/model"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

func WithOpponent(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "userID")
		if id == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var u model.User
		if err := db.GetDB(r.Context()).First(&u, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				w.WriteHeader(http.StatusNotFound)
			} else {
				w.WriteHeader(http.StatusInternalServerError)
			}
			return
		}
		ctx := context.WithValue(r.Context(), "opponent", &u)
		h.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(fn)
}
