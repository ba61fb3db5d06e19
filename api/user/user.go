package user

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/fogrup/fogrup-backend/api"
	"github.com/fogrup/fogrup-backend/db"
	"github.com/fogrup/fogrup-backend/db/model"
	"github.com/fogrup/fogrup-backend/middleware"
	"github.com/go-chi/chi/v5"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

type Handlers struct {
	logger *log.Logger
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	opponent := r.Context().Value("opponent").(*model.User)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(api.NewOutUser(opponent))
}

// block is idempotent: blocking an already blocked member changes
// nothing. The blocked member is never informed either way.
func (h *Handlers) block(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)

	var body InBlockUser
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if *body.UserID == u.ID {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	b := &model.Block{BlockerID: u.ID, BlockedID: *body.UserID}
	if err := db.GetDB(r.Context()).Clauses(clause.OnConflict{DoNothing: true}).Create(b).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) unblock(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	opponent := r.Context().Value("opponent").(*model.User)

	err := db.GetDB(r.Context()).
		Where("blocker_id = ? AND blocked_id = ?", u.ID, opponent.ID).
		Delete(&model.Block{}).
		Error
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) updateVisibility(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)

	raw, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(raw) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	err = db.GetDB(r.Context()).
		Model(u).
		Update("visibility_settings", datatypes.JSON(raw)).
		Error
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) updateSettings(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)

	var body InUpdateSettings
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	updates := map[string]any{}
	if body.VisibilitySettings != nil {
		updates["visibility_settings"] = datatypes.JSON(body.VisibilitySettings)
	}
	if body.SearchSettings != nil {
		updates["search_settings"] = datatypes.JSON(body.SearchSettings)
	}
	if len(updates) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := db.GetDB(r.Context()).Model(u).Updates(updates).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger))
		r.Post("/block", h.block)
		r.With(middleware.WithOpponent).Delete("/block/{userID}", h.unblock)
		r.Put("/visibility", h.updateVisibility)
		r.Put("/me/settings", h.updateSettings)
		r.With(middleware.WithOpponent).Get("/{userID}", h.getUser)
	})
}

func NewHandlers(l *log.Logger) *Handlers {
	return &Handlers{l}
}
