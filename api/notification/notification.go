package notification

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/fogrup/fogrup-backend/api"
	"github.com/fogrup/fogrup-backend/db/model"
	"github.com/fogrup/fogrup-backend/middleware"
	"github.com/fogrup/fogrup-backend/service"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	logger *log.Logger
	svc    *service.NotificationService
}

func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	ns, err := h.svc.ListForUser(r.Context(), u.ID, limit, offset)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	out := make([]*OutNotification, 0, len(ns))
	for i := range ns {
		out = append(out, newOutNotification(&ns[i]))
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(out)
}

func (h *Handlers) unreadCount(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)

	count, err := h.svc.UnreadCount(r.Context(), u.ID)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(&OutUnreadCount{Count: count})
}

func (h *Handlers) markRead(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	id, err := strconv.ParseUint(chi.URLParam(r, "notificationID"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := h.svc.MarkRead(r.Context(), uint(id), u.ID); err != nil {
		h.logger.Println(err)
		w.WriteHeader(api.Status(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// respond accepts or rejects the relationship request behind a
// notification, then clears the notification. Failure of the
// relationship step leaves the inbox entry in place.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	id, err := strconv.ParseUint(chi.URLParam(r, "notificationID"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var body InRespondNotification
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := h.svc.Respond(r.Context(), uint(id), u.ID, *body.Status); err != nil {
		h.logger.Println(err)
		w.WriteHeader(api.Status(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger))
		r.With(middleware.NoCache).Get("/", h.list)
		r.With(middleware.NoCache).Get("/unread-count", h.unreadCount)
		r.Put("/{notificationID}/read", h.markRead)
		r.Post("/{notificationID}/respond", h.respond)
	})
}

func NewHandlers(l *log.Logger, svc *service.NotificationService) *Handlers {
	return &Handlers{l, svc}
}
