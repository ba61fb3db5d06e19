package chat

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
	svc    *service.ChatService
}

func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)

	summaries, err := h.svc.ListChatsForMember(r.Context(), u.ID)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	out := make([]*OutChat, 0, len(summaries))
	for i := range summaries {
		out = append(out, newOutChat(&summaries[i]))
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(out)
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)

	var body InCreateChat
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ParticipantID == nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	c, err := h.svc.GetOrCreateDirectChat(r.Context(), u.ID, *body.ParticipantID)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(api.Status(err))
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(&OutCreateChat{ChatID: c.ID})
}

func (h *Handlers) listMessages(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	chatID, err := strconv.ParseUint(chi.URLParam(r, "chatID"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	msgs, err := h.svc.ListMessages(r.Context(), uint(chatID), u.ID, limit, offset)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(api.Status(err))
		return
	}
	out := make([]*OutMessage, 0, len(msgs))
	for i := range msgs {
		out = append(out, newOutMessage(&msgs[i]))
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(out)
}

func (h *Handlers) createMsg(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	chatID, err := strconv.ParseUint(chi.URLParam(r, "chatID"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var body InCreateMsg
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	msg, err := h.svc.SendMessage(r.Context(), uint(chatID), u.ID, *body.Text)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(api.Status(err))
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newOutMessage(msg))
}

func (h *Handlers) broadcast(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)

	var body InBroadcast
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Rank == nil || body.Text == nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	results, err := h.svc.SendBroadcast(r.Context(), u.ID, *body.Rank, *body.Text)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(api.Status(err))
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(&OutBroadcast{Rank: *body.Rank, Sent: len(results)})
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/chats", func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger))
		r.With(middleware.NoCache).Get("/", h.list)
		r.Post("/", h.create)
		r.Post("/broadcast", h.broadcast)
		r.With(middleware.NoCache).Get("/{chatID}/messages", h.listMessages)
		r.Post("/{chatID}/messages", h.createMsg)
	})
}

func NewHandlers(l *log.Logger, svc *service.ChatService) *Handlers {
	return &Handlers{l, svc}
}
