package relationship

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
	svc    *service.RelationshipService
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)

	var body InCreateRelationship
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil || body.TargetID == nil || body.Type == nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	rel, err := h.svc.Create(r.Context(), u.ID, *body.TargetID, *body.Type)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(api.Status(err))
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newOutRelationship(rel, u.ID))
}

func (h *Handlers) respond(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)

	relID, err := strconv.ParseUint(chi.URLParam(r, "relationshipID"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var body InRespondRelationship
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	rel, err := h.svc.Respond(r.Context(), uint(relID), u.ID, *body.Status)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(api.Status(err))
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newOutRelationship(rel, u.ID))
}

// delete removes the active edge with the member in the URL, whoever
// initiated it. Nothing to delete is still a 200.
func (h *Handlers) delete(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	opponent := r.Context().Value("opponent").(*model.User)

	if err := h.svc.Delete(r.Context(), u.ID, opponent.ID); err != nil {
		h.logger.Println(err)
		w.WriteHeader(api.Status(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) my(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)

	rels, err := h.svc.ListForMember(r.Context(), u.ID)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	out := make([]*OutRelationship, 0, len(rels))
	for i := range rels {
		out = append(out, newOutRelationship(&rels[i], u.ID))
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(out)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/relationships", func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger))
		r.Post("/", h.create)
		r.With(middleware.NoCache).Get("/my", h.my)
		r.Put("/{relationshipID}", h.respond)
		r.With(middleware.WithOpponent).Delete("/{userID}", h.delete)
	})
}

func NewHandlers(l *log.Logger, svc *service.RelationshipService) *Handlers {
	return &Handlers{l, svc}
}
