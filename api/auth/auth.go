package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/fogrup/fogrup-backend/db"
	"github.com/fogrup/fogrup-backend/db/model"
	"github.com/fogrup/fogrup-backend/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

type Handlers struct {
	logger *log.Logger
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var body InRegister
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid input"))
		return
	}

	var exists bool
	err := db.GetDB(r.Context()).
		Raw("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", body.Email).
		Scan(&exists).
		Error
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if exists {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("email exists"))
		return
	}

	passBytes, err := bcrypt.GenerateFromPassword([]byte(body.Password), 14)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	u := &model.User{
		Email:       body.Email,
		Displayname: body.Displayname,
		Pass:        string(passBytes),
		Rank:        body.Rank,
		Country:     body.Country,
		City:        body.City,
	}
	if err := db.GetDB(r.Context()).Create(u).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(u)
}

func (h *Handlers) signin(w http.ResponseWriter, r *http.Request) {
	var body InSignin
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	c := r.Context()
	u, err := getUserFromEmail(c, body.Email)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if u == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Pass), []byte(body.Password)) != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	ip := c.Value("deviceIP").(string)
	pushToken, _ := c.Value("expoPushToken").(string)
	s := &model.Session{}
	if err := db.GetDB(c).Where(&model.Session{UserID: u.ID, IP: ip}).First(s).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if s, err = insertSession(c, u.ID, ip, pushToken); err != nil {
			h.logger.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	accessToken, err := genAccessToken(ip, strconv.FormatUint(uint64(u.ID), 10))
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(&OutSignin{AccessToken: accessToken})
}

func (h *Handlers) user(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(u); err != nil {
		h.logger.Println(err)
	}
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.With(middleware.WithExpoPushToken).Post("/signin", h.signin)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticator(h.logger))
			r.With(middleware.NoCache).Get("/user", h.user)
		})
	})
}

func getUserFromEmail(ctx context.Context, email string) (user *model.User, err error) {
	user = &model.User{}
	if err = db.GetDB(ctx).First(user, "email = ?", email).Error; err != nil {
		user = nil
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = nil
		}
	}
	return
}

func insertSession(ctx context.Context, userID uint, ip, token string) (*model.Session, error) {
	k := fmt.Sprintf("%d:%s", userID, ip)
	sum := sha256.Sum256([]byte(k))

	session := &model.Session{
		UserID:        userID,
		IP:            ip,
		Ch:            hex.EncodeToString(sum[:]),
		ExpoPushToken: token,
	}
	if err := db.GetDB(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func NewHandlers(logger *log.Logger) *Handlers {
	return &Handlers{logger}
}
