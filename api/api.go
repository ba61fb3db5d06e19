package api

import (
	"errors"
	"net/http"

	"github.com/fogrup/fogrup-backend/db/model"
	"github.com/fogrup/fogrup-backend/service"
)

type OutUser struct {
	model.Base
	Displayname string `json:"displayname"`
	Rank        string `json:"rank"`
	Country     string `json:"country"`
	City        string `json:"city"`
}

func NewOutUser(u *model.User) *OutUser {
	if u == nil {
		return nil
	}
	return &OutUser{
		Base:        u.Base,
		Displayname: u.Displayname,
		Rank:        u.Rank,
		Country:     u.Country,
		City:        u.City,
	}
}

// OutMessage is the payload delivered over the live socket.
type OutMessage struct {
	From      *OutUser `json:"from"`
	ChatID    uint     `json:"chat_id"`
	Content   string   `json:"content"`
	Timestamp int64    `json:"timestamp"`
}

// Status maps service errors to response codes. Anything outside the
// taxonomy is a 500, which clients treat as retryable.
func Status(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
