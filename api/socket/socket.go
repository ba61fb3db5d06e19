package socket

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/fogrup/fogrup-backend/api"
	"github.com/fogrup/fogrup-backend/db"
	"github.com/fogrup/fogrup-backend/db/model"
	"github.com/fogrup/fogrup-backend/env"
	"github.com/fogrup/fogrup-backend/middleware"
	"github.com/fogrup/fogrup-backend/mq"
	"github.com/fogrup/fogrup-backend/ws"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/nsqio/go-nsq"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handlers struct {
	logger *log.Logger
}

func (h *Handlers) serveWs(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	s, ok := r.Context().Value("session").(*model.Session)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var chats []*model.Chat
	err := db.GetDB(r.Context()).
		Joins("JOIN chat_participants cp ON cp.chat_id = chats.id").
		Where("cp.user_id = ?", u.ID).
		Find(&chats).
		Error
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Println(err)
		return
	}
	c := ws.NewClient(&ws.ClientCfg{
		Logger:  h.logger,
		Hub:     ws.GetHub(),
		Conn:    conn,
		User:    u,
		Session: s,
	})

	for _, chat := range chats {
		consumer, err := mq.NewConsumer(chat.Topic, s.Ch)
		if err != nil {
			h.logger.Println(err)
			continue
		}
		consumer.AddHandler(nsq.HandlerFunc(func(message *nsq.Message) error {
			var data mq.Message
			if err := json.Unmarshal(message.Body, &data); err != nil {
				return err
			}
			m := api.OutMessage{
				From: &api.OutUser{
					Base:        model.Base{ID: data.From.ID},
					Displayname: data.From.Displayname,
				},
				ChatID:    data.ChatID,
				Content:   data.Body,
				Timestamp: data.Timestamp,
			}
			b, err := json.Marshal(m)
			if err != nil {
				return err
			}
			c.Send() <- b
			return nil
		}))
		if err := consumer.ConnectToNSQLookupd(env.NSQLOOKUPD_ADDR); err != nil {
			h.logger.Println(err)
			consumer.Stop()
			continue
		}
		c.AddConsumer(chat.Topic, consumer)
	}

	ws.GetHub().Register() <- c
	go c.WritePump()
	go c.ReadPump()
}

func (h *Handlers) connect(w http.ResponseWriter, r *http.Request) {
	h.serveWs(w, r)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger))
		r.Get("/ws", h.connect)
	})
}

func NewHandlers(logger *log.Logger) *Handlers {
	return &Handlers{logger}
}
