package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fogrup/fogrup-backend/api/auth"
	"github.com/fogrup/fogrup-backend/api/chat"
	"github.com/fogrup/fogrup-backend/api/notification"
	"github.com/fogrup/fogrup-backend/api/relationship"
	"github.com/fogrup/fogrup-backend/api/socket"
	"github.com/fogrup/fogrup-backend/api/user"
	"github.com/fogrup/fogrup-backend/db"
	"github.com/fogrup/fogrup-backend/mq"
	"github.com/fogrup/fogrup-backend/redis"
	"github.com/fogrup/fogrup-backend/server"
	"github.com/fogrup/fogrup-backend/service"
	"github.com/fogrup/fogrup-backend/ws"
	"github.com/go-chi/chi/v5"
	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
)

func cleanup() {
	mq.StopProducers()
	ws.GetHub().Close()
}

func main() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		cleanup()
		fmt.Println("quit")
		os.Exit(0)
	}()

	logger := log.New(os.Stdout, "fogrup-backend ", log.LstdFlags|log.Lshortfile)

	if err := db.Connect(); err != nil {
		logger.Fatalln(err)
	}
	redis.Connect()

	hub := ws.GetHub()
	hub.OnConnect = func(memberID uint) {
		if err := redis.SetOnline(memberID); err != nil {
			logger.Println(err)
		}
	}
	hub.OnDisconnect = func(memberID uint) {
		if err := redis.SetOffline(memberID); err != nil {
			logger.Println(err)
		}
	}
	go hub.Run()

	notifications := &service.NotificationService{
		DB:     db.Get(),
		Expo:   expo.NewPushClient(nil),
		Logger: logger,
	}
	relationships := &service.RelationshipService{
		DB:            db.Get(),
		Notifications: notifications,
		Logger:        logger,
	}
	notifications.Relationships = relationships
	chats := &service.ChatService{
		DB:            db.Get(),
		Notifications: notifications,
		Publisher:     mq.GetProducer(),
		Online:        redis.IsOnline,
		Logger:        logger,
	}

	r := chi.NewRouter()
	server.SetupMiddlewares(r)

	auth.NewHandlers(logger).SetupRoutes(r)
	user.NewHandlers(logger).SetupRoutes(r)
	relationship.NewHandlers(logger, relationships).SetupRoutes(r)
	notification.NewHandlers(logger, notifications).SetupRoutes(r)
	chat.NewHandlers(logger, chats).SetupRoutes(r)
	socket.NewHandlers(logger).SetupRoutes(r)

	srv := server.New(r)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalln(err)
	}
}
