package service

import (
	"io"
	"log"
	"testing"

	"github.com/fogrup/fogrup-backend/db"
	"github.com/fogrup/fogrup-backend/db/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(d))
	return d
}

func newLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// newServices wires the three services against one database the way
// main does, minus push and mq.
func newServices(t *testing.T) (*RelationshipService, *NotificationService, *ChatService, *gorm.DB) {
	t.Helper()
	d := newTestDB(t)
	l := newLogger()
	notifications := &NotificationService{DB: d, Logger: l}
	relationships := &RelationshipService{DB: d, Notifications: notifications, Logger: l}
	notifications.Relationships = relationships
	chats := &ChatService{DB: d, Notifications: notifications, Logger: l}
	return relationships, notifications, chats, d
}

func seedUser(t *testing.T, d *gorm.DB, name, rank string) *model.User {
	t.Helper()
	u := &model.User{
		Email:       name + "@example.com",
		Displayname: name,
		Rank:        rank,
	}
	require.NoError(t, d.Create(u).Error)
	return u
}

type capturePublisher struct {
	topics []string
	bodies [][]byte
}

func (p *capturePublisher) Publish(topic string, body []byte) error {
	p.topics = append(p.topics, topic)
	p.bodies = append(p.bodies, body)
	return nil
}
