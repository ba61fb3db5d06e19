package db

import (
	"context"

	"github.com/fogrup/fogrup-backend/db/model"
	"github.com/fogrup/fogrup-backend/env"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// Connect opens the postgres pool and runs migrations. TranslateError
// is required: pair uniqueness races are resolved by matching
// gorm.ErrDuplicatedKey, not by read-then-write checks.
func Connect() error {
	d, err := gorm.Open(postgres.Open(env.DB_CONN), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}
	if err := Migrate(d); err != nil {
		return err
	}
	db = d
	return nil
}

func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Block{},
		&model.Relationship{},
		&model.Notification{},
		&model.Chat{},
		&model.Message{},
	)
}

// Set replaces the shared handle, used by tests to point handlers at
// an in-memory database.
func Set(d *gorm.DB) {
	db = d
}

func Get() *gorm.DB {
	return db
}

func GetDB(ctx context.Context) *gorm.DB {
	return db.WithContext(ctx)
}
