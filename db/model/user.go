package model

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	Base
	Email              string         `gorm:"unique" json:"email"`
	Displayname        string         `json:"displayname"`
	Pass               string         `json:"-"`
	Rank               string         `gorm:"index" json:"rank"`
	Country            string         `json:"country"`
	City               string         `json:"city"`
	IsPublic           bool           `gorm:"default:true" json:"is_public"`
	VisibilitySettings datatypes.JSON `json:"visibility_settings"`
	SearchSettings     datatypes.JSON `json:"search_settings"`
	Sessions           []Session      `json:"-"`
	Blocks             []Block        `gorm:"foreignKey:BlockerID" json:"-"`
}

type Session struct {
	UserID        uint      `json:"user_id" gorm:"primaryKey"`
	IP            string    `json:"ip" gorm:"primaryKey"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Ch            string    `json:"-"`
	ExpoPushToken string    `json:"-"`
}

// Block is a one-way silent block. The blocked side is never told.
type Block struct {
	BlockerID uint      `json:"blocker_id" gorm:"primaryKey"`
	BlockedID uint      `json:"blocked_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}
