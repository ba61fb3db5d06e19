package model

import "time"

// Chat is a two-party conversation. PairKey's unique index makes
// get-or-create idempotent under concurrent calls; broadcast is
// modeled as N independent direct chats, never a shared room.
type Chat struct {
	Base
	Topic         string    `json:"-" gorm:"uniqueIndex"`
	PairKey       string    `json:"-" gorm:"uniqueIndex"`
	LastMessageAt time.Time `json:"last_message_at" gorm:"index"`
	Participants  []*User   `json:"participants" gorm:"many2many:chat_participants"`
}

func (c *Chat) HasParticipant(memberID uint) bool {
	for _, p := range c.Participants {
		if p.ID == memberID {
			return true
		}
	}
	return false
}

// Others returns the participants other than the given member.
func (c *Chat) Others(memberID uint) []*User {
	others := make([]*User, 0, len(c.Participants))
	for _, p := range c.Participants {
		if p.ID != memberID {
			others = append(others, p)
		}
	}
	return others
}

// Message rows are append-only, read order is (created_at, id) ascending.
type Message struct {
	Base
	ChatID   uint   `json:"chat_id" gorm:"index;not null"`
	SenderID uint   `json:"sender_id"`
	Text     string `json:"text"`
	IsSystem bool   `json:"is_system"`
	Sender   *User  `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}
