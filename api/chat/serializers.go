package chat

import (
	"time"

	"github.com/fogrup/fogrup-backend/api"
	"github.com/fogrup/fogrup-backend/db/model"
	"github.com/fogrup/fogrup-backend/service"
)

type InCreateChat struct {
	ParticipantID *uint `json:"participantId"`
}

type OutCreateChat struct {
	ChatID uint `json:"chat_id"`
}

type InCreateMsg struct {
	Text *string `json:"text"`
}

type InBroadcast struct {
	Rank *string `json:"rank"`
	Text *string `json:"text"`
}

type OutChat struct {
	ID            uint           `json:"id"`
	LastMessageAt time.Time      `json:"last_message_at"`
	Participants  []*OutChatUser `json:"participants"`
	LastMessage   *OutMessage    `json:"last_message,omitempty"`
}

type OutChatUser struct {
	api.OutUser
	Online bool `json:"online"`
}

type OutMessage struct {
	ID        uint      `json:"id"`
	ChatID    uint      `json:"chat_id"`
	SenderID  uint      `json:"sender_id"`
	Text      string    `json:"text"`
	IsSystem  bool      `json:"is_system"`
	CreatedAt time.Time `json:"created_at"`
}

type OutBroadcast struct {
	Rank string `json:"rank"`
	Sent int    `json:"sent"`
}

func newOutMessage(m *model.Message) *OutMessage {
	return &OutMessage{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Text:      m.Text,
		IsSystem:  m.IsSystem,
		CreatedAt: m.CreatedAt,
	}
}

func newOutChat(s *service.ChatSummary) *OutChat {
	out := &OutChat{
		ID:            s.Chat.ID,
		LastMessageAt: s.Chat.LastMessageAt,
		Participants:  make([]*OutChatUser, 0, len(s.Chat.Participants)),
	}
	for _, p := range s.Chat.Participants {
		out.Participants = append(out.Participants, &OutChatUser{
			OutUser: *api.NewOutUser(p),
			Online:  s.Online[p.ID],
		})
	}
	if s.LastMessage != nil {
		out.LastMessage = newOutMessage(s.LastMessage)
	}
	return out
}
