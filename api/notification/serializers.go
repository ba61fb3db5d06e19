package notification

import (
	"time"

	"github.com/fogrup/fogrup-backend/api"
	"github.com/fogrup/fogrup-backend/db/model"
)

type OutNotification struct {
	ID             uint         `json:"id"`
	Type           string       `json:"type"`
	Text           string       `json:"text"`
	IsRead         bool         `json:"is_read"`
	CreatedAt      time.Time    `json:"created_at"`
	RelationshipID *uint        `json:"relationship_id,omitempty"`
	From           *api.OutUser `json:"from,omitempty"`
}

func newOutNotification(n *model.Notification) *OutNotification {
	return &OutNotification{
		ID:             n.ID,
		Type:           n.Type,
		Text:           n.Text,
		IsRead:         n.IsRead,
		CreatedAt:      n.CreatedAt,
		RelationshipID: n.RelationshipID,
		From:           api.NewOutUser(n.From),
	}
}

type InRespondNotification struct {
	Status *string `json:"status"`
}

type OutUnreadCount struct {
	Count int64 `json:"count"`
}
