package model

const (
	NotifTypeRelationshipRequest = "relationship_request"
	NotifTypeMessage             = "message"
	NotifTypeInfo                = "info"
)

// Notification is an inbox entry owned by UserID. Entries are written
// as side effects of other actions and only ever mutated by marking
// them read, which removes them from the active inbox view.
type Notification struct {
	Base
	UserID         uint   `json:"user_id" gorm:"index;not null"`
	Type           string `json:"type"`
	FromUserID     *uint  `json:"from_user_id"`
	RelationshipID *uint  `json:"relationship_id"`
	Text           string `json:"text"`
	IsRead         bool   `json:"is_read" gorm:"default:false;index"`
	From           *User  `json:"from,omitempty" gorm:"foreignKey:FromUserID"`
}
