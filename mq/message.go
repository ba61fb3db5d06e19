package mq

type User struct {
	ID          uint   `json:"id"`
	Displayname string `json:"displayname"`
}

// Message is the wire format published to a chat's topic.
type Message struct {
	From      User   `json:"from"`
	ChatID    uint   `json:"chat_id"`
	Body      string `json:"body"`
	Timestamp int64  `json:"timestamp"`
}
