package user

import "encoding/json"

type InBlockUser struct {
	UserID *uint `json:"userId"`
}

type InUpdateSettings struct {
	VisibilitySettings json.RawMessage `json:"visibilitySettings"`
	SearchSettings     json.RawMessage `json:"searchSettings"`
}
