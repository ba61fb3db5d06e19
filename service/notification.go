package service

import (
	"context"
	"errors"
	"log"

	"github.com/fogrup/fogrup-backend/db/model"
	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	"gorm.io/gorm"
)

const defaultNotificationLimit = 20

type NotificationService struct {
	DB            *gorm.DB
	Relationships *RelationshipService
	Expo          *expo.PushClient
	Logger        *log.Logger
}

// Create inserts an inbox entry and fires a best-effort push to the
// recipient's devices. Callers that treat notifications as a side
// effect must not fail their primary action on an error from here.
func (s *NotificationService) Create(ctx context.Context, userID uint, typ string, fromUserID, relationshipID *uint, text string) (*model.Notification, error) {
	n := &model.Notification{
		UserID:         userID,
		Type:           typ,
		FromUserID:     fromUserID,
		RelationshipID: relationshipID,
		Text:           text,
	}
	if err := s.DB.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	s.push(ctx, userID, text)
	return n, nil
}

func (s *NotificationService) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	ns := make([]model.Notification, 0)
	err := s.DB.WithContext(ctx).
		Preload("From").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&ns).
		Error
	return ns, err
}

// MarkRead flags the entry read, which removes it from the active
// inbox view. Re-reading an already read entry is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	var n model.Notification
	if err := s.DB.WithContext(ctx).First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if n.UserID != userID {
		return ErrForbidden
	}
	if n.IsRead {
		return nil
	}
	return s.DB.WithContext(ctx).Model(&n).Update("is_read", true).Error
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).
		Error
	return count, err
}

// Respond resolves a notification on behalf of its owner. For a
// relationship request the relationship transition happens first and
// any failure there surfaces with the notification left untouched, so
// the owner can retry. Informational entries are just marked read.
func (s *NotificationService) Respond(ctx context.Context, id, userID uint, decision string) error {
	var n model.Notification
	if err := s.DB.WithContext(ctx).First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if n.UserID != userID {
		return ErrForbidden
	}
	if n.Type == model.NotifTypeRelationshipRequest && n.RelationshipID != nil {
		if _, err := s.Relationships.Respond(ctx, *n.RelationshipID, userID, decision); err != nil {
			return err
		}
	}
	return s.MarkRead(ctx, id, userID)
}

func (s *NotificationService) push(ctx context.Context, userID uint, text string) {
	if s.Expo == nil {
		return
	}
	var sessions []model.Session
	if err := s.DB.WithContext(ctx).
		Where("user_id = ? AND expo_push_token <> ''", userID).
		Find(&sessions).
		Error; err != nil {
		s.Logger.Println(err)
		return
	}
	for _, sess := range sessions {
		token, err := expo.NewExponentPushToken(sess.ExpoPushToken)
		if err != nil {
			continue
		}
		resp, err := s.Expo.Publish(&expo.PushMessage{
			To:       []expo.ExponentPushToken{token},
			Body:     text,
			Sound:    "default",
			Priority: expo.DefaultPriority,
		})
		if err != nil {
			s.Logger.Println(err)
			continue
		}
		if err := resp.ValidateResponse(); err != nil {
			s.Logger.Println(err)
		}
	}
}
