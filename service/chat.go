package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fogrup/fogrup-backend/db/model"
	"github.com/fogrup/fogrup-backend/mq"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultMessageLimit = 50

// Publisher fans a persisted message out to live listeners. Satisfied
// by *nsq.Producer.
type Publisher interface {
	Publish(topic string, body []byte) error
}

type ChatService struct {
	DB            *gorm.DB
	Notifications *NotificationService
	Publisher     Publisher
	Online        func(memberID uint) bool
	Logger        *log.Logger
}

// ChatSummary is one row of a member's chat list.
type ChatSummary struct {
	Chat        *model.Chat
	LastMessage *model.Message
	Online      map[uint]bool
}

// GetOrCreateDirectChat returns the single chat for the unordered pair,
// creating it on first use. The pair-key unique index decides the
// winner when two calls race; the loser reloads the winner's row.
func (s *ChatService) GetOrCreateDirectChat(ctx context.Context, a, b uint) (*model.Chat, error) {
	if a == b {
		return nil, fmt.Errorf("%w: a chat needs two distinct participants", ErrInvalidArgument)
	}
	key := model.PairKey(a, b)

	var chat model.Chat
	err := s.DB.WithContext(ctx).Preload("Participants").Where("pair_key = ?", key).First(&chat).Error
	if err == nil {
		return &chat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var users []*model.User
	if err := s.DB.WithContext(ctx).Find(&users, []uint{a, b}).Error; err != nil {
		return nil, err
	}
	if len(users) != 2 {
		return nil, ErrNotFound
	}

	chat = model.Chat{
		Topic:         uuid.NewString(),
		PairKey:       key,
		LastMessageAt: time.Now(),
		Participants:  users,
	}
	if err := s.DB.WithContext(ctx).Create(&chat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race, the existing chat wins
			var existing model.Chat
			if err := s.DB.WithContext(ctx).Preload("Participants").Where("pair_key = ?", key).First(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}
	return &chat, nil
}

func (s *ChatService) ListChatsForMember(ctx context.Context, memberID uint) ([]ChatSummary, error) {
	chats := make([]*model.Chat, 0)
	err := s.DB.WithContext(ctx).
		Preload("Participants").
		Joins("JOIN chat_participants cp ON cp.chat_id = chats.id AND cp.user_id = ?", memberID).
		Order("last_message_at DESC").
		Find(&chats).
		Error
	if err != nil {
		return nil, err
	}

	summaries := make([]ChatSummary, 0, len(chats))
	for _, c := range chats {
		var last model.Message
		lastPtr := &last
		err := s.DB.WithContext(ctx).
			Where("chat_id = ?", c.ID).
			Order("created_at DESC, id DESC").
			First(&last).
			Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			lastPtr = nil
		}
		online := make(map[uint]bool, len(c.Participants))
		if s.Online != nil {
			for _, p := range c.Others(memberID) {
				online[p.ID] = s.Online(p.ID)
			}
		}
		summaries = append(summaries, ChatSummary{Chat: c, LastMessage: lastPtr, Online: online})
	}
	return summaries, nil
}

func (s *ChatService) ListMessages(ctx context.Context, chatID, requesterID uint, limit, offset int) ([]model.Message, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	chat, err := s.loadChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(requesterID) {
		return nil, ErrForbidden
	}
	msgs := make([]model.Message, 0)
	err = s.DB.WithContext(ctx).
		Preload("Sender").
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).
		Error
	return msgs, err
}

// SendMessage appends a message to the chat. If any other participant
// has the sender on their block list the call still reports success
// and echoes the text back, but nothing is persisted, nobody is
// notified and nothing is published: the block must stay invisible to
// the blocked side. Block status is read fresh on every send.
func (s *ChatService) SendMessage(ctx context.Context, chatID, senderID uint, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty message text", ErrInvalidArgument)
	}
	chat, err := s.loadChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(senderID) {
		return nil, ErrForbidden
	}
	others := chat.Others(senderID)

	blocked, err := s.isBlockedByAny(ctx, senderID, others)
	if err != nil {
		return nil, err
	}
	if blocked {
		// silent drop: a well-formed echo, never stored
		now := time.Now()
		return &model.Message{
			Base:     model.Base{CreatedAt: now, UpdatedAt: now},
			ChatID:   chatID,
			SenderID: senderID,
			Text:     text,
		}, nil
	}

	msg := &model.Message{ChatID: chatID, SenderID: senderID, Text: text}
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(chat).Update("last_message_at", msg.CreatedAt).Error; err != nil {
		s.Logger.Println(err)
	}

	s.notifyRecipients(ctx, chat, msg, others)
	s.publish(chat, msg)
	return msg, nil
}

// BroadcastResult records one recipient of a rank broadcast. Dropped
// deliveries are indistinguishable from sent ones on purpose.
type BroadcastResult struct {
	UserID  uint           `json:"user_id"`
	ChatID  uint           `json:"chat_id"`
	Message *model.Message `json:"message"`
}

// SendBroadcast fans one authored text out to every member of a rank
// cohort as independent direct-chat sends, each with its own ghost-ban
// decision. Per-recipient failures are logged and skipped.
func (s *ChatService) SendBroadcast(ctx context.Context, senderID uint, rank, text string) ([]BroadcastResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty message text", ErrInvalidArgument)
	}
	if rank == "" {
		return nil, fmt.Errorf("%w: missing rank", ErrInvalidArgument)
	}
	var cohort []model.User
	if err := s.DB.WithContext(ctx).
		Where("rank = ? AND id <> ?", rank, senderID).
		Find(&cohort).
		Error; err != nil {
		return nil, err
	}

	results := make([]BroadcastResult, 0, len(cohort))
	for _, member := range cohort {
		chat, err := s.GetOrCreateDirectChat(ctx, senderID, member.ID)
		if err != nil {
			s.Logger.Println(err)
			continue
		}
		msg, err := s.SendMessage(ctx, chat.ID, senderID, text)
		if err != nil {
			s.Logger.Println(err)
			continue
		}
		results = append(results, BroadcastResult{UserID: member.ID, ChatID: chat.ID, Message: msg})
	}
	return results, nil
}

func (s *ChatService) loadChat(ctx context.Context, chatID uint) (*model.Chat, error) {
	var chat model.Chat
	if err := s.DB.WithContext(ctx).Preload("Participants").First(&chat, chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (s *ChatService) isBlockedByAny(ctx context.Context, senderID uint, others []*model.User) (bool, error) {
	if len(others) == 0 {
		return false, nil
	}
	ids := make([]uint, 0, len(others))
	for _, o := range others {
		ids = append(ids, o.ID)
	}
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&model.Block{}).
		Where("blocker_id IN ? AND blocked_id = ?", ids, senderID).
		Count(&count).
		Error
	return count > 0, err
}

func (s *ChatService) notifyRecipients(ctx context.Context, chat *model.Chat, msg *model.Message, others []*model.User) {
	if s.Notifications == nil {
		return
	}
	var sender model.User
	if err := s.DB.WithContext(ctx).First(&sender, msg.SenderID).Error; err != nil {
		s.Logger.Println(err)
		return
	}
	text := fmt.Sprintf("New message from %s", sender.Displayname)
	for _, o := range others {
		from := msg.SenderID
		if _, err := s.Notifications.Create(ctx, o.ID, model.NotifTypeMessage, &from, nil, text); err != nil {
			s.Logger.Println(err)
		}
	}
}

func (s *ChatService) publish(chat *model.Chat, msg *model.Message) {
	if s.Publisher == nil {
		return
	}
	var sender model.User
	if err := s.DB.First(&sender, msg.SenderID).Error; err != nil {
		s.Logger.Println(err)
		return
	}
	out := &mq.Message{
		From:      mq.User{ID: sender.ID, Displayname: sender.Displayname},
		ChatID:    chat.ID,
		Body:      msg.Text,
		Timestamp: msg.CreatedAt.Unix(),
	}
	b, err := json.Marshal(out)
	if err != nil {
		s.Logger.Println(err)
		return
	}
	if err := s.Publisher.Publish(chat.Topic, b); err != nil {
		s.Logger.Println(err)
	}
}
