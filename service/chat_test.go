package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/fogrup/fogrup-backend/db/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateDirectChat(t *testing.T) {
	_, _, svc, d := newServices(t)
	ctx := context.Background()
	u1 := seedUser(t, d, "alice", "gold")
	u2 := seedUser(t, d, "bob", "silver")

	chat, err := svc.GetOrCreateDirectChat(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	require.NotEmpty(t, chat.Topic)
	require.Len(t, chat.Participants, 2)

	// same pair in either order resolves to the same chat
	again, err := svc.GetOrCreateDirectChat(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, again.ID)

	var count int64
	require.NoError(t, d.Model(&model.Chat{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err = svc.GetOrCreateDirectChat(ctx, u1.ID, u1.ID)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.GetOrCreateDirectChat(ctx, u1.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendMessage(t *testing.T) {
	_, _, svc, d := newServices(t)
	pub := &capturePublisher{}
	svc.Publisher = pub
	ctx := context.Background()
	u1 := seedUser(t, d, "alice", "gold")
	u2 := seedUser(t, d, "bob", "silver")

	chat, err := svc.GetOrCreateDirectChat(ctx, u1.ID, u2.ID)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		_, err := svc.SendMessage(ctx, chat.ID, u1.ID, fmt.Sprintf("%d", i))
		require.NoError(t, err)
	}

	msgs, err := svc.ListMessages(ctx, chat.ID, u2.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i, m := range msgs {
		assert.Equal(t, fmt.Sprintf("%d", i+1), m.Text)
		assert.Equal(t, u1.ID, m.SenderID)
	}

	// each persisted message was published to the chat topic
	require.Len(t, pub.topics, 3)
	assert.Equal(t, chat.Topic, pub.topics[0])

	// the recipient was notified, the sender was not
	var count int64
	require.NoError(t, d.Model(&model.Notification{}).Where("user_id = ?", u2.ID).Count(&count).Error)
	assert.EqualValues(t, 3, count)
	require.NoError(t, d.Model(&model.Notification{}).Where("user_id = ?", u1.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	var stored model.Chat
	require.NoError(t, d.First(&stored, chat.ID).Error)
	assert.Equal(t, msgs[2].CreatedAt.Unix(), stored.LastMessageAt.Unix())
}

func TestSendMessageValidation(t *testing.T) {
	_, _, svc, d := newServices(t)
	ctx := context.Background()
	u1 := seedUser(t, d, "alice", "gold")
	u2 := seedUser(t, d, "bob", "silver")
	outsider := seedUser(t, d, "carol", "gold")

	chat, err := svc.GetOrCreateDirectChat(ctx, u1.ID, u2.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, chat.ID, u1.ID, "   ")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.SendMessage(ctx, chat.ID, outsider.ID, "hi")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ListMessages(ctx, chat.ID, outsider.ID, 0, 0)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.SendMessage(ctx, 9999, u1.ID, "hi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendMessageGhostBan(t *testing.T) {
	_, _, svc, d := newServices(t)
	pub := &capturePublisher{}
	svc.Publisher = pub
	ctx := context.Background()
	u1 := seedUser(t, d, "alice", "gold")
	u2 := seedUser(t, d, "bob", "silver")

	chat, err := svc.GetOrCreateDirectChat(ctx, u1.ID, u2.ID)
	require.NoError(t, err)

	require.NoError(t, d.Create(&model.Block{BlockerID: u2.ID, BlockedID: u1.ID}).Error)

	// the call succeeds and echoes the text as if it were delivered
	msg, err := svc.SendMessage(ctx, chat.ID, u1.ID, "hello?")
	require.NoError(t, err)
	assert.Equal(t, "hello?", msg.Text)
	assert.Equal(t, u1.ID, msg.SenderID)
	assert.False(t, msg.CreatedAt.IsZero())

	// but nothing was stored, notified or published
	var count int64
	require.NoError(t, d.Model(&model.Message{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, d.Model(&model.Notification{}).Where("user_id = ?", u2.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	assert.Empty(t, pub.topics)

	// unblocking restores delivery, block status is read per send
	require.NoError(t, d.Where("blocker_id = ? AND blocked_id = ?", u2.ID, u1.ID).Delete(&model.Block{}).Error)
	_, err = svc.SendMessage(ctx, chat.ID, u1.ID, "hello again")
	require.NoError(t, err)
	require.NoError(t, d.Model(&model.Message{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	require.Len(t, pub.topics, 1)

	// the block is invisible from the blocked side: history only shows
	// what was actually stored
	msgs, err := svc.ListMessages(ctx, chat.ID, u1.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello again", msgs[0].Text)
}

func TestListChatsForMember(t *testing.T) {
	_, _, svc, d := newServices(t)
	ctx := context.Background()
	u1 := seedUser(t, d, "alice", "gold")
	u2 := seedUser(t, d, "bob", "silver")
	u3 := seedUser(t, d, "carol", "gold")

	c12, err := svc.GetOrCreateDirectChat(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	_, err = svc.GetOrCreateDirectChat(ctx, u1.ID, u3.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, c12.ID, u2.ID, "ping")
	require.NoError(t, err)

	svc.Online = func(memberID uint) bool { return memberID == u2.ID }

	summaries, err := svc.ListChatsForMember(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := map[uint]ChatSummary{}
	for _, s := range summaries {
		byID[s.Chat.ID] = s
	}
	require.NotNil(t, byID[c12.ID].LastMessage)
	assert.Equal(t, "ping", byID[c12.ID].LastMessage.Text)
	assert.True(t, byID[c12.ID].Online[u2.ID])

	// u2 only participates in one chat
	summaries, err = svc.ListChatsForMember(ctx, u2.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
}

func TestSendBroadcast(t *testing.T) {
	_, _, svc, d := newServices(t)
	pub := &capturePublisher{}
	svc.Publisher = pub
	ctx := context.Background()
	sender := seedUser(t, d, "alice", "gold")
	m1 := seedUser(t, d, "bob", "gold")
	m2 := seedUser(t, d, "carol", "gold")
	seedUser(t, d, "dave", "silver")

	// m2 has the sender ghost-banned
	require.NoError(t, d.Create(&model.Block{BlockerID: m2.ID, BlockedID: sender.ID}).Error)

	results, err := svc.SendBroadcast(ctx, sender.ID, "gold", "meeting at 8")
	require.NoError(t, err)

	// both cohort members appear, the dropped delivery included
	require.Len(t, results, 2)
	got := map[uint]bool{}
	for _, r := range results {
		got[r.UserID] = true
		require.NotNil(t, r.Message)
		assert.Equal(t, "meeting at 8", r.Message.Text)
	}
	assert.True(t, got[m1.ID])
	assert.True(t, got[m2.ID])

	// only the unblocked delivery was stored and published
	var count int64
	require.NoError(t, d.Model(&model.Message{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	require.Len(t, pub.topics, 1)

	_, err = svc.SendBroadcast(ctx, sender.ID, "gold", "  ")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.SendBroadcast(ctx, sender.ID, "", "hi")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
