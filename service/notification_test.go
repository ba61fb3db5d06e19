package service

import (
	"context"
	"testing"

	"github.com/fogrup/fogrup-backend/db/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkReadAndUnreadCount(t *testing.T) {
	_, svc, _, d := newServices(t)
	ctx := context.Background()
	u1 := seedUser(t, d, "alice", "gold")
	u2 := seedUser(t, d, "bob", "silver")

	from := u1.ID
	n1, err := svc.Create(ctx, u2.ID, model.NotifTypeInfo, &from, nil, "welcome")
	require.NoError(t, err)
	_, err = svc.Create(ctx, u2.ID, model.NotifTypeInfo, &from, nil, "welcome again")
	require.NoError(t, err)

	count, err := svc.UnreadCount(ctx, u2.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, svc.MarkRead(ctx, n1.ID, u2.ID))
	count, err = svc.UnreadCount(ctx, u2.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// re-reading is a no-op
	require.NoError(t, svc.MarkRead(ctx, n1.ID, u2.ID))
	count, err = svc.UnreadCount(ctx, u2.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// only the owner may read it
	assert.ErrorIs(t, svc.MarkRead(ctx, n1.ID, u1.ID), ErrForbidden)
	assert.ErrorIs(t, svc.MarkRead(ctx, 9999, u2.ID), ErrNotFound)
}

func TestListForUser(t *testing.T) {
	_, svc, _, d := newServices(t)
	ctx := context.Background()
	u1 := seedUser(t, d, "alice", "gold")
	u2 := seedUser(t, d, "bob", "silver")

	from := u1.ID
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, u2.ID, model.NotifTypeInfo, &from, nil, "hi")
		require.NoError(t, err)
	}

	ns, err := svc.ListForUser(ctx, u2.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, ns, 3)
	require.NotNil(t, ns[0].From)
	assert.Equal(t, u1.ID, ns[0].From.ID)

	ns, err = svc.ListForUser(ctx, u2.ID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, ns, 2)

	ns, err = svc.ListForUser(ctx, u1.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, ns)
}

// The accept-from-inbox flow: responding to a relationship request
// notification transitions the edge first, then marks the entry read.
func TestRespondAcceptFlow(t *testing.T) {
	rels, svc, _, d := newServices(t)
	ctx := context.Background()
	u1 := seedUser(t, d, "alice", "gold")
	u2 := seedUser(t, d, "bob", "silver")

	rel, err := rels.Create(ctx, u1.ID, u2.ID, model.RelTypeMentor)
	require.NoError(t, err)

	ns, err := svc.ListForUser(ctx, u2.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, ns, 1)

	// the initiator cannot resolve the target's inbox entry
	assert.ErrorIs(t, svc.Respond(ctx, ns[0].ID, u1.ID, model.RelStatusConfirmed), ErrForbidden)

	require.NoError(t, svc.Respond(ctx, ns[0].ID, u2.ID, model.RelStatusConfirmed))

	var stored model.Relationship
	require.NoError(t, d.First(&stored, rel.ID).Error)
	assert.Equal(t, model.RelStatusConfirmed, stored.Status)

	count, err := svc.UnreadCount(ctx, u2.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

// A failed relationship transition leaves the notification unread so
// the owner can act on it again.
func TestRespondFailureLeavesUnread(t *testing.T) {
	rels, svc, _, d := newServices(t)
	ctx := context.Background()
	u1 := seedUser(t, d, "alice", "gold")
	u2 := seedUser(t, d, "bob", "silver")

	rel, err := rels.Create(ctx, u1.ID, u2.ID, model.RelTypeMentor)
	require.NoError(t, err)

	ns, err := svc.ListForUser(ctx, u2.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, ns, 1)

	// the edge disappears before the owner responds
	require.NoError(t, d.Delete(&model.Relationship{}, rel.ID).Error)

	assert.ErrorIs(t, svc.Respond(ctx, ns[0].ID, u2.ID, model.RelStatusConfirmed), ErrNotFound)

	count, err := svc.UnreadCount(ctx, u2.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

// Info entries have no relationship to transition, respond just reads
// them.
func TestRespondInfoMarksRead(t *testing.T) {
	_, svc, _, d := newServices(t)
	ctx := context.Background()
	u1 := seedUser(t, d, "alice", "gold")
	u2 := seedUser(t, d, "bob", "silver")

	from := u1.ID
	n, err := svc.Create(ctx, u2.ID, model.NotifTypeInfo, &from, nil, "fyi")
	require.NoError(t, err)

	require.NoError(t, svc.Respond(ctx, n.ID, u2.ID, model.RelStatusConfirmed))

	count, err := svc.UnreadCount(ctx, u2.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}
