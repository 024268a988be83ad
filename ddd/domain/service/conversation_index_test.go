package service_test

import (
	"context"
	"testing"

	"messaging-service/ddd/domain/entity"
	"messaging-service/ddd/domain/service"
	"messaging-service/ddd/infrastructure/database/persistence"
	"messaging-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationIndex_ListConversations(t *testing.T) {
	db := testutil.NewTestDB(t)
	alice := testutil.SeedUser(t, db, "alice", "user", true)
	bob := testutil.SeedUser(t, db, "bob", "user", true)
	carol := testutil.SeedUser(t, db, "carol", "user", true)

	messages := persistence.NewMessageRepository(db)
	index := service.NewConversationIndex(messages, persistence.NewUserDirectory(db, nil))
	ctx := context.Background()

	send := func(from, to uint64, body string) *entity.Message {
		m := &entity.Message{SenderID: from, ReceiverID: to, Body: body}
		require.NoError(t, messages.Append(ctx, m))
		return m
	}
	send(bob, alice, "hi alice")
	send(bob, alice, "are you there")
	send(alice, carol, "hello carol")
	last := send(alice, bob, "yes")

	convs, err := index.ListConversations(ctx, alice)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, bob, convs[0].Partner.ID)
	assert.Equal(t, "bob", convs[0].Partner.Name)
	assert.Equal(t, last.ID, convs[0].LastMessage.ID)
	assert.EqualValues(t, 2, convs[0].UnreadCount)

	assert.Equal(t, carol, convs[1].Partner.ID)
	assert.Zero(t, convs[1].UnreadCount)

	fromBob, err := index.ListConversations(ctx, bob)
	require.NoError(t, err)
	require.Len(t, fromBob, 1)
	assert.Equal(t, alice, fromBob[0].Partner.ID)
	assert.Equal(t, convs[0].LastMessage.ID, fromBob[0].LastMessage.ID)
	// alice's "yes" is still unread by bob
	assert.EqualValues(t, 1, fromBob[0].UnreadCount)
}

func TestConversationIndex_UnresolvedPartnerKeepsBareIdentity(t *testing.T) {
	db := testutil.NewTestDB(t)
	alice := testutil.SeedUser(t, db, "alice", "user", true)

	messages := persistence.NewMessageRepository(db)
	index := service.NewConversationIndex(messages, persistence.NewUserDirectory(db, nil))
	ctx := context.Background()

	require.NoError(t, messages.Append(ctx, &entity.Message{SenderID: 4242, ReceiverID: alice, Body: "ghost"}))

	convs, err := index.ListConversations(ctx, alice)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, entity.UserIdentity{ID: 4242}, convs[0].Partner)
	assert.EqualValues(t, 1, convs[0].UnreadCount)
}

func TestConversationIndex_NoMessages(t *testing.T) {
	db := testutil.NewTestDB(t)
	index := service.NewConversationIndex(persistence.NewMessageRepository(db), persistence.NewUserDirectory(db, nil))

	convs, err := index.ListConversations(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, convs)
	assert.Empty(t, convs)
}
