package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"messaging-service/ddd/application/app"
	"messaging-service/ddd/application/cqe"
	"messaging-service/ddd/infrastructure/database/persistence"
	"messaging-service/internal/testutil"
	"messaging-service/pkg/config"
	"messaging-service/pkg/errno"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type chatFixture struct {
	db    *gorm.DB
	app   app.ChatApp
	alice uint64
	bob   uint64
}

func newChatFixture(t *testing.T, cfg config.ChatConfig) *chatFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	f := &chatFixture{
		db:    db,
		alice: testutil.SeedUser(t, db, "alice", "user", true),
		bob:   testutil.SeedUser(t, db, "bob", "user", true),
	}
	f.app = app.NewChatApp(persistence.NewMessageRepository(db), persistence.NewUserDirectory(db, nil), cfg)
	return f
}

func defaultChatConfig() config.ChatConfig {
	return config.Default().Chat
}

func (f *chatFixture) send(t *testing.T, from, to uint64, body string) {
	t.Helper()
	_, err := f.app.SendMessage(context.Background(), from, &cqe.SendMessageReq{ReceiverID: to, Message: body})
	require.NoError(t, err)
}

func TestChatApp_SendThenList(t *testing.T) {
	f := newChatFixture(t, defaultChatConfig())
	ctx := context.Background()

	sent, err := f.app.SendMessage(ctx, f.alice, &cqe.SendMessageReq{ReceiverID: f.bob, Message: "is the oven still for sale?"})
	require.NoError(t, err)
	assert.NotZero(t, sent.ID)
	assert.False(t, sent.IsRead)

	page, err := f.app.GetMessages(ctx, f.alice, f.bob, &cqe.ListMessagesReq{PageReq: cqe.PageReq{Page: 1, Limit: 50}})
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	got := page.Messages[0]
	assert.Equal(t, f.alice, got.SenderID)
	assert.Equal(t, f.bob, got.ReceiverID)
	assert.Equal(t, "is the oven still for sale?", got.Message)
	assert.False(t, got.IsRead)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 1, page.Pages)
}

func TestChatApp_SendValidation(t *testing.T) {
	f := newChatFixture(t, defaultChatConfig())
	ctx := context.Background()

	cases := []struct {
		name   string
		caller uint64
		req    cqe.SendMessageReq
		status int
	}{
		{"no caller", 0, cqe.SendMessageReq{ReceiverID: f.bob, Message: "x"}, 401},
		{"no receiver", f.alice, cqe.SendMessageReq{Message: "x"}, 400},
		{"blank body", f.alice, cqe.SendMessageReq{ReceiverID: f.bob, Message: "   "}, 400},
		{"self", f.alice, cqe.SendMessageReq{ReceiverID: f.alice, Message: "note"}, 400},
		{"unknown receiver", f.alice, cqe.SendMessageReq{ReceiverID: 9999, Message: "x"}, 404},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := f.app.SendMessage(ctx, tc.caller, &req)
			require.Error(t, err)
			status, _ := errno.StatusOf(err)
			assert.Equal(t, tc.status, status)
		})
	}
}

func TestChatApp_SelfMessagesWhenAllowed(t *testing.T) {
	cfg := defaultChatConfig()
	cfg.AllowSelfMessages = true
	f := newChatFixture(t, cfg)

	f.send(t, f.alice, f.alice, "note to self")

	convs, err := f.app.GetConversations(context.Background(), f.alice)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, f.alice, convs[0].Partner.ID)
}

func TestChatApp_ConversationSymmetry(t *testing.T) {
	f := newChatFixture(t, defaultChatConfig())
	ctx := context.Background()

	f.send(t, f.alice, f.bob, "hi")

	fromAlice, err := f.app.GetConversations(ctx, f.alice)
	require.NoError(t, err)
	fromBob, err := f.app.GetConversations(ctx, f.bob)
	require.NoError(t, err)

	require.Len(t, fromAlice, 1)
	require.Len(t, fromBob, 1)
	assert.Equal(t, f.bob, fromAlice[0].Partner.ID)
	assert.Equal(t, "bob", fromAlice[0].Partner.Name)
	assert.Equal(t, f.alice, fromBob[0].Partner.ID)
	require.NotNil(t, fromAlice[0].LastMessage)
	assert.Equal(t, fromAlice[0].LastMessage.ID, fromBob[0].LastMessage.ID)
	assert.Equal(t, "hi", fromBob[0].LastMessage.Message)
}

func TestChatApp_UnreadAccounting(t *testing.T) {
	f := newChatFixture(t, defaultChatConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		f.send(t, f.alice, f.bob, "ping")
	}

	convs, err := f.app.GetConversations(ctx, f.bob)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.EqualValues(t, 3, convs[0].UnreadCount)

	// reading a page other than the first still acknowledges everything
	_, err = f.app.GetMessages(ctx, f.bob, f.alice, &cqe.ListMessagesReq{PageReq: cqe.PageReq{Page: 5, Limit: 1}})
	require.NoError(t, err)

	convs, err = f.app.GetConversations(ctx, f.bob)
	require.NoError(t, err)
	assert.Zero(t, convs[0].UnreadCount)

	fromAlice, err := f.app.GetConversations(ctx, f.alice)
	require.NoError(t, err)
	assert.Zero(t, fromAlice[0].UnreadCount)
}

func TestChatApp_SenderViewDoesNotMarkOwnMessagesRead(t *testing.T) {
	f := newChatFixture(t, defaultChatConfig())
	ctx := context.Background()

	f.send(t, f.alice, f.bob, "one")
	_, err := f.app.GetMessages(ctx, f.alice, f.bob, nil)
	require.NoError(t, err)

	convs, err := f.app.GetConversations(ctx, f.bob)
	require.NoError(t, err)
	assert.EqualValues(t, 1, convs[0].UnreadCount)
}

func TestChatApp_PaginationBoundary(t *testing.T) {
	f := newChatFixture(t, defaultChatConfig())
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		f.send(t, f.alice, f.bob, "m")
	}

	page1, err := f.app.GetMessages(ctx, f.alice, f.bob, &cqe.ListMessagesReq{PageReq: cqe.PageReq{Page: 1, Limit: 50}})
	require.NoError(t, err)
	assert.Len(t, page1.Messages, 50)
	assert.Equal(t, 1, page1.Pages)
	for i := 1; i < len(page1.Messages); i++ {
		assert.Greater(t, page1.Messages[i].ID, page1.Messages[i-1].ID)
	}

	page2, err := f.app.GetMessages(ctx, f.alice, f.bob, &cqe.ListMessagesReq{PageReq: cqe.PageReq{Page: 2, Limit: 50}})
	require.NoError(t, err)
	assert.Empty(t, page2.Messages)
	assert.NotNil(t, page2.Messages)
	assert.EqualValues(t, 50, page2.Total)
}

func TestChatApp_GetMessagesRejectsMissingPartner(t *testing.T) {
	f := newChatFixture(t, defaultChatConfig())

	_, err := f.app.GetMessages(context.Background(), f.alice, 0, nil)
	assert.True(t, errors.Is(err, errno.ErrParameterInvalid))
}

func TestChatApp_Stats(t *testing.T) {
	f := newChatFixture(t, defaultChatConfig())

	f.send(t, f.alice, f.bob, "a")
	f.send(t, f.bob, f.alice, "b")

	stats, err := f.app.Stats(context.Background(), time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalMessages)
	assert.EqualValues(t, 2, stats.TodayMessages)
}
