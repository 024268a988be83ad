package service

import (
	"context"
	"sort"

	"messaging-service/ddd/domain/entity"
	"messaging-service/ddd/domain/repo"
)

// ConversationIndex derives a user's conversations from the message log on
// every read. Nothing is materialized.
type ConversationIndex struct {
	messages repo.MessageRepository
	users    repo.UserDirectory
}

func NewConversationIndex(messages repo.MessageRepository, users repo.UserDirectory) *ConversationIndex {
	return &ConversationIndex{messages: messages, users: users}
}

// ListConversations returns one conversation per distinct counterpart of
// userID, most recently active first.
func (i *ConversationIndex) ListConversations(ctx context.Context, userID uint64) ([]*entity.Conversation, error) {
	counterparts, err := i.messages.ListCounterparts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(counterparts) == 0 {
		return []*entity.Conversation{}, nil
	}

	ids := make([]uint64, 0, len(counterparts))
	for _, c := range counterparts {
		ids = append(ids, c.PartnerID)
	}
	identities, err := i.users.GetIdentities(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]*entity.Conversation, 0, len(counterparts))
	for _, c := range counterparts {
		last, err := i.messages.LatestBetween(ctx, userID, c.PartnerID)
		if err != nil {
			return nil, err
		}
		if last == nil {
			// counterpart row vanished between the two reads
			continue
		}
		partner := entity.UserIdentity{ID: c.PartnerID}
		if u, ok := identities[c.PartnerID]; ok && u != nil {
			partner = *u
		}
		res = append(res, &entity.Conversation{
			Partner:     partner,
			LastMessage: last,
			UnreadCount: c.UnreadCount,
		})
	}

	sort.SliceStable(res, func(a, b int) bool {
		la, lb := res[a].LastMessage, res[b].LastMessage
		if !la.CreatedAt.Equal(lb.CreatedAt) {
			return la.CreatedAt.After(lb.CreatedAt)
		}
		return la.ID > lb.ID
	})
	return res, nil
}
