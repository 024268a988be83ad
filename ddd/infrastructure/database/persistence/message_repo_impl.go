package persistence

import (
	"context"
	"time"

	"messaging-service/ddd/domain/entity"
	drepo "messaging-service/ddd/domain/repo"
	"messaging-service/ddd/infrastructure/database/dao"
	"messaging-service/ddd/infrastructure/database/po"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type messageRepositoryImpl struct {
	dao *dao.MessageDao
}

func NewMessageRepository(db *gorm.DB) drepo.MessageRepository {
	return &messageRepositoryImpl{dao: dao.NewMessageDao(db)}
}

func toMessageEntity(p *po.Message) *entity.Message {
	return &entity.Message{
		ID:         p.ID,
		SenderID:   p.SenderID,
		ReceiverID: p.ReceiverID,
		Body:       p.Body,
		IsRead:     p.IsRead,
		CreatedAt:  p.CreatedAt,
	}
}

func (r *messageRepositoryImpl) Append(ctx context.Context, m *entity.Message) error {
	p := &po.Message{
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Body:       m.Body,
		IsRead:     m.IsRead,
	}
	if err := r.dao.Create(ctx, p); err != nil {
		return errors.Wrap(err, "append message")
	}
	m.ID = p.ID
	m.CreatedAt = p.CreatedAt
	return nil
}

func (r *messageRepositoryImpl) ListBetween(ctx context.Context, userID, partnerID uint64, offset, limit int) ([]*entity.Message, int64, error) {
	total, err := r.dao.CountBetween(ctx, userID, partnerID)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count messages")
	}
	pos, err := r.dao.ListBetween(ctx, userID, partnerID, offset, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list messages")
	}
	// newest-first page, returned oldest first
	res := make([]*entity.Message, len(pos))
	for i := range pos {
		res[len(pos)-1-i] = toMessageEntity(&pos[i])
	}
	return res, total, nil
}

func (r *messageRepositoryImpl) MarkReadFromSender(ctx context.Context, receiverID, senderID uint64) (int64, error) {
	n, err := r.dao.MarkReadFromSender(ctx, receiverID, senderID)
	return n, errors.Wrap(err, "mark messages read")
}

func (r *messageRepositoryImpl) ListCounterparts(ctx context.Context, userID uint64) ([]entity.CounterpartSummary, error) {
	rows, err := r.dao.ListCounterparts(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list counterparts")
	}
	res := make([]entity.CounterpartSummary, 0, len(rows))
	for _, row := range rows {
		res = append(res, entity.CounterpartSummary{PartnerID: row.PartnerID, UnreadCount: row.UnreadCount})
	}
	return res, nil
}

func (r *messageRepositoryImpl) LatestBetween(ctx context.Context, userID, partnerID uint64) (*entity.Message, error) {
	p, err := r.dao.LatestBetween(ctx, userID, partnerID)
	if err != nil {
		return nil, errors.Wrap(err, "latest message")
	}
	if p == nil {
		return nil, nil
	}
	return toMessageEntity(p), nil
}

func (r *messageRepositoryImpl) Stats(ctx context.Context, since time.Time) (int64, int64, error) {
	total, err := r.dao.Count(ctx, time.Time{})
	if err != nil {
		return 0, 0, errors.Wrap(err, "count all messages")
	}
	recent, err := r.dao.Count(ctx, since)
	if err != nil {
		return 0, 0, errors.Wrap(err, "count recent messages")
	}
	return total, recent, nil
}
