package repo

import (
	"context"
	"time"

	"messaging-service/ddd/domain/entity"
)

// MessageRepository is the durable append-only message log.
type MessageRepository interface {
	Append(ctx context.Context, m *entity.Message) error
	// ListBetween pages the pair's messages newest first and returns the page
	// in chronological order, together with the pair's total message count.
	ListBetween(ctx context.Context, userID, partnerID uint64, offset, limit int) ([]*entity.Message, int64, error)
	// MarkReadFromSender flags every unread message from senderID to
	// receiverID as read and returns the number of rows changed.
	MarkReadFromSender(ctx context.Context, receiverID, senderID uint64) (int64, error)
	ListCounterparts(ctx context.Context, userID uint64) ([]entity.CounterpartSummary, error)
	// LatestBetween returns nil, nil when the pair has no messages.
	LatestBetween(ctx context.Context, userID, partnerID uint64) (*entity.Message, error)
	Stats(ctx context.Context, since time.Time) (total int64, recent int64, err error)
}
