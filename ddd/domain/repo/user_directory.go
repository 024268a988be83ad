package repo

import (
	"context"

	"messaging-service/ddd/domain/entity"
)

//go:generate mockgen -destination=mocks/mock_user_directory.go -package=mocks messaging-service/ddd/domain/repo UserDirectory

// UserDirectory resolves marketplace users. The users table belongs to the
// identity service; this service only reads it.
type UserDirectory interface {
	// GetIdentity returns nil, nil for an unknown id.
	GetIdentity(ctx context.Context, id uint64) (*entity.UserIdentity, error)
	// GetIdentities omits unknown ids from the result.
	GetIdentities(ctx context.Context, ids []uint64) (map[uint64]*entity.UserIdentity, error)
	ListActiveUserIDs(ctx context.Context) ([]uint64, error)
}
