package persistence

import (
	"context"
	"strconv"

	"messaging-service/ddd/domain/entity"
	drepo "messaging-service/ddd/domain/repo"
	"messaging-service/ddd/infrastructure/database/dao"
	"messaging-service/ddd/infrastructure/database/po"
	"messaging-service/pkg/cache"
	"messaging-service/pkg/logger"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const identityKeyPrefix = "user:identity:"

// userDirectoryImpl reads identities from the users table through an optional
// TTL cache. The active-user list is never cached.
type userDirectoryImpl struct {
	dao   *dao.UserDao
	cache cache.Store
}

// NewUserDirectory returns a directory over db. store may be nil.
func NewUserDirectory(db *gorm.DB, store cache.Store) drepo.UserDirectory {
	return &userDirectoryImpl{dao: dao.NewUserDao(db), cache: store}
}

func identityKey(id uint64) string {
	return identityKeyPrefix + strconv.FormatUint(id, 10)
}

func toIdentity(p *po.User) *entity.UserIdentity {
	return &entity.UserIdentity{
		ID:           p.ID,
		Name:         p.Name,
		Phone:        p.Phone,
		ProfileImage: p.ProfileImage,
		Role:         p.Role,
		IsActive:     p.IsActive,
	}
}

func (d *userDirectoryImpl) GetIdentity(ctx context.Context, id uint64) (*entity.UserIdentity, error) {
	found, err := d.GetIdentities(ctx, []uint64{id})
	if err != nil {
		return nil, err
	}
	return found[id], nil
}

func (d *userDirectoryImpl) GetIdentities(ctx context.Context, ids []uint64) (map[uint64]*entity.UserIdentity, error) {
	res := make(map[uint64]*entity.UserIdentity, len(ids))
	missing := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, dup := res[id]; dup {
			continue
		}
		if u := d.cached(ctx, id); u != nil {
			res[id] = u
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return res, nil
	}

	pos, err := d.dao.GetByIDs(ctx, missing)
	if err != nil {
		return nil, errors.Wrap(err, "load user identities")
	}
	for i := range pos {
		u := toIdentity(&pos[i])
		res[u.ID] = u
		d.remember(ctx, u)
	}
	return res, nil
}

func (d *userDirectoryImpl) ListActiveUserIDs(ctx context.Context) ([]uint64, error) {
	ids, err := d.dao.ListActiveIDs(ctx)
	return ids, errors.Wrap(err, "list active users")
}

// cache failures degrade to a database read
func (d *userDirectoryImpl) cached(ctx context.Context, id uint64) *entity.UserIdentity {
	if d.cache == nil {
		return nil
	}
	var u entity.UserIdentity
	ok, err := cache.GetJSON(ctx, d.cache, identityKey(id), &u)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Warn("identity cache read failed")
		return nil
	}
	if !ok {
		return nil
	}
	return &u
}

func (d *userDirectoryImpl) remember(ctx context.Context, u *entity.UserIdentity) {
	if d.cache == nil {
		return
	}
	if err := cache.SetJSON(ctx, d.cache, identityKey(u.ID), u); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("identity cache write failed")
	}
}
