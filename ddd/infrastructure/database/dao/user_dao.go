package dao

import (
	"context"

	"messaging-service/ddd/infrastructure/database/po"

	"gorm.io/gorm"
)

type UserDao struct {
	db *gorm.DB
}

func NewUserDao(db *gorm.DB) *UserDao {
	return &UserDao{db: db}
}

func (d *UserDao) GetByIDs(ctx context.Context, ids []uint64) ([]po.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var pos []po.User
	err := d.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&pos).Error
	if err != nil {
		return nil, err
	}
	return pos, nil
}

func (d *UserDao) ListActiveIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	err := d.db.WithContext(ctx).
		Model(&po.User{}).
		Where("is_active = ?", true).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
