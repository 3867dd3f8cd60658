package database

import (
	"context"

	postEntity "mediafeed/internal/core/post"

	"gorm.io/gorm"
)

// PostRepositoryDatabase implements the post repository port on gorm.
type PostRepositoryDatabase struct {
	db *gorm.DB
}

// NewPostRepositoryDatabase builds a repository over an open gorm handle.
func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

// Create inserts the post in a single transaction.
func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *postEntity.Post) (*postEntity.Post, error) {
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(p).Error
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListNewest returns one feed page ordered by created_at descending.
func (repo *PostRepositoryDatabase) ListNewest(ctx context.Context, limit, offset int) ([]*postEntity.Post, error) {
	var posts []*postEntity.Post
	err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// CountAll returns the table-wide post count, unfiltered by pagination.
func (repo *PostRepositoryDatabase) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).Model(&postEntity.Post{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
