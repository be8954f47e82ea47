package database

import (
	"context"

	"postapi/internal/core/post"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostRepositoryDatabase implements PostRepository on top of gorm.
type PostRepositoryDatabase struct {
	db *gorm.DB
}

// NewPostRepositoryDatabase builds the repository around an open connection.
func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) ListAll(ctx context.Context) ([]*post.Post, error) {
	posts := make([]*post.Post, 0)
	if err := repo.db.WithContext(ctx).Find(&posts).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) Get(ctx context.Context, id string) (*post.Post, error) {
	var p post.Post
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, post.ErrNotFound
		}
		return nil, errors.WithStack(err)
	}
	return &p, nil
}

// Insert fails with post.ErrConflict when the id is already taken.
func (repo *PostRepositoryDatabase) Insert(ctx context.Context, p *post.Post) error {
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&post.Post{}).Where("id = ?", p.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return post.ErrConflict
		}
		return tx.Create(p).Error
	})
	if err != nil {
		if errors.Is(err, post.ErrConflict) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return post.ErrConflict
		}
		return errors.WithStack(err)
	}
	return nil
}

// Update writes every mutable column of p.
func (repo *PostRepositoryDatabase) Update(ctx context.Context, p *post.Post) error {
	res := repo.db.WithContext(ctx).
		Model(&post.Post{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"title":   p.Title,
			"content": p.Content,
			"date":    p.Date,
		})
	if res.Error != nil {
		return errors.WithStack(res.Error)
	}
	if res.RowsAffected == 0 {
		return post.ErrNotFound
	}
	return nil
}

func (repo *PostRepositoryDatabase) Delete(ctx context.Context, id string) error {
	res := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&post.Post{})
	if res.Error != nil {
		return errors.WithStack(res.Error)
	}
	if res.RowsAffected == 0 {
		return post.ErrNotFound
	}
	return nil
}

func (repo *PostRepositoryDatabase) Ping(ctx context.Context) error {
	sqlDB, err := repo.db.DB()
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(sqlDB.PingContext(ctx))
}
