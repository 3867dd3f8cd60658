package post

import (
	"context"
	"time"

	"mediafeed/internal/core/post"
)

// PostRepository is the outbound port for storing and reading posts.
type PostRepository interface {
	Create(ctx context.Context, p *post.Post) (*post.Post, error)
	ListNewest(ctx context.Context, limit, offset int) ([]*post.Post, error)
	CountAll(ctx context.Context) (int64, error)
}

// DTOs for the use-case layer.
type PostDTO struct {
	ID        string    `json:"id"`
	Caption   *string   `json:"caption"`
	URL       string    `json:"url"`
	FileType  string    `json:"file_type"`
	FileName  string    `json:"file_name"`
	CreatedAt time.Time `json:"created_at"`
}

type FeedDTO struct {
	Posts  []*PostDTO `json:"posts"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
	Total  int64      `json:"total"`
}

// ToDTO maps the persistence entity to its API representation.
func ToDTO(p *post.Post) *PostDTO {
	return &PostDTO{
		ID:        p.ID.String(),
		Caption:   p.Caption,
		URL:       p.URL,
		FileType:  p.FileType,
		FileName:  p.FileName,
		CreatedAt: p.CreatedAt,
	}
}
