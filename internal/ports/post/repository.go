package post

import (
	"context"
	"time"

	"postapi/internal/core/post"
)

// PostRepository is the persistence gateway for posts.
type PostRepository interface {
	ListAll(ctx context.Context) ([]*post.Post, error)
	Get(ctx context.Context, id string) (*post.Post, error)
	Insert(ctx context.Context, p *post.Post) error
	Update(ctx context.Context, p *post.Post) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// DTOs for the use cases
type PostDTO struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// PostChanges carries the fields supplied by a partial update. Nil means
// "leave unchanged".
type PostChanges struct {
	Title   *string
	Content *string
}

func (c PostChanges) Empty() bool {
	return c.Title == nil && c.Content == nil
}

const (
	dateLayout      = "2006-01-02T15:04:05"
	dateLayoutMicro = "2006-01-02T15:04:05.000000"
)

// FormatDate renders t as an ISO-8601 UTC timestamp without a zone suffix.
// The fractional part is six digits, or omitted when it is zero.
func FormatDate(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(dateLayoutMicro)
}

func ToDTO(p *post.Post) *PostDTO {
	return &PostDTO{
		ID:      p.ID,
		Title:   p.Title,
		Content: p.Content,
		Date:    FormatDate(p.Date),
	}
}
