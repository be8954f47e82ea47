package post

import (
	"time"
)

// Post is a blog post. Date holds the time of the last write, not the
// creation time.
type Post struct {
	ID      string    `gorm:"primaryKey;type:char(36)"`
	Title   string    `gorm:"type:varchar(200);not null"`
	Content string    `gorm:"type:text;not null"`
	Date    time.Time `gorm:"not null;precision:6"`
}

func (Post) TableName() string {
	return "posts"
}

// Touch sets Date to now, in UTC with microsecond precision.
func (p *Post) Touch(now time.Time) {
	p.Date = now.UTC().Truncate(time.Microsecond)
}
