package post

import (
	"time"

	"github.com/gofrs/uuid"
)

// Post is the metadata row for one uploaded media file. Rows are created by
// the upload use case and never updated or deleted afterwards.
type Post struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	Caption   *string   `gorm:"type:text"`
	URL       string    `gorm:"type:varchar(512);not null"`
	FileType  string    `gorm:"type:varchar(100);not null"`
	FileName  string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}
