package models

import (
	"time"

	"gorm.io/datatypes"
)

type Post struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Title          string         `gorm:"not null" json:"title"`
	Markup         string         `gorm:"type:text" json:"markup"`
	Style          string         `gorm:"type:text" json:"style"`
	Settings       datatypes.JSON `json:"settings"`            // editor settings, stored verbatim
	Thumbnail      string         `gorm:"type:text" json:"thumbnail"` // encoded preview image, optional
	OriginalAuthor string         `json:"original_author"`     // set when the post was created from a fork

	LikeCount int `gorm:"not null;default:0" json:"like_count"`
	ForkCount int `gorm:"not null;default:0" json:"fork_count"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	// Soft delete marker. Deliberately a plain *time.Time, not gorm.DeletedAt:
	// deleted posts must stay addressable by id, listings exclude them explicitly.
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`

	// 非数据库字段，用于查询时填充
	IsLiked bool `gorm:"-" json:"is_liked"`
}

// Deleted reports whether the post has been soft-deleted.
func (p *Post) Deleted() bool {
	return p.DeletedAt != nil
}
