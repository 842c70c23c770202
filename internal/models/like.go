package models

import (
	"time"
)

// Like 点赞模型 - 每个 (user, post) 对至多一行，行的存在即点赞状态
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_user_post" json:"post_id"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	CreatedAt time.Time `json:"created_at"`
}
