package services

import (
	"fmt"

	"partshare/internal/db"
	"partshare/internal/models"
	"partshare/internal/utils"

	"gorm.io/gorm"
)

// IncrementFork bumps the fork counter of a post. No ownership check: any
// actor, anonymous included, may fork. The counter only ever goes up.
func IncrementFork(postID uint) (int, error) {
	res := db.DB.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("fork_count", gorm.Expr("fork_count + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: post %d", ErrNotFound, postID)
	}

	var post models.Post
	if err := db.DB.Select("fork_count").First(&post, postID).Error; err != nil {
		return 0, err
	}

	utils.GetCache().Delete(feedCacheKey)

	return post.ForkCount, nil
}
