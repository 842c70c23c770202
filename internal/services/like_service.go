package services

import (
	"errors"
	"fmt"

	"partshare/internal/db"
	"partshare/internal/models"
	"partshare/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToggleResult reports which way a toggle went and the counter it left behind.
type ToggleResult struct {
	Action    string `json:"action"`
	LikeCount int    `json:"like_count"`
}

// ToggleLike flips the (actor, post) like row inside a single transaction and
// keeps the denormalized counter on the post in step with it. Two toggles in
// a row restore the original state. Soft-deleted posts can still be toggled;
// only a missing row is an error.
func ToggleLike(postID, actorID uint) (*ToggleResult, error) {
	var exists int64
	if err := db.DB.Model(&models.Post{}).Where("id = ?", postID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	result := &ToggleResult{}

	// Check if already liked
	var existing models.Like
	err := tx.Where("user_id = ? AND post_id = ?", actorID, postID).First(&existing).Error
	switch {
	case err == nil:
		res := tx.Delete(&existing)
		if res.Error != nil {
			tx.Rollback()
			return nil, res.Error
		}
		// RowsAffected == 0 means a concurrent toggle already removed the
		// row; only the toggle that actually deleted it moves the counter.
		// 带下限的递减：like_count 永远不会小于 0
		if res.RowsAffected > 0 {
			if err := tx.Model(&models.Post{}).
				Where("id = ? AND like_count > 0", postID).
				UpdateColumn("like_count", gorm.Expr("like_count - ?", 1)).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
		result.Action = "unliked"

	case errors.Is(err, gorm.ErrRecordNotFound):
		like := models.Like{UserID: actorID, PostID: postID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if res.Error != nil {
			tx.Rollback()
			return nil, res.Error
		}
		// RowsAffected == 0 means a concurrent toggle won the insert; the
		// unique (user_id, post_id) index is the arbiter and the counter
		// stays untouched
		if res.RowsAffected > 0 {
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("like_count", gorm.Expr("like_count + ?", 1)).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
		result.Action = "liked"

	default:
		tx.Rollback()
		return nil, err
	}

	var post models.Post
	if err := tx.Select("like_count").First(&post, postID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	result.LikeCount = post.LikeCount

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	utils.GetCache().Delete(feedCacheKey)

	return result, nil
}

// IsLikedBy 检查用户是否已点赞某帖子
func IsLikedBy(userID, postID uint) bool {
	var like models.Like
	if err := db.DB.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error; err == nil {
		return true
	}
	return false
}
