package services

import (
	"errors"
	"fmt"
	"time"

	"partshare/internal/db"
	"partshare/internal/models"
	"partshare/internal/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	feedCacheKey = "posts:feed"
	feedCacheTTL = 1 * time.Minute
)

// PostInput carries the owner-mutable fields of a post.
type PostInput struct {
	Title          string
	Markup         string
	Style          string
	Settings       datatypes.JSON
	Thumbnail      string
	OriginalAuthor string
}

// CreatePost persists a new post for ownerID with both counters at zero.
func CreatePost(ownerID uint, in PostInput) (*models.Post, error) {
	title := utils.SanitizeText(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	post := models.Post{
		UserID:         ownerID,
		Title:          title,
		Markup:         in.Markup,
		Style:          in.Style,
		Settings:       in.Settings,
		Thumbnail:      in.Thumbnail,
		OriginalAuthor: utils.SanitizeText(in.OriginalAuthor),
	}

	if err := db.DB.Create(&post).Error; err != nil {
		return nil, err
	}

	// 重新加载以带出作者信息
	if err := db.DB.Preload("User").First(&post, post.ID).Error; err != nil {
		return nil, err
	}

	utils.GetCache().Delete(feedCacheKey)

	return &post, nil
}

// GetPost resolves a post by id, soft-deleted ones included, so a deleted post
// stays addressable for its owner's tooling.
func GetPost(postID, viewerID uint) (*models.Post, error) {
	var post models.Post
	if err := db.DB.Preload("User").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return nil, err
	}
	if viewerID != 0 {
		post.IsLiked = IsLikedBy(viewerID, post.ID)
	}
	return &post, nil
}

// UpdatePost overwrites the mutable fields of a post owned by actorID.
// The title is not re-validated for emptiness on update; only creation
// enforces it.
func UpdatePost(postID, actorID uint, in PostInput) (*models.Post, error) {
	var post models.Post
	if err := db.DB.Preload("User").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return nil, err
	}

	// 验证是否为作者
	if post.UserID != actorID {
		return nil, fmt.Errorf("%w: not the post owner", ErrForbidden)
	}

	post.Title = utils.SanitizeText(in.Title)
	post.Markup = in.Markup
	post.Style = in.Style
	post.Settings = in.Settings
	post.Thumbnail = in.Thumbnail

	if err := db.DB.Save(&post).Error; err != nil {
		return nil, err
	}

	utils.GetCache().Delete(feedCacheKey)

	return &post, nil
}

// SoftDeletePost marks a post as deleted without destroying the row, its
// likes, or its counters.
func SoftDeletePost(postID, actorID uint) error {
	var post models.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return err
	}

	if post.UserID != actorID {
		return fmt.Errorf("%w: not the post owner", ErrForbidden)
	}

	// UpdateColumn keeps updated_at untouched; deletion is not an edit
	if err := db.DB.Model(&post).UpdateColumn("deleted_at", time.Now()).Error; err != nil {
		return err
	}

	utils.GetCache().Delete(feedCacheKey)

	return nil
}
