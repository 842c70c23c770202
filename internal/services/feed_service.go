package services

import (
	"partshare/internal/db"
	"partshare/internal/models"
	"partshare/internal/utils"
)

// ListFeed returns the global feed, newest first, soft-deleted posts excluded.
// The base rows are shared through the cache; is_liked is per viewer and gets
// attached on a copy for every request.
func ListFeed(viewerID uint) ([]models.Post, error) {
	if cached := utils.GetCache().Get(feedCacheKey); cached != nil {
		if rows, ok := cached.([]models.Post); ok {
			posts := make([]models.Post, len(rows))
			copy(posts, rows)
			attachIsLiked(posts, viewerID)
			return posts, nil
		}
	}

	var posts []models.Post
	if err := db.DB.Preload("User").
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}

	utils.GetCache().Set(feedCacheKey, posts, feedCacheTTL)

	// 缓存里的行保持与访问者无关，个性化状态只加在副本上
	out := make([]models.Post, len(posts))
	copy(out, posts)
	attachIsLiked(out, viewerID)
	return out, nil
}

// ListOwned returns ownerID's own posts, newest first, deleted ones excluded.
func ListOwned(ownerID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := db.DB.Preload("User").
		Where("user_id = ? AND deleted_at IS NULL", ownerID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	attachIsLiked(posts, ownerID)
	return posts, nil
}

// ListLiked returns the posts viewerID has liked, most recently liked first.
func ListLiked(viewerID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := db.DB.Preload("User").
		Joins("JOIN likes ON likes.post_id = posts.id").
		Where("likes.user_id = ? AND posts.deleted_at IS NULL", viewerID).
		Order("likes.created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].IsLiked = true
	}
	return posts, nil
}

// attachIsLiked 批量填充当前访问者的点赞状态
func attachIsLiked(posts []models.Post, viewerID uint) {
	if viewerID == 0 || len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	var likedIDs []uint
	db.DB.Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", viewerID, postIDs).
		Pluck("post_id", &likedIDs)

	likedSet := make(map[uint]bool, len(likedIDs))
	for _, id := range likedIDs {
		likedSet[id] = true
	}

	for i := range posts {
		posts[i].IsLiked = likedSet[posts[i].ID]
	}
}
