package handlers

import (
	"encoding/json"
	"time"

	"partshare/internal/models"

	"gorm.io/datatypes"
)

// PostView is the serialized form of a post.
type PostView struct {
	ID             uint            `json:"id"`
	Title          string          `json:"title"`
	Markup         string          `json:"markup"`
	Style          string          `json:"style"`
	Author         string          `json:"author"`
	LikeCount      int             `json:"like_count"`
	ForkCount      int             `json:"fork_count"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Settings       json.RawMessage `json:"settings"`
	AuthorID       uint            `json:"author_id"`
	Thumbnail      string          `json:"thumbnail"`
	OriginalAuthor string          `json:"original_author"`
	IsLiked        bool            `json:"is_liked"`
}

func NewPostView(p models.Post) PostView {
	author := p.User.Username
	if author == "" {
		author = "Unknown"
	}

	var settings json.RawMessage
	if len(p.Settings) > 0 {
		settings = json.RawMessage(p.Settings)
	}

	return PostView{
		ID:             p.ID,
		Title:          p.Title,
		Markup:         p.Markup,
		Style:          p.Style,
		Author:         author,
		LikeCount:      p.LikeCount,
		ForkCount:      p.ForkCount,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Settings:       settings,
		AuthorID:       p.UserID,
		Thumbnail:      p.Thumbnail,
		OriginalAuthor: p.OriginalAuthor,
		IsLiked:        p.IsLiked,
	}
}

func NewPostViews(posts []models.Post) []PostView {
	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = NewPostView(p)
	}
	return views
}

// normalizeSettings accepts the settings document either as structured JSON
// or as a pre-encoded JSON string; the structured form is what gets stored
// and returned.
func normalizeSettings(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil && json.Valid([]byte(encoded)) {
		return datatypes.JSON(encoded)
	}

	return datatypes.JSON(raw)
}
