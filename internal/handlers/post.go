package handlers

import (
	"encoding/json"
	"net/http"
	"partshare/internal/middleware"
	"partshare/internal/models"
	"partshare/internal/services"
	"partshare/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

type postRequest struct {
	Title          string          `json:"title"`
	Markup         string          `json:"markup"`
	Style          string          `json:"style"`
	Settings       json.RawMessage `json:"settings"`
	Thumbnail      string          `json:"thumbnail"`
	OriginalAuthor string          `json:"original_author"`
}

func (r postRequest) toInput() services.PostInput {
	return services.PostInput{
		Title:          r.Title,
		Markup:         r.Markup,
		Style:          r.Style,
		Settings:       normalizeSettings(r.Settings),
		Thumbnail:      r.Thumbnail,
		OriginalAuthor: r.OriginalAuthor,
	}
}

// List 全局信息流，未登录也可访问
func (h *PostHandler) List(c *gin.Context) {
	posts, err := services.ListFeed(ViewerID(c))
	if err != nil {
		RenderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPostViews(posts))
}

// ListMine 当前用户自己的帖子
func (h *PostHandler) ListMine(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	posts, err := services.ListOwned(user.ID)
	if err != nil {
		RenderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPostViews(posts))
}

// ListLiked 当前用户点赞过的帖子，按点赞时间倒序
func (h *PostHandler) ListLiked(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	posts, err := services.ListLiked(user.ID)
	if err != nil {
		RenderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPostViews(posts))
}

// Get 按 id 直接取帖，软删除的帖子也能解析到
func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := utils.StringToUint(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
		return
	}

	post, err := services.GetPost(postID, ViewerID(c))
	if err != nil {
		RenderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPostView(*post))
}

func (h *PostHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	post, err := services.CreatePost(user.ID, req.toInput())
	if err != nil {
		RenderServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "post created", "post": NewPostView(*post)})
}

func (h *PostHandler) Update(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	postID, ok := utils.StringToUint(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	post, err := services.UpdatePost(postID, user.ID, req.toInput())
	if err != nil {
		RenderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post updated", "post": NewPostView(*post)})
}

func (h *PostHandler) Delete(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	postID, ok := utils.StringToUint(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
		return
	}

	if err := services.SoftDeletePost(postID, user.ID); err != nil {
		RenderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}
