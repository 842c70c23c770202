package handlers

import (
	"net/http"
	"partshare/internal/middleware"
	"partshare/internal/models"
	"partshare/internal/services"
	"partshare/internal/utils"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct{}

func NewLikeHandler() *LikeHandler {
	return &LikeHandler{}
}

// Toggle 点赞/取消点赞
func (h *LikeHandler) Toggle(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	postID, ok := utils.StringToUint(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
		return
	}

	result, err := services.ToggleLike(postID, user.ID)
	if err != nil {
		RenderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
