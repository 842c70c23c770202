package handlers

import (
	"net/http"
	"partshare/internal/services"
	"partshare/internal/utils"

	"github.com/gin-gonic/gin"
)

type ForkHandler struct{}

func NewForkHandler() *ForkHandler {
	return &ForkHandler{}
}

// Fork 复制计数，匿名访问者也可触发
func (h *ForkHandler) Fork(c *gin.Context) {
	postID, ok := utils.StringToUint(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
		return
	}

	count, err := services.IncrementFork(postID)
	if err != nil {
		RenderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fork_count": count})
}
