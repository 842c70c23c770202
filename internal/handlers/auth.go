package handlers

import (
	"net/http"
	"partshare/internal/db"
	"partshare/internal/models"
	"partshare/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"` // 用户名或邮箱
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username, email and password (6+ chars) are required"})
		return
	}

	username := utils.SanitizeText(req.Username)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username is required"})
		return
	}

	// 重复检查（用户名或邮箱）
	var count int64
	db.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", username, req.Email).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username or email already taken"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		RenderServiceError(c, err)
		return
	}

	user := models.User{
		Username: username,
		Email:    req.Email,
		Password: hash,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		RenderServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusCreated, gin.H{"message": "registered", "user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	var user models.User
	err := db.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&user).Error
	if err != nil || !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid username or password"})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"message": "logged in", "user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete("user_id")
	session.Save()

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	if user, ok := CurrentUser(c); ok {
		c.JSON(http.StatusOK, gin.H{"is_authenticated": true, "user": user})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_authenticated": false, "user": nil})
}
