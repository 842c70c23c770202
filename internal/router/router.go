package router

import (
	"partshare/internal/handlers"
	"partshare/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler()
	likeHandler := handlers.NewLikeHandler()
	forkHandler := handlers.NewForkHandler()

	api := r.Group("/api")
	api.Use(middleware.LoadUser())

	// 公共路由 (Public Routes)
	api.POST("/auth/register", authHandler.Register) // 注册并开启会话
	api.POST("/auth/login", authHandler.Login)       // 登录
	api.GET("/auth/me", authHandler.Me)              // 当前会话状态

	api.GET("/posts", postHandler.List)           // 全局信息流
	api.GET("/posts/:id", postHandler.Get)        // 按 id 直接取帖
	api.POST("/posts/:id/fork", forkHandler.Fork) // 复制计数，无需登录

	// 受保护路由 (Protected Routes)
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/auth/logout", authHandler.Logout)

		authorized.GET("/posts/my", postHandler.ListMine)      // 我的帖子
		authorized.GET("/posts/liked", postHandler.ListLiked)  // 我点赞过的帖子
		authorized.POST("/posts", postHandler.Create)          // 发布
		authorized.PUT("/posts/:id", postHandler.Update)       // 更新
		authorized.DELETE("/posts/:id", postHandler.Delete)    // 软删除
		authorized.POST("/posts/:id/like", likeHandler.Toggle) // 点赞/取消点赞
	}
}
