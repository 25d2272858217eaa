package chats

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, svc *Service, authMiddleware, codeLimit gin.HandlerFunc) {
	handler := NewHandler(svc)
	if codeLimit == nil {
		codeLimit = func(c *gin.Context) { c.Next() }
	}

	chats := router.Group("/reports/:id/chats")
	chats.Use(authMiddleware)
	{
		chats.GET("", handler.ListChats)
		chats.POST("", handler.SendChat)
	}

	anonymous := router.Group("/reports/anonymous/:unique_code/chats")
	anonymous.Use(codeLimit)
	{
		anonymous.GET("", handler.ListAnonymousChats)
		anonymous.POST("", handler.SendAnonymousChat)
	}
}
