package router

import (
	"github.com/gin-gonic/gin"

	"github.com/nhgoodboy/customer-service-agent/controller"
)

func addApiRouter(engine *gin.Engine) {

	api := engine.Group("/api/v1")
	{
		// 聊天
		api.POST("/chat", controller.Chat)

		// 会话管理
		api.POST("/session/create", controller.CreateSession)
		api.GET("/session/create", controller.CreateSession) // 兼容前端
		api.GET("/session/:session_id/history", controller.GetHistory)
		api.GET("/session/:session_id/context", controller.GetSessionContext)
		api.DELETE("/session/:session_id", controller.ClearSession)

		// 知识库管理
		api.POST("/knowledge/init", controller.InitKnowledge)
		api.POST("/knowledge/add", controller.AddKnowledge)
		api.POST("/knowledge/clear", controller.ClearKnowledge)
		api.GET("/knowledge/files", controller.ListKnowledgeFiles)
		api.GET("/knowledge/file/:file_name", controller.GetKnowledgeFile)
	}
}
