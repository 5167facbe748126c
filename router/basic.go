package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func addBasicRouter(engine *gin.Engine) {
	engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
