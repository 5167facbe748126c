package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/nhgoodboy/customer-service-agent/model"
	"github.com/nhgoodboy/customer-service-agent/service/factory"
	"github.com/nhgoodboy/customer-service-agent/service/session"
)

var sessionStore session.Store

func getSessionStore() session.Store {
	if sessionStore == nil {
		sessionStore = factory.GetServiceFactory().NewSessionStore()
	}
	return sessionStore
}

// CreateSession 创建新会话，GET 方法兼容前端
func CreateSession(ctx *gin.Context) {
	sessionID, err := getSessionStore().Create(ctx)
	if err != nil {
		log.Errorf("CreateSession error: %v", err)
		ctx.JSON(http.StatusInternalServerError, model.NewError(model.ErrorDB, err))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"session_id": sessionID})
}

// GetHistory 获取会话历史
func GetHistory(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")

	history, err := getSessionStore().History(ctx, sessionID)
	if err != nil {
		log.Errorf("GetHistory error: %v", err)
		ctx.JSON(http.StatusInternalServerError, model.NewError(model.ErrorDB, err))
		return
	}
	ctx.JSON(http.StatusOK, history)
}

// ClearSession 清除会话历史，保留会话本身
func ClearSession(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")

	if !getSessionStore().Clear(ctx, sessionID) {
		ctx.JSON(http.StatusNotFound, model.NewError(model.ErrorSessionNotFound, nil))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "会话历史已清除"})
}

// GetSessionContext 获取会话上下文信息
func GetSessionContext(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")

	info := getSessionStore().Context(ctx, sessionID)
	if !info.Exists {
		ctx.JSON(http.StatusNotFound, model.NewError(model.ErrorSessionNotFound, nil))
		return
	}
	ctx.JSON(http.StatusOK, info)
}
