package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/nhgoodboy/customer-service-agent/model"
	"github.com/nhgoodboy/customer-service-agent/service/factory"
)

// ChatProcessor 聊天处理入口
type ChatProcessor interface {
	ProcessQuery(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, *model.Error)
}

var chatService ChatProcessor

func getChatService() ChatProcessor {
	if chatService == nil {
		chatService = factory.GetServiceFactory().NewChatService()
	}
	return chatService
}

// Chat 聊天接口
func Chat(ctx *gin.Context) {
	var req model.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewErrorWithMessage(model.ErrorParams, err.Error()))
		return
	}

	resp, errResp := getChatService().ProcessQuery(ctx, &req)
	if errResp != nil {
		log.Errorf("Chat error: %v", errResp)
		ctx.JSON(statusFor(errResp), errResp)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func statusFor(err *model.Error) int {
	switch err.Code {
	case model.ErrorEmptyQuery, model.ErrorParams:
		return http.StatusUnprocessableEntity
	case model.ErrorSessionNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
