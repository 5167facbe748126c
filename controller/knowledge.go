package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/nhgoodboy/customer-service-agent/model"
	"github.com/nhgoodboy/customer-service-agent/service/factory"
)

// KnowledgeManager 知识库管理入口
type KnowledgeManager interface {
	InitKnowledgeBase(ctx context.Context) map[string]bool
	AddDocument(ctx context.Context, input *model.DocumentInput) *model.Error
	Clear(intent model.IntentType) map[string]bool
	ListFiles() ([]string, error)
	FileContent(name string) (interface{}, error)
}

var knowledgeService KnowledgeManager

func getKnowledgeService() KnowledgeManager {
	if knowledgeService == nil {
		knowledgeService = factory.GetServiceFactory().NewKnowledgeService()
	}
	return knowledgeService
}

// InitKnowledge 初始化知识库
func InitKnowledge(ctx *gin.Context) {
	results := getKnowledgeService().InitKnowledgeBase(ctx)
	ctx.JSON(http.StatusOK, gin.H{"success": true, "results": results})
}

// AddKnowledge 添加知识到知识库
func AddKnowledge(ctx *gin.Context) {
	var input model.DocumentInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewErrorWithMessage(model.ErrorParams, err.Error()))
		return
	}

	if errResp := getKnowledgeService().AddDocument(ctx, &input); errResp != nil {
		log.Errorf("AddKnowledge error: %v", errResp)
		ctx.JSON(http.StatusInternalServerError, errResp)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearKnowledge 清空知识库，不传意图则清空全部分区
func ClearKnowledge(ctx *gin.Context) {
	var req struct {
		Intent model.IntentType `json:"intent_type"`
	}
	// 空请求体等同于清空全部
	_ = ctx.ShouldBindJSON(&req)

	if req.Intent != "" && !req.Intent.Valid() {
		ctx.JSON(http.StatusBadRequest, model.NewErrorWithMessage(model.ErrorParams, "无效的意图类型"))
		return
	}

	results := getKnowledgeService().Clear(req.Intent)
	ctx.JSON(http.StatusOK, gin.H{"success": true, "results": results})
}

// ListKnowledgeFiles 列出知识库文件
func ListKnowledgeFiles(ctx *gin.Context) {
	files, err := getKnowledgeService().ListFiles()
	if err != nil {
		log.Errorf("ListKnowledgeFiles error: %v", err)
		ctx.JSON(http.StatusInternalServerError, model.NewError(model.ErrorKnowledge, err))
		return
	}
	ctx.JSON(http.StatusOK, files)
}

// GetKnowledgeFile 读取单个知识文件内容
func GetKnowledgeFile(ctx *gin.Context) {
	name := ctx.Param("file_name")

	content, err := getKnowledgeService().FileContent(name)
	if err != nil {
		ctx.JSON(http.StatusNotFound, model.NewErrorWithMessage(model.ErrorKnowledge, "文件不存在或无法读取"))
		return
	}
	ctx.JSON(http.StatusOK, content)
}
