package knowledge

import (
	"context"
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/nhgoodboy/customer-service-agent/entity"
	"github.com/nhgoodboy/customer-service-agent/model"
	"github.com/nhgoodboy/customer-service-agent/pkg/file"
	"github.com/nhgoodboy/customer-service-agent/pkg/tools"
	"github.com/nhgoodboy/customer-service-agent/pkg/vectorstore"
	"github.com/nhgoodboy/customer-service-agent/repository/factory"
)

// intentFilePatterns 各意图知识库加载的文件名模式
var intentFilePatterns = map[model.IntentType][]string{
	model.IntentProductInquiry: {"product_*.json"},
	model.IntentOrderStatus:    {"order_*.json"},
	model.IntentReturnRefund:   {"*refund*.json"},
	model.IntentGeneralInquiry: {"faq*.json"},
}

// resultKeys 初始化结果中各意图对应的键名
var resultKeys = map[model.IntentType]string{
	model.IntentProductInquiry: "product_knowledge",
	model.IntentOrderStatus:    "order_knowledge",
	model.IntentReturnRefund:   "return_refund_knowledge",
	model.IntentGeneralInquiry: "general_knowledge",
}

// Service 知识库服务，管理各意图分区的知识数据和订单样例
type Service struct {
	stores            map[model.IntentType]*vectorstore.Store
	repositoryFactory factory.Factory
	basePath          string
}

// NewService 创建知识库服务
func NewService(stores map[model.IntentType]*vectorstore.Store, repositoryFactory factory.Factory, basePath string) *Service {
	return &Service{
		stores:            stores,
		repositoryFactory: repositoryFactory,
		basePath:          basePath,
	}
}

// InitKnowledgeBase 初始化知识库：按文件名模式加载各意图的知识文件
// 每个分区整体重建，加载期间查询仍然看到旧数据；返回各分区是否成功
func (s *Service) InitKnowledgeBase(ctx context.Context) map[string]bool {
	results := make(map[string]bool)

	for _, intent := range model.AllIntents {
		key := resultKeys[intent]
		results[key] = s.loadPartition(ctx, intent)
	}

	log.Info("knowledge base initialization finished")
	return results
}

func (s *Service) loadPartition(ctx context.Context, intent model.IntentType) bool {
	store, ok := s.stores[intent]
	if !ok {
		log.Errorf("no vector store for intent %s", intent)
		return false
	}

	paths, err := file.ListByPatterns(s.basePath, intentFilePatterns[intent])
	if err != nil {
		log.Errorf("list knowledge files for %s failed: %v", intent, err)
		return false
	}

	docs := make([]model.Document, 0)
	success := true
	for _, path := range paths {
		parsed, err := vectorstore.ParseKnowledgeFile(path)
		if err != nil {
			log.Errorf("parse knowledge file %s failed: %v", path, err)
			success = false
			continue
		}
		docs = append(docs, parsed...)
	}

	if err := store.ReplaceAll(ctx, docs); err != nil {
		log.Errorf("rebuild partition %s failed: %v", intent, err)
		return false
	}

	log.Infof("partition %s loaded: %d files, %d documents", intent, len(paths), len(docs))
	return success
}

// AddDocument 向指定意图的知识库添加文档
func (s *Service) AddDocument(ctx context.Context, input *model.DocumentInput) *model.Error {
	store, ok := s.stores[input.Intent]
	if !ok {
		return model.NewErrorWithMessage(model.ErrorKnowledge, fmt.Sprintf("未找到意图 %s 对应的向量存储", input.Intent))
	}

	doc := model.NewPlainTextDocument(input.Text, "api")
	if len(input.Metadata) > 0 {
		if source, ok := input.Metadata["source"].(string); ok && source != "" {
			doc.Source = source
		}
	}

	if err := store.AddDocuments(ctx, []model.Document{doc}); err != nil {
		return model.NewError(model.ErrorKnowledge, err)
	}
	return nil
}

// Clear 清空知识库，intent 为空时清空全部分区
func (s *Service) Clear(intent model.IntentType) map[string]bool {
	results := make(map[string]bool)

	if intent != "" {
		store, ok := s.stores[intent]
		if !ok {
			results[string(intent)] = false
			return results
		}
		store.Clear()
		results[string(intent)] = true
		return results
	}

	for i, store := range s.stores {
		store.Clear()
		results[string(i)] = true
	}
	return results
}

// ListFiles 列出知识库目录下的全部知识文件
func (s *Service) ListFiles() ([]string, error) {
	return file.ListByPatterns(s.basePath, []string{"*.json"})
}

// FileContent 读取单个知识文件的内容，文件不存在时返回错误
// 文件名只取基础名，防止路径穿越
func (s *Service) FileContent(name string) (interface{}, error) {
	path := filepath.Join(s.basePath, filepath.Base(name))

	var content interface{}
	if err := file.ReadJSON(path, &content); err != nil {
		return nil, err
	}
	return content, nil
}

// FindOrderByID 按订单号查询订单
func (s *Service) FindOrderByID(ctx context.Context, orderID string) (*entity.Order, error) {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session for order %s", orderID)

	repo, err := s.repositoryFactory.NewOrderRepository(session)
	if err != nil {
		return nil, err
	}

	order, err := repo.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		log.Warnf("order %s not found", orderID)
	}
	return order, nil
}
