package factory

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nhgoodboy/customer-service-agent/config"
	"github.com/nhgoodboy/customer-service-agent/constant"
	"github.com/nhgoodboy/customer-service-agent/model"
	"github.com/nhgoodboy/customer-service-agent/pkg/clients/embedding"
	"github.com/nhgoodboy/customer-service-agent/pkg/clients/llm_model"
	"github.com/nhgoodboy/customer-service-agent/pkg/clients/redis"
	"github.com/nhgoodboy/customer-service-agent/pkg/vectorstore"
	"github.com/nhgoodboy/customer-service-agent/repository/factory"
	"github.com/nhgoodboy/customer-service-agent/repository/jsonfile"
	"github.com/nhgoodboy/customer-service-agent/repository/xormimplement"
	"github.com/nhgoodboy/customer-service-agent/service/chat"
	"github.com/nhgoodboy/customer-service-agent/service/intent"
	"github.com/nhgoodboy/customer-service-agent/service/knowledge"
	"github.com/nhgoodboy/customer-service-agent/service/retriever"
	"github.com/nhgoodboy/customer-service-agent/service/session"
)

var instance *Factory
var once sync.Once

// Factory 服务工厂，按配置装配各服务的依赖
type Factory struct {
	repositoryFactory factory.Factory
	stores            map[model.IntentType]*vectorstore.Store
	sessionStore      session.Store

	chatService      *chat.Service
	knowledgeService *knowledge.Service
	retrieverService *retriever.Service
}

// GetServiceFactory 单例
func GetServiceFactory() *Factory {
	once.Do(func() {
		instance = build()
	})
	return instance
}

func build() *Factory {
	conf := config.GetInstance()

	embedder, err := embedding.GetInstance()
	if err != nil {
		panic("init embedding client failed: " + err.Error())
	}
	generator := llm_model.GetInstance()

	stores := make(map[model.IntentType]*vectorstore.Store)
	searchers := make(map[model.IntentType]retriever.Searcher)
	for _, intentType := range model.AllIntents {
		store := vectorstore.NewStore(string(intentType), embedder)
		stores[intentType] = store
		searchers[intentType] = store
	}

	repositoryFactory := newRepositoryFactory(conf.GetStringOrDefault(config.BaseDbType, "json"))
	sessionStore := newSessionStore(conf.GetStringOrDefault(config.SessionStoreType, "memory"))

	retrieverService := retriever.NewService(searchers, generator, retriever.Options{
		TopK:             conf.GetIntOrDefault(config.RetrieverTopK, constant.DefaultTopK),
		BackfillRatio:    conf.GetFloat64OrDefault(config.RetrieverBackfillRatio, constant.DefaultBackfillRatio),
		ExpandMaxLen:     conf.GetIntOrDefault(config.RetrieverExpandMaxLen, constant.DefaultExpandMaxLen),
		RerankPreviewLen: conf.GetIntOrDefault(config.RetrieverRerankPreview, constant.DefaultRerankPreviewLen),
	})

	knowledgeService := knowledge.NewService(stores, repositoryFactory,
		conf.GetStringOrDefault(config.KnowledgeBasePath, "./data/knowledge_base"))

	chatService := chat.NewService(
		intent.NewClassifier(generator),
		retrieverService,
		knowledgeService,
		sessionStore,
		generator,
		chat.Options{
			HistoryTurns:  conf.GetIntOrDefault(config.SessionHistoryMax, constant.DefaultHistoryTurns),
			ContextBudget: conf.GetIntOrDefault(config.RetrieverContextBudget, constant.DefaultContextBudget),
		},
	)

	return &Factory{
		repositoryFactory: repositoryFactory,
		stores:            stores,
		sessionStore:      sessionStore,
		chatService:       chatService,
		knowledgeService:  knowledgeService,
		retrieverService:  retrieverService,
	}
}

func newRepositoryFactory(dbType string) factory.Factory {
	switch dbType {
	case "postgres":
		return xormimplement.GetRepositoryFactoryInstance()
	default:
		return jsonfile.GetRepositoryFactoryInstance()
	}
}

func newSessionStore(storeType string) session.Store {
	ttl := time.Duration(config.GetInstance().GetIntOrDefault(config.SessionTTLSeconds, constant.DefaultSessionTTLSeconds)) * time.Second

	switch storeType {
	case "redis":
		log.Info("session store backed by redis")
		return session.NewRedisStore(redis.GetInstance(), ttl)
	default:
		log.Info("session store backed by memory")
		return session.NewMemoryStore(ttl)
	}
}

// NewChatService 获取聊天服务
func (f *Factory) NewChatService() *chat.Service {
	return f.chatService
}

// NewKnowledgeService 获取知识库服务
func (f *Factory) NewKnowledgeService() *knowledge.Service {
	return f.knowledgeService
}

// NewRetrieverService 获取检索服务
func (f *Factory) NewRetrieverService() *retriever.Service {
	return f.retrieverService
}

// NewSessionStore 获取会话存储
func (f *Factory) NewSessionStore() session.Store {
	return f.sessionStore
}
