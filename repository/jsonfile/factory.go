package jsonfile

import (
	"context"
	"sync"

	"github.com/nhgoodboy/customer-service-agent/config"
	"github.com/nhgoodboy/customer-service-agent/repository"
	"github.com/nhgoodboy/customer-service-agent/repository/factory"
	"github.com/nhgoodboy/customer-service-agent/repository/interfaces"
)

var once sync.Once
var instance *Factory

// Factory 基于知识库目录下JSON文件的仓库工厂
// 无外部数据库依赖，适合开发环境和演示数据
type Factory struct {
	basePath string
}

// 获取一个factory实例
func GetRepositoryFactoryInstance() factory.Factory {
	once.Do(func() {
		instance = &Factory{
			basePath: config.GetInstance().GetString(config.KnowledgeBasePath),
		}
	})
	return instance
}

// NewFactory 指定目录创建工厂（测试用）
func NewFactory(basePath string) factory.Factory {
	return &Factory{basePath: basePath}
}

// 创建一个会话，文件实现无事务语义
func (f *Factory) NewSession(ctx context.Context) interfaces.Session {
	return &Session{}
}

// NewOrderRepository 创建订单仓库
func (f *Factory) NewOrderRepository(session interfaces.Session) (repository.OrderRepository, error) {
	return NewOrderRepository(f.basePath), nil
}
