package repository

import (
	"github.com/nhgoodboy/customer-service-agent/entity"
)

// OrderRepository 订单仓库接口
type OrderRepository interface {
	// GetByOrderID 按订单号查询订单，未找到时返回 (nil, nil)
	GetByOrderID(orderID string) (*entity.Order, error)
	// List 列出全部订单
	List() ([]*entity.Order, error)
	// Upsert 创建或更新订单
	Upsert(order *entity.Order) error
}
