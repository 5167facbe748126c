package jsonfile

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/nhgoodboy/customer-service-agent/entity"
	"github.com/nhgoodboy/customer-service-agent/pkg/file"
	"github.com/nhgoodboy/customer-service-agent/repository"
)

// OrderSamplesFileName 订单样例数据文件名
const OrderSamplesFileName = "order_samples.json"

// ========== OrderRepository 实现 ==========

type OrderRepository struct {
	path string
	mu   sync.RWMutex
}

func NewOrderRepository(basePath string) repository.OrderRepository {
	return &OrderRepository{path: filepath.Join(basePath, OrderSamplesFileName)}
}

func (r *OrderRepository) GetByOrderID(orderID string) (*entity.Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order_id is required")
	}

	orders, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		if order.OrderID == orderID {
			return order, nil
		}
	}
	return nil, nil
}

func (r *OrderRepository) List() ([]*entity.Order, error) {
	return r.load()
}

func (r *OrderRepository) Upsert(order *entity.Order) error {
	if order == nil {
		return fmt.Errorf("order cannot be nil")
	}
	if order.OrderID == "" {
		return fmt.Errorf("order_id is required")
	}
	// 订单样例数据按只读处理
	return fmt.Errorf("json file order repository is read-only")
}

func (r *OrderRepository) load() ([]*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !file.CheckFileIsExist(r.path) {
		return nil, nil
	}

	var orders []*entity.Order
	if err := file.ReadJSON(r.path, &orders); err != nil {
		return nil, fmt.Errorf("failed to load orders from %s: %w", r.path, err)
	}
	return orders, nil
}
