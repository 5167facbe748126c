package xormimplement

import (
	"fmt"

	"xorm.io/builder"

	"github.com/nhgoodboy/customer-service-agent/entity"
	"github.com/nhgoodboy/customer-service-agent/repository"
)

// ========== OrderRepository 实现 ==========

type OrderRepository struct {
	session *Session
}

func NewOrderRepository(session *Session) repository.OrderRepository {
	return &OrderRepository{session: session}
}

func (r *OrderRepository) GetByOrderID(orderID string) (*entity.Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order_id is required")
	}

	result := &entity.Order{}
	ok, err := r.session.Table(entity.TableNameOrders).
		Where(builder.Eq{entity.OrderFieldOrderID: orderID}).
		Get(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if !ok {
		return nil, nil
	}

	return result, nil
}

func (r *OrderRepository) List() ([]*entity.Order, error) {
	var results []*entity.Order
	err := r.session.Table(entity.TableNameOrders).
		Desc(entity.OrderFieldOrderDate).
		Find(&results)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return results, nil
}

func (r *OrderRepository) Upsert(order *entity.Order) error {
	if order == nil {
		return fmt.Errorf("order cannot be nil")
	}
	if order.OrderID == "" {
		return fmt.Errorf("order_id is required")
	}

	existing := &entity.Order{}
	has, err := r.session.Table(entity.TableNameOrders).
		Where(builder.Eq{entity.OrderFieldOrderID: order.OrderID}).
		Get(existing)
	if err != nil {
		return fmt.Errorf("failed to check existing order: %w", err)
	}

	if has {
		_, err = r.session.Table(entity.TableNameOrders).
			Where(builder.Eq{entity.OrderFieldOrderID: order.OrderID}).
			Update(order)
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
	} else {
		_, err = r.session.Table(entity.TableNameOrders).Insert(order)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
	}

	return nil
}
