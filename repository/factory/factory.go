package factory

import (
	"context"

	"github.com/nhgoodboy/customer-service-agent/repository"
	"github.com/nhgoodboy/customer-service-agent/repository/interfaces"
)

type Factory interface {
	NewSession(ctx context.Context) interfaces.Session
	NewOrderRepository(session interfaces.Session) (repository.OrderRepository, error)
}
