package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhgoodboy/customer-service-agent/entity"
)

func writeOrderSamples(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, OrderSamplesFileName), []byte(content), 0644))
}

func TestOrderRepositoryGetByOrderID(t *testing.T) {
	dir := t.TempDir()
	writeOrderSamples(t, dir, `[
		{"order_id": "OD2023110512567", "status": "shipped", "order_date": "2023-11-05",
		 "estimated_delivery": "2023-11-08", "tracking_number": "SF123456", "carrier": "顺丰速运",
		 "items": [{"name": "智能手机X", "quantity": 1, "price": 3999}]},
		{"order_id": "OD2023110498765", "status": "processing", "order_date": "2023-11-04"}
	]`)

	repo := NewOrderRepository(dir)

	order, err := repo.GetByOrderID("OD2023110512567")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, entity.OrderStatusShipped, order.Status)
	assert.Equal(t, "SF123456", order.TrackingNumber)
	assert.Equal(t, "顺丰速运", order.Carrier)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "智能手机X", order.Items[0].Name)
}

func TestOrderRepositoryGetByOrderIDNotFound(t *testing.T) {
	dir := t.TempDir()
	writeOrderSamples(t, dir, `[{"order_id": "OD2023110512567", "status": "shipped"}]`)

	repo := NewOrderRepository(dir)

	order, err := repo.GetByOrderID("OD0000000000")
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestOrderRepositoryMissingFile(t *testing.T) {
	repo := NewOrderRepository(t.TempDir())

	order, err := repo.GetByOrderID("OD2023110512567")
	require.NoError(t, err)
	assert.Nil(t, order)

	orders, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepositoryList(t *testing.T) {
	dir := t.TempDir()
	writeOrderSamples(t, dir, `[
		{"order_id": "OD2023110512567", "status": "shipped"},
		{"order_id": "OD2023110498765", "status": "delivered"}
	]`)

	repo := NewOrderRepository(dir)
	orders, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestOrderRepositoryUpsertReadOnly(t *testing.T) {
	repo := NewOrderRepository(t.TempDir())
	err := repo.Upsert(&entity.Order{OrderID: "OD1234567890"})
	assert.Error(t, err)
}

func TestFactoryCreatesRepository(t *testing.T) {
	factory := NewFactory(t.TempDir())
	session := factory.NewSession(nil)
	require.NoError(t, session.Begin())
	require.NoError(t, session.Commit())
	require.NoError(t, session.Close())

	repo, err := factory.NewOrderRepository(session)
	require.NoError(t, err)
	assert.NotNil(t, repo)
}
