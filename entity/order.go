package entity

const (
	TableNameOrders = "orders"

	OrderFieldID                = "id"
	OrderFieldOrderID           = "order_id"
	OrderFieldStatus            = "status"
	OrderFieldOrderDate         = "order_date"
	OrderFieldEstimatedDelivery = "estimated_delivery"
	OrderFieldTrackingNumber    = "tracking_number"
	OrderFieldCarrier           = "carrier"
	OrderFieldItems             = "items"
)

// 订单状态枚举值
const (
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusProcessing = "processing"
	OrderStatusCancelled  = "cancelled"
	OrderStatusPending    = "pending"
)

// OrderItem 订单中的一个商品条目
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order 订单记录，核心只读
type Order struct {
	ID                int64       `xorm:"pk autoincr id" json:"-"`
	OrderID           string      `xorm:"order_id" json:"order_id"`
	Status            string      `xorm:"status" json:"status"`
	OrderDate         string      `xorm:"order_date" json:"order_date"`
	EstimatedDelivery string      `xorm:"estimated_delivery" json:"estimated_delivery,omitempty"`
	TrackingNumber    string      `xorm:"tracking_number" json:"tracking_number,omitempty"`
	Carrier           string      `xorm:"carrier" json:"carrier,omitempty"`
	Items             []OrderItem `xorm:"json items" json:"items,omitempty"`
}

func (e *Order) TableName() string {
	return TableNameOrders
}
