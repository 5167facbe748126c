package constant

// OrderIDPattern 订单号模式：两位字母前缀加10-12位数字
const OrderIDPattern = `OD\d{10,12}`

// OrderKeywords 订单类查询的关键词，补充检索时用来关联订单分区
var OrderKeywords = []string{
	"订单", "包裹", "发货", "物流", "快递", "配送", "送达", "跟踪",
	"order", "package", "shipment", "delivery", "tracking",
}

// QueryExpansionTriggers 短查询扩展触发词 -> 追加的同义词
var QueryExpansionTriggers = map[string][]string{
	"积分": {"积分使用", "积分抵扣", "会员积分", "购物积分"},
	"订单": {"订单状态", "订单查询", "发货时间"},
	"退款": {"退款流程", "退货政策", "退款到账"},
	"发货": {"发货时间", "物流信息"},
}
