package model

// IntentType 意图类型
type IntentType string

const (
	IntentProductInquiry IntentType = "product_inquiry"
	IntentOrderStatus    IntentType = "order_status"
	IntentReturnRefund   IntentType = "return_refund"
	IntentGeneralInquiry IntentType = "general_inquiry"
	IntentUnknown        IntentType = "unknown"
)

// AllIntents 四个业务意图（不含 unknown），顺序即跨库检索与补充检索的固定顺序
var AllIntents = []IntentType{
	IntentProductInquiry,
	IntentOrderStatus,
	IntentReturnRefund,
	IntentGeneralInquiry,
}

// Valid 是否为合法意图值
func (t IntentType) Valid() bool {
	switch t {
	case IntentProductInquiry, IntentOrderStatus, IntentReturnRefund, IntentGeneralInquiry, IntentUnknown:
		return true
	}
	return false
}

// IntentClassification 意图分类结果
// Message 仅在分类过程出错时填充，用于区分"分类失败"和"正常但无法归类"两种零置信场景
type IntentClassification struct {
	Intent     IntentType `json:"intent"`
	Confidence float64    `json:"confidence"`
	Message    string     `json:"message,omitempty"`
}
