package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"github.com/nhgoodboy/customer-service-agent/constant"
	"github.com/nhgoodboy/customer-service-agent/model"
	"github.com/nhgoodboy/customer-service-agent/pkg/clients/llm_model"
)

var orderIDRegex = regexp.MustCompile(constant.OrderIDPattern)

// Classifier 意图分类器
// 订单号命中走确定性直通，其余交给大模型分类
type Classifier struct {
	generator llm_model.Generator
}

// NewClassifier 创建意图分类器
func NewClassifier(generator llm_model.Generator) *Classifier {
	return &Classifier{generator: generator}
}

// ExtractOrderID 从查询中提取订单号，未命中返回空串
func ExtractOrderID(query string) string {
	return orderIDRegex.FindString(query)
}

// Classify 对查询做意图分类
// 查询中出现订单号时直接判定为订单状态查询，不经过大模型；
// 分类过程出错不上抛，返回 unknown/0.0 并在 Message 中带上原因
func (c *Classifier) Classify(ctx context.Context, query string) model.IntentClassification {
	if orderID := ExtractOrderID(query); orderID != "" {
		log.Infof("order id %s detected, intent forced to order_status", orderID)
		return model.IntentClassification{Intent: model.IntentOrderStatus, Confidence: 0.95}
	}

	intent, confidence, err := c.classifyByGenerator(ctx, query)
	if err != nil {
		log.Errorf("intent classification failed: %v", err)
		return model.IntentClassification{
			Intent:     model.IntentUnknown,
			Confidence: 0.0,
			Message:    "意图分类失败: " + err.Error(),
		}
	}

	log.Infof("intent classified: query=%q intent=%s confidence=%.2f", query, intent, confidence)
	return model.IntentClassification{Intent: intent, Confidence: confidence}
}

func (c *Classifier) classifyByGenerator(ctx context.Context, query string) (model.IntentType, float64, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: constant.IntentSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: query},
	}

	answer, err := c.generator.Completion(ctx, messages)
	if err != nil {
		return model.IntentUnknown, 0.0, err
	}

	normalized := strings.ToLower(strings.TrimSpace(answer))
	switch {
	case strings.Contains(normalized, "product"):
		return model.IntentProductInquiry, 0.9, nil
	case strings.Contains(normalized, "order"):
		return model.IntentOrderStatus, 0.9, nil
	case strings.Contains(normalized, "return"), strings.Contains(normalized, "refund"):
		return model.IntentReturnRefund, 0.9, nil
	case strings.Contains(normalized, "general"):
		return model.IntentGeneralInquiry, 0.9, nil
	default:
		log.Warnf("unrecognized intent answer %q for query %q", normalized, query)
		return model.IntentUnknown, 0.5, nil
	}
}
