package chat

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"github.com/nhgoodboy/customer-service-agent/constant"
	"github.com/nhgoodboy/customer-service-agent/entity"
	"github.com/nhgoodboy/customer-service-agent/model"
	"github.com/nhgoodboy/customer-service-agent/pkg/clients/llm_model"
	"github.com/nhgoodboy/customer-service-agent/pkg/str"
	"github.com/nhgoodboy/customer-service-agent/service/intent"
	"github.com/nhgoodboy/customer-service-agent/service/session"
)

// IntentClassifier 意图分类
type IntentClassifier interface {
	Classify(ctx context.Context, query string) model.IntentClassification
}

// Retriever 知识检索
type Retriever interface {
	Retrieve(ctx context.Context, query string, intentType model.IntentType) model.RetrievalResult
}

// OrderFinder 订单查询
type OrderFinder interface {
	FindOrderByID(ctx context.Context, orderID string) (*entity.Order, error)
}

// orderStatusReplies 各订单状态的回复句式，%s 为订单号
var orderStatusReplies = map[string]string{
	entity.OrderStatusShipped:    "您的订单 %s 已发货，正在配送中。",
	entity.OrderStatusDelivered:  "您的订单 %s 已送达。",
	entity.OrderStatusProcessing: "您的订单 %s 正在处理中，我们会尽快安排发货。",
	entity.OrderStatusCancelled:  "您的订单 %s 已取消。",
	entity.OrderStatusPending:    "您的订单 %s 正在等待确认。",
}

// Options 聊天服务参数
type Options struct {
	HistoryTurns  int // 生成时携带的最近历史条数（不含当前提问）
	ContextBudget int // 拼接进提示词的检索上下文最大字符数
}

func (o *Options) normalize() {
	if o.HistoryTurns <= 0 {
		o.HistoryTurns = constant.DefaultHistoryTurns
	}
	if o.ContextBudget <= 0 {
		o.ContextBudget = constant.DefaultContextBudget
	}
}

// Service 聊天服务，串联意图分类、订单直查、知识检索和回复生成
type Service struct {
	classifier IntentClassifier
	retriever  Retriever
	orders     OrderFinder
	sessions   session.Store
	generator  llm_model.Generator
	opts       Options
}

// NewService 创建聊天服务
func NewService(classifier IntentClassifier, retriever Retriever, orders OrderFinder,
	sessions session.Store, generator llm_model.Generator, opts Options) *Service {
	opts.normalize()
	return &Service{
		classifier: classifier,
		retriever:  retriever,
		orders:     orders,
		sessions:   sessions,
		generator:  generator,
		opts:       opts,
	}
}

// ProcessQuery 处理一次用户提问
// 用户消息在任何可失败步骤之前入历史；后续链路异常一律降级为固定回复，
// 保证有回复且助手消息同样入历史
func (s *Service) ProcessQuery(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, *model.Error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, model.NewError(model.ErrorEmptyQuery, nil)
	}

	sessionID, err := s.sessions.Resolve(ctx, req.SessionID)
	if err != nil {
		return nil, model.NewError(model.ErrorSessionNotFound, err)
	}

	if err := s.sessions.AddMessage(ctx, sessionID, "user", req.Query); err != nil {
		log.Errorf("record user message in session %s failed: %v", sessionID, err)
	}

	resp := s.answer(ctx, sessionID, req)

	if err := s.sessions.AddMessage(ctx, sessionID, "assistant", resp.Response); err != nil {
		log.Errorf("record assistant message in session %s failed: %v", sessionID, err)
	}
	return resp, nil
}

func (s *Service) answer(ctx context.Context, sessionID string, req *model.ChatRequest) (resp *model.ChatResponse) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("process query panic: %v\n%s", r, debug.Stack())
			resp = &model.ChatResponse{
				Response: constant.PipelineErrorReply,
				Intent:   model.IntentUnknown,
				Sources:  []string{},
			}
		}
	}()

	orderID := intent.ExtractOrderID(req.Query)
	classification := s.classifier.Classify(ctx, req.Query)
	log.Infof("session=%s intent=%s confidence=%.2f", sessionID, classification.Intent, classification.Confidence)

	if err := s.sessions.SetMetadata(ctx, sessionID, constant.SessionMetaLastIntent, string(classification.Intent)); err != nil {
		log.Warnf("set session %s metadata failed: %v", sessionID, err)
	}

	if classification.Intent == model.IntentOrderStatus && orderID != "" {
		if reply, ok := s.orderReply(ctx, orderID); ok {
			return &model.ChatResponse{
				Response: reply,
				Intent:   classification.Intent,
				Sources:  []string{},
			}
		}
	}

	result := s.retriever.Retrieve(ctx, req.Query, classification.Intent)

	sources := result.Sources
	if sources == nil {
		sources = []string{}
	}
	return &model.ChatResponse{
		Response: s.compose(ctx, sessionID, req, classification.Intent, result.Documents),
		Intent:   classification.Intent,
		Sources:  sources,
	}
}

// orderReply 按订单号直查并套用模板，未命中或查询出错时回落到检索链路
func (s *Service) orderReply(ctx context.Context, orderID string) (string, bool) {
	order, err := s.orders.FindOrderByID(ctx, orderID)
	if err != nil {
		log.Errorf("find order %s failed: %v", orderID, err)
		return "", false
	}
	if order == nil {
		return "", false
	}
	return buildOrderReply(order), true
}

func buildOrderReply(order *entity.Order) string {
	status := strings.ToLower(order.Status)

	var reply string
	if template, ok := orderStatusReplies[status]; ok {
		reply = fmt.Sprintf(template, order.OrderID)
	} else {
		reply = fmt.Sprintf("您的订单 %s 状态为: %s", order.OrderID, status)
	}

	if order.EstimatedDelivery != "" {
		reply += fmt.Sprintf(constant.OrderReplyEstimatedDelivery, order.EstimatedDelivery)
	}
	if order.TrackingNumber != "" {
		carrier := order.Carrier
		if carrier == "" {
			carrier = constant.OrderReplyDefaultCarrier
		}
		reply += fmt.Sprintf(constant.OrderReplyTracking, carrier, order.TrackingNumber)
	}
	if len(order.Items) > 0 {
		reply += itemsSummary(order.Items)
	}
	return reply + constant.OrderReplyClosing
}

// itemsSummary 订单商品清单，多于三件只列前三件并汇总总件数
func itemsSummary(items []entity.OrderItem) string {
	if len(items) == 1 {
		return fmt.Sprintf(constant.OrderReplySingleItem,
			fmt.Sprintf("%s x %d", items[0].Name, items[0].Quantity))
	}

	listed := items
	if len(listed) > 3 {
		listed = listed[:3]
	}
	parts := make([]string, 0, len(listed))
	for _, item := range listed {
		parts = append(parts, fmt.Sprintf("%s x %d", item.Name, item.Quantity))
	}

	text := strings.Join(parts, ", ")
	if len(items) > 3 {
		text += fmt.Sprintf(constant.OrderReplyMoreItems, len(items))
	}
	return fmt.Sprintf(constant.OrderReplyMultiItems, text)
}

// compose 基于检索结果和会话历史生成回复
func (s *Service) compose(ctx context.Context, sessionID string, req *model.ChatRequest,
	intentType model.IntentType, docs []model.Document) string {
	if len(docs) == 0 {
		log.Infof("no documents retrieved for session %s, canned reply used", sessionID)
		return noContextReply(intentType)
	}

	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = systemPromptFor(intentType)
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleSystem, Content: constant.ContextSectionTitle + "\n" + s.contextSection(docs)},
	}
	messages = append(messages, s.historyMessages(ctx, sessionID)...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Query,
	})

	answer, err := s.generator.Completion(ctx, messages)
	if err != nil {
		log.Errorf("generate reply for session %s failed: %v", sessionID, err)
		return constant.FallbackReply
	}
	return answer
}

func (s *Service) contextSection(docs []model.Document) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if text := doc.ContextText(); text != "" {
			parts = append(parts, text)
		}
	}
	return str.TruncateAtSentence(strings.Join(parts, "\n\n"), s.opts.ContextBudget)
}

// historyMessages 取当前提问之前的最近几条历史
func (s *Service) historyMessages(ctx context.Context, sessionID string) []openai.ChatCompletionMessage {
	history, err := s.sessions.History(ctx, sessionID)
	if err != nil {
		log.Warnf("load history for session %s failed: %v", sessionID, err)
		return nil
	}
	if len(history) == 0 {
		return nil
	}

	// 最后一条是刚入历史的当前提问
	prior := history[:len(history)-1]
	if len(prior) > s.opts.HistoryTurns {
		prior = prior[len(prior)-s.opts.HistoryTurns:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(prior))
	for _, msg := range prior {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return messages
}

func noContextReply(intentType model.IntentType) string {
	switch intentType {
	case model.IntentProductInquiry:
		return constant.NoContextProductReply
	case model.IntentOrderStatus:
		return constant.NoContextOrderReply
	case model.IntentReturnRefund:
		return constant.NoContextRefundReply
	default:
		return constant.NoContextGeneralReply
	}
}

func systemPromptFor(intentType model.IntentType) string {
	switch intentType {
	case model.IntentProductInquiry:
		return constant.ProductInquirySystemPrompt
	case model.IntentOrderStatus:
		return constant.OrderStatusSystemPrompt
	case model.IntentReturnRefund:
		return constant.ReturnRefundSystemPrompt
	default:
		return constant.GeneralInquirySystemPrompt
	}
}
