package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhgoodboy/customer-service-agent/model"
)

// fakeSearcher 返回固定文档的分区
type fakeSearcher struct {
	docs      []model.Document
	err       error
	calls     int
	lastK     int
	lastQuery string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, k int) ([]model.Document, error) {
	f.calls++
	f.lastK = k
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	if len(f.docs) > k {
		return f.docs[:k], nil
	}
	return f.docs, nil
}

// fakeGenerator 重排用的假生成器
type fakeGenerator struct {
	answer string
	err    error
	calls  int
}

func (f *fakeGenerator) Completion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	f.calls++
	return f.answer, f.err
}

func textDocs(source string, contents ...string) []model.Document {
	docs := make([]model.Document, 0, len(contents))
	for _, c := range contents {
		docs = append(docs, model.NewPlainTextDocument(c, source))
	}
	return docs
}

func newTestService(stores map[model.IntentType]Searcher, gen *fakeGenerator) *Service {
	return NewService(stores, gen, Options{TopK: 5})
}

func TestRetrievePrimaryPartitionSufficient(t *testing.T) {
	product := &fakeSearcher{docs: textDocs("product.json", "商品A", "商品B", "商品C", "商品D", "商品E")}
	general := &fakeSearcher{docs: textDocs("faq.json", "通用1")}
	stores := map[model.IntentType]Searcher{
		model.IntentProductInquiry: product,
		model.IntentGeneralInquiry: general,
	}
	// 重排保持原顺序
	svc := newTestService(stores, &fakeGenerator{answer: "1,2,3,4,5"})

	result := svc.Retrieve(context.Background(), "商品A怎么样", model.IntentProductInquiry)
	assert.Len(t, result.Documents, 5)
	assert.Equal(t, []string{"product.json"}, result.Sources)
	// 足量时不触发补充检索
	assert.Equal(t, 0, general.calls)
}

func TestRetrieveBackfillFromGeneral(t *testing.T) {
	product := &fakeSearcher{docs: textDocs("product.json", "商品A")}
	general := &fakeSearcher{docs: textDocs("faq.json", "通用1", "通用2")}
	stores := map[model.IntentType]Searcher{
		model.IntentProductInquiry: product,
		model.IntentGeneralInquiry: general,
	}
	svc := newTestService(stores, &fakeGenerator{answer: "1,2,3"})

	result := svc.Retrieve(context.Background(), "某个小众商品", model.IntentProductInquiry)
	require.Len(t, result.Documents, 3)
	// 主分区结果在前
	assert.Equal(t, "商品A", result.Documents[0].Content)
	assert.Equal(t, 1, general.calls)
	assert.Equal(t, 2, general.lastK)
	assert.ElementsMatch(t, []string{"product.json", "faq.json"}, result.Sources)
}

func TestRetrieveBackfillRelatedPartitionByKeyword(t *testing.T) {
	general := &fakeSearcher{docs: textDocs("faq.json", "通用1")}
	order := &fakeSearcher{docs: textDocs("order.json", "订单说明")}
	refund := &fakeSearcher{docs: textDocs("refund.json", "退款说明")}
	stores := map[model.IntentType]Searcher{
		model.IntentGeneralInquiry: general,
		model.IntentOrderStatus:    order,
		model.IntentReturnRefund:   refund,
	}
	svc := newTestService(stores, &fakeGenerator{answer: ""})

	result := svc.Retrieve(context.Background(), "发货后怎么退款", model.IntentGeneralInquiry)
	// 主分区为通用时不再查通用，按关键词命中订单和退款分区
	assert.Equal(t, 1, order.calls)
	assert.Equal(t, 1, refund.calls)

	var contents []string
	for _, d := range result.Documents {
		contents = append(contents, d.Content)
	}
	assert.Equal(t, []string{"通用1", "订单说明", "退款说明"}, contents)
}

func TestRetrieveBackfillOrderKeywordVariants(t *testing.T) {
	general := &fakeSearcher{docs: textDocs("faq.json", "通用1")}
	order := &fakeSearcher{docs: textDocs("order.json", "订单说明")}
	stores := map[model.IntentType]Searcher{
		model.IntentGeneralInquiry: general,
		model.IntentOrderStatus:    order,
	}
	svc := newTestService(stores, &fakeGenerator{answer: ""})

	// "快递"不是订单分区文件名里的词，但属于订单类关键词
	svc.Retrieve(context.Background(), "快递到哪了", model.IntentGeneralInquiry)
	assert.Equal(t, 1, order.calls)
}

func TestRetrievePrimaryPartitionFailureIsolated(t *testing.T) {
	product := &fakeSearcher{err: errors.New("partition down")}
	general := &fakeSearcher{docs: textDocs("faq.json", "通用1", "通用2")}
	stores := map[model.IntentType]Searcher{
		model.IntentProductInquiry: product,
		model.IntentGeneralInquiry: general,
	}
	svc := newTestService(stores, &fakeGenerator{answer: ""})

	result := svc.Retrieve(context.Background(), "商品咨询", model.IntentProductInquiry)
	// 主分区故障不影响补充检索结果
	assert.Len(t, result.Documents, 2)
	assert.Equal(t, []string{"faq.json"}, result.Sources)
}

func TestRetrieveDeduplicatesByContent(t *testing.T) {
	product := &fakeSearcher{docs: textDocs("product.json", "重复内容")}
	general := &fakeSearcher{docs: textDocs("faq.json", "重复内容", "独有内容")}
	stores := map[model.IntentType]Searcher{
		model.IntentProductInquiry: product,
		model.IntentGeneralInquiry: general,
	}
	svc := newTestService(stores, &fakeGenerator{answer: ""})

	result := svc.Retrieve(context.Background(), "商品", model.IntentProductInquiry)
	require.Len(t, result.Documents, 2)
	assert.Equal(t, "重复内容", result.Documents[0].Content)
	assert.Equal(t, "独有内容", result.Documents[1].Content)
}

func TestRetrieveUnknownIntentUsesGeneral(t *testing.T) {
	general := &fakeSearcher{docs: textDocs("faq.json", "通用1")}
	stores := map[model.IntentType]Searcher{
		model.IntentGeneralInquiry: general,
	}
	svc := newTestService(stores, &fakeGenerator{answer: ""})

	result := svc.Retrieve(context.Background(), "你好", model.IntentUnknown)
	assert.Equal(t, 1, general.calls)
	assert.Len(t, result.Documents, 1)
}

func TestExpandQueryShortWithTrigger(t *testing.T) {
	svc := newTestService(map[model.IntentType]Searcher{}, &fakeGenerator{})

	expanded := svc.ExpandQuery("积分")
	assert.Contains(t, expanded, "积分")
	assert.Contains(t, expanded, "积分抵扣")
}

func TestExpandQueryLongNotExpanded(t *testing.T) {
	svc := newTestService(map[model.IntentType]Searcher{}, &fakeGenerator{})

	query := "我想详细了解一下积分的使用规则和有效期"
	assert.Equal(t, query, svc.ExpandQuery(query))
}

func TestExpandQueryNoTrigger(t *testing.T) {
	svc := newTestService(map[model.IntentType]Searcher{}, &fakeGenerator{})
	assert.Equal(t, "你好", svc.ExpandQuery("你好"))
}

func TestMultiStoreSearch(t *testing.T) {
	product := &fakeSearcher{docs: textDocs("product.json", "商品A")}
	order := &fakeSearcher{docs: textDocs("order.json", "订单A")}
	refund := &fakeSearcher{docs: textDocs("refund.json", "退款A")}
	general := &fakeSearcher{docs: textDocs("faq.json", "通用A")}
	svc := newTestService(map[model.IntentType]Searcher{
		model.IntentProductInquiry: product,
		model.IntentOrderStatus:    order,
		model.IntentReturnRefund:   refund,
		model.IntentGeneralInquiry: general,
	}, &fakeGenerator{answer: ""})

	result := svc.MultiStoreSearch(context.Background(), "平台政策", 3)
	require.Len(t, result.Documents, 4)
	// 合并顺序与意图固定顺序一致
	assert.Equal(t, "商品A", result.Documents[0].Content)
	assert.Equal(t, "订单A", result.Documents[1].Content)
	assert.Equal(t, "退款A", result.Documents[2].Content)
	assert.Equal(t, "通用A", result.Documents[3].Content)
}

func TestMultiStoreSearchExpandsShortQuery(t *testing.T) {
	general := &fakeSearcher{docs: textDocs("faq.json", "积分说明")}
	svc := newTestService(map[model.IntentType]Searcher{
		model.IntentProductInquiry: general,
		model.IntentOrderStatus:    general,
		model.IntentReturnRefund:   general,
		model.IntentGeneralInquiry: general,
	}, &fakeGenerator{answer: ""})

	result := svc.MultiStoreSearch(context.Background(), "积分", 3)
	// 各分区收到扩展后的查询，返回结果仍记录原始查询
	assert.Contains(t, general.lastQuery, "积分抵扣")
	assert.Equal(t, "积分", result.Query)
}
