package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhgoodboy/customer-service-agent/model"
	"github.com/nhgoodboy/customer-service-agent/pkg/vectorstore"
	"github.com/nhgoodboy/customer-service-agent/repository/jsonfile"
)

// staticEmbedder 返回固定向量
type staticEmbedder struct{}

func (staticEmbedder) GetTextEmbedding(ctx context.Context, text string) ([]float64, error) {
	return []float64{1, 0}, nil
}

func (staticEmbedder) GetTextEmbeddingBatch(ctx context.Context, texts []string) ([][]float64, error) {
	result := make([][]float64, len(texts))
	for i := range texts {
		result[i] = []float64{1, 0}
	}
	return result, nil
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func newTestService(t *testing.T, dir string) (*Service, map[model.IntentType]*vectorstore.Store) {
	t.Helper()
	stores := make(map[model.IntentType]*vectorstore.Store)
	for _, intent := range model.AllIntents {
		stores[intent] = vectorstore.NewStore(string(intent), staticEmbedder{})
	}
	return NewService(stores, jsonfile.NewFactory(dir), dir), stores
}

func TestInitKnowledgeBaseRoutesFilesByPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "product_phones.json", `[{"name": "智能手机X", "price": 3999}]`)
	writeFile(t, dir, "order_samples.json", `[{"order_id": "OD2023110512567", "status": "shipped"}]`)
	writeFile(t, dir, "return_refund_policy.json", `[{"text": "七天无理由退换。"}]`)
	writeFile(t, dir, "faq_general.json", `[{"question": "积分怎么用？", "answer": "结算抵扣。"}]`)

	svc, stores := newTestService(t, dir)
	results := svc.InitKnowledgeBase(context.Background())

	assert.True(t, results["product_knowledge"])
	assert.True(t, results["order_knowledge"])
	assert.True(t, results["return_refund_knowledge"])
	assert.True(t, results["general_knowledge"])

	assert.Equal(t, 1, stores[model.IntentProductInquiry].Len())
	assert.Equal(t, 1, stores[model.IntentOrderStatus].Len())
	assert.Equal(t, 1, stores[model.IntentReturnRefund].Len())
	assert.Equal(t, 1, stores[model.IntentGeneralInquiry].Len())
}

func TestInitKnowledgeBaseBrokenFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "faq_general.json", `{broken`)
	writeFile(t, dir, "faq_extra.json", `[{"question": "问", "answer": "答"}]`)

	svc, stores := newTestService(t, dir)
	results := svc.InitKnowledgeBase(context.Background())

	// 坏文件只影响成功标记，好文件照常加载
	assert.False(t, results["general_knowledge"])
	assert.Equal(t, 1, stores[model.IntentGeneralInquiry].Len())
}

func TestInitKnowledgeBaseRebuilds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "faq_general.json", `[{"question": "问一", "answer": "答一"}]`)

	svc, stores := newTestService(t, dir)
	svc.InitKnowledgeBase(context.Background())
	require.Equal(t, 1, stores[model.IntentGeneralInquiry].Len())

	// 再次初始化为重建而非追加
	svc.InitKnowledgeBase(context.Background())
	assert.Equal(t, 1, stores[model.IntentGeneralInquiry].Len())
}

func TestAddDocument(t *testing.T) {
	dir := t.TempDir()
	svc, stores := newTestService(t, dir)

	err := svc.AddDocument(context.Background(), &model.DocumentInput{
		Text:   "新品上架说明",
		Intent: model.IntentProductInquiry,
	})
	require.Nil(t, err)
	assert.Equal(t, 1, stores[model.IntentProductInquiry].Len())
}

func TestAddDocumentUnknownIntent(t *testing.T) {
	svc, _ := newTestService(t, t.TempDir())

	err := svc.AddDocument(context.Background(), &model.DocumentInput{
		Text:   "内容",
		Intent: model.IntentUnknown,
	})
	require.NotNil(t, err)
	assert.Equal(t, model.ErrorKnowledge, err.Code)
}

func TestClearSinglePartition(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "faq_general.json", `[{"question": "问", "answer": "答"}]`)
	svc, stores := newTestService(t, dir)
	svc.InitKnowledgeBase(context.Background())

	results := svc.Clear(model.IntentGeneralInquiry)
	assert.True(t, results[string(model.IntentGeneralInquiry)])
	assert.Equal(t, 0, stores[model.IntentGeneralInquiry].Len())
}

func TestClearAllPartitions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "product_a.json", `[{"name": "甲"}]`)
	writeFile(t, dir, "faq_a.json", `[{"question": "问", "answer": "答"}]`)
	svc, stores := newTestService(t, dir)
	svc.InitKnowledgeBase(context.Background())

	results := svc.Clear("")
	assert.Len(t, results, 4)
	for _, store := range stores {
		assert.Equal(t, 0, store.Len())
	}
}

func TestFindOrderByID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "order_samples.json", `[{"order_id": "OD2023110512567", "status": "shipped"}]`)
	svc, _ := newTestService(t, dir)

	order, err := svc.FindOrderByID(context.Background(), "OD2023110512567")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "shipped", order.Status)

	missing, err := svc.FindOrderByID(context.Background(), "OD0000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
