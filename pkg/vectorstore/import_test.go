package vectorstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhgoodboy/customer-service-agent/model"
)

func writeTempJSON(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseKnowledgeFileFaqArray(t *testing.T) {
	path := writeTempJSON(t, "faq_general.json", `[
		{"question": "积分怎么使用？", "answer": "结算时可抵扣现金。", "category": "会员"},
		{"question": "如何修改收货地址？", "answer": "发货前可在订单页修改。"}
	]`)

	docs, err := ParseKnowledgeFile(path)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, model.DocumentFaq, docs[0].Kind)
	assert.Equal(t, "积分怎么使用？", docs[0].Question)
	assert.Equal(t, "结算时可抵扣现金。", docs[0].Content)
	assert.Equal(t, "会员", docs[0].Category)
	assert.Equal(t, "faq_general.json", docs[0].Source)

	assert.Equal(t, model.DocumentFaq, docs[1].Kind)
	assert.Empty(t, docs[1].Category)
}

func TestParseKnowledgeFileStructuredRecords(t *testing.T) {
	path := writeTempJSON(t, "product_phones.json", `[
		{"name": "智能手机X", "price": 3999, "stock": 120}
	]`)

	docs, err := ParseKnowledgeFile(path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, model.DocumentStructured, docs[0].Kind)
	assert.Equal(t, "智能手机X", docs[0].Record["name"])
}

func TestParseKnowledgeFileTextField(t *testing.T) {
	path := writeTempJSON(t, "policy.json", `[{"text": "退货政策：七天无理由退换。"}]`)

	docs, err := ParseKnowledgeFile(path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, model.DocumentPlainText, docs[0].Kind)
	assert.Equal(t, "退货政策：七天无理由退换。", docs[0].Content)
}

func TestParseKnowledgeFileSingleObject(t *testing.T) {
	path := writeTempJSON(t, "single.json", `{"name": "平台介绍", "desc": "一站式购物"}`)

	docs, err := ParseKnowledgeFile(path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, model.DocumentStructured, docs[0].Kind)
}

func TestParseKnowledgeFileStringArray(t *testing.T) {
	path := writeTempJSON(t, "notes.json", `["运费说明：满99元包邮"]`)

	docs, err := ParseKnowledgeFile(path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, model.DocumentPlainText, docs[0].Kind)
	assert.Equal(t, "运费说明：满99元包邮", docs[0].Content)
}

func TestParseKnowledgeFileInvalid(t *testing.T) {
	path := writeTempJSON(t, "broken.json", `{not json`)

	_, err := ParseKnowledgeFile(path)
	assert.Error(t, err)
}

func TestEmbeddingTextEnrichesRecord(t *testing.T) {
	doc := model.NewStructuredDocument(map[string]interface{}{
		"name":  "智能手机X",
		"specs": map[string]interface{}{"屏幕": "6.7英寸", "内存": "256GB"},
		"tags":  []interface{}{"旗舰", "新品"},
	}, "product.json")

	text := EmbeddingText(doc)
	assert.Contains(t, text, "name: 智能手机X")
	assert.Contains(t, text, "屏幕: 6.7英寸")
	assert.Contains(t, text, "旗舰, 新品")
	// 末尾拼接原始JSON
	assert.Contains(t, text, `"name":"智能手机X"`)
}

func TestEmbeddingTextFaqNotEnriched(t *testing.T) {
	doc := model.NewFaqDocument("积分怎么用？", "结算抵扣。", "会员", "faq.json")
	text := EmbeddingText(doc)
	assert.Equal(t, doc.ContextText(), text)
}
