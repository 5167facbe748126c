package retriever

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhgoodboy/customer-service-agent/model"
)

func TestRerankReorders(t *testing.T) {
	gen := &fakeGenerator{answer: "3,1,2"}
	svc := newTestService(nil, gen)
	docs := textDocs("a.json", "文档一", "文档二", "文档三")

	result := svc.Rerank(context.Background(), "问题", docs)
	require.Len(t, result, 3)
	assert.Equal(t, "文档三", result[0].Content)
	assert.Equal(t, "文档一", result[1].Content)
	assert.Equal(t, "文档二", result[2].Content)
}

func TestRerankOmittedIndicesAppended(t *testing.T) {
	gen := &fakeGenerator{answer: "2"}
	svc := newTestService(nil, gen)
	docs := textDocs("a.json", "文档一", "文档二", "文档三", "文档四")

	result := svc.Rerank(context.Background(), "问题", docs)
	require.Len(t, result, 4)
	assert.Equal(t, "文档二", result[0].Content)
	// 遗漏的按原始顺序补在末尾
	assert.Equal(t, "文档一", result[1].Content)
	assert.Equal(t, "文档三", result[2].Content)
	assert.Equal(t, "文档四", result[3].Content)
}

func TestRerankInvalidAndDuplicateIndices(t *testing.T) {
	gen := &fakeGenerator{answer: "9, 2, 2, 0, 1"}
	svc := newTestService(nil, gen)
	docs := textDocs("a.json", "文档一", "文档二", "文档三")

	result := svc.Rerank(context.Background(), "问题", docs)
	require.Len(t, result, 3)
	assert.Equal(t, "文档二", result[0].Content)
	assert.Equal(t, "文档一", result[1].Content)
	assert.Equal(t, "文档三", result[2].Content)
}

func TestRerankUnparseableKeepsOrder(t *testing.T) {
	gen := &fakeGenerator{answer: "无法排序"}
	svc := newTestService(nil, gen)
	docs := textDocs("a.json", "文档一", "文档二", "文档三")

	result := svc.Rerank(context.Background(), "问题", docs)
	assert.Equal(t, docs, result)
}

func TestRerankGeneratorErrorKeepsOrder(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("rate limited")}
	svc := newTestService(nil, gen)
	docs := textDocs("a.json", "文档一", "文档二", "文档三")

	result := svc.Rerank(context.Background(), "问题", docs)
	assert.Equal(t, docs, result)
}

func TestRerankIsPermutation(t *testing.T) {
	// 任意应答下输出都是输入的一个排列
	answers := []string{"1", "3,3,3", "2,4", "100", "a1b2", "4,3,2,1", ""}
	docs := textDocs("a.json", "甲", "乙", "丙", "丁")

	for _, answer := range answers {
		svc := newTestService(nil, &fakeGenerator{answer: answer})
		result := svc.Rerank(context.Background(), "问题", docs)

		require.Len(t, result, len(docs), "answer=%q", answer)
		var got, want []string
		for i := range docs {
			got = append(got, result[i].Content)
			want = append(want, docs[i].Content)
		}
		assert.ElementsMatch(t, want, got, "answer=%q", answer)
	}
}

func TestRerankRandomizedPermutationProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	docs := textDocs("a.json", "甲", "乙", "丙", "丁", "戊")

	for i := 0; i < 50; i++ {
		// 随机拼一个可能残缺、重复、越界的应答
		parts := make([]string, rng.Intn(8))
		for j := range parts {
			parts[j] = string(rune('0' + rng.Intn(10)))
		}
		svc := newTestService(nil, &fakeGenerator{answer: strings.Join(parts, ",")})

		result := svc.Rerank(context.Background(), "问题", docs)
		require.Len(t, result, len(docs))

		seen := make(map[string]int)
		for _, d := range result {
			seen[d.Content]++
		}
		for _, d := range docs {
			assert.Equal(t, 1, seen[d.Content])
		}
	}
}

func TestRerankPreviewTruncated(t *testing.T) {
	long := strings.Repeat("长", 1000)
	gen := &fakeGenerator{answer: "1,2"}
	svc := NewService(nil, gen, Options{TopK: 5, RerankPreviewLen: 300})
	docs := []model.Document{
		model.NewPlainTextDocument(long, "a.json"),
		model.NewPlainTextDocument("短文档", "a.json"),
	}

	result := svc.Rerank(context.Background(), "问题", docs)
	require.Len(t, result, 2)
	// 原文档内容不受预览截断影响
	assert.Equal(t, long, result[0].Content)
}
