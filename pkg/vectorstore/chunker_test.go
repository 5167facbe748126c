package vectorstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhgoodboy/customer-service-agent/pkg/str"
)

func TestChunkTextShortText(t *testing.T) {
	text := "这是一段很短的文本。"
	chunks := ChunkText(text, DefaultChunkConfig())
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestChunkTextByParagraph(t *testing.T) {
	para := strings.Repeat("电商平台的订单处理说明。", 30)
	text := para + "\n\n" + para + "\n\n" + para

	config := DefaultChunkConfig()
	config.MaxSize = 400
	config.MinSize = 100
	config.Overlap = 50

	chunks := ChunkText(text, config)
	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, str.RuneLen(chunk), config.MaxSize+config.Overlap)
	}
}

func TestChunkTextBySentenceFallback(t *testing.T) {
	// 没有段落分隔符的长文本降级到句子切分
	text := strings.Repeat("订单在支付后24小时内发货。物流信息可在订单页查看。", 40)

	config := DefaultChunkConfig()
	config.MaxSize = 300
	config.MinSize = 50
	config.Overlap = 30

	chunks := ChunkText(text, config)
	assert.Greater(t, len(chunks), 1)
}

func TestChunkTextFixedNoBoundaries(t *testing.T) {
	// 完全没有句子结束符时按固定长度硬切
	text := strings.Repeat("积分", 500)

	config := ChunkConfig{MaxSize: 200, Overlap: 20, MinSize: 50, Strategy: "fixed"}
	chunks := ChunkText(text, config)
	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, str.RuneLen(chunk), config.MaxSize)
	}
}

func TestChunkTextFixedPrefersSentenceBoundary(t *testing.T) {
	// 上限范围后半段有句子结束符时固定切分在边界处收束
	text := "一二三四五六七。八九十甲乙丙丁"

	config := ChunkConfig{MaxSize: 10, Overlap: 0, MinSize: 5, Strategy: "fixed"}
	chunks := ChunkText(text, config)
	require.Len(t, chunks, 2)
	assert.Equal(t, "一二三四五六七。", chunks[0])
	assert.Equal(t, "八九十甲乙丙丁", chunks[1])
}

func TestChunkTextMultiByteMeasuredByRunes(t *testing.T) {
	// 中文文本按字符数而非字节数衡量，600个汉字不应被切分
	text := strings.Repeat("汉", 600)
	chunks := ChunkText(text, DefaultChunkConfig())
	assert.Len(t, chunks, 1)
}

func TestChunkTextOverlap(t *testing.T) {
	sentences := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		sentences = append(sentences, strings.Repeat("说明", 20)+"。")
	}
	text := strings.Join(sentences, "")

	config := ChunkConfig{MaxSize: 120, Overlap: 20, MinSize: 40, Strategy: "sentence"}
	chunks := ChunkText(text, config)
	require.Greater(t, len(chunks), 1)

	// 相邻块之间存在内容重叠
	tail := tailRunes(chunks[0], config.Overlap)
	assert.True(t, strings.Contains(chunks[1], tail))
}
