package vectorstore

import (
	"regexp"
	"strings"

	"github.com/nhgoodboy/customer-service-agent/pkg/str"
)

// ChunkConfig 分块配置，长度均按字符数计
type ChunkConfig struct {
	MaxSize  int    // 最大块大小，默认 1000
	Overlap  int    // 重叠窗口大小，默认 100
	MinSize  int    // 最小块大小，默认 200
	Strategy string // 分块策略: "paragraph", "sentence", "fixed"，默认 "paragraph"
}

// DefaultChunkConfig 返回默认配置
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxSize:  1000,
		Overlap:  100,
		MinSize:  200,
		Strategy: "paragraph",
	}
}

func (c *ChunkConfig) normalize() {
	if c.MaxSize <= 0 {
		c.MaxSize = 1000
	}
	if c.Overlap < 0 {
		c.Overlap = 100
	}
	if c.Overlap >= c.MaxSize {
		c.Overlap = c.MaxSize / 10
	}
	if c.MinSize <= 0 {
		c.MinSize = 200
	}
}

var (
	paragraphSplitRegex = regexp.MustCompile(`\n\s*\n`)
	sentenceEndRegex    = regexp.MustCompile(`[。！？.!?]\s*`)
)

// ChunkText 将长文本切分为带重叠的块
// 优先按段落切分，段落过长时降级到句子切分，再降级到固定长度切分
func ChunkText(text string, config ChunkConfig) []string {
	config.normalize()

	if str.RuneLen(text) <= config.MaxSize {
		return []string{text}
	}

	switch config.Strategy {
	case "sentence":
		return chunkBySentence(text, config)
	case "fixed":
		return chunkFixed(text, config)
	default:
		return chunkByParagraph(text, config)
	}
}

func chunkByParagraph(text string, config ChunkConfig) []string {
	paragraphs := splitNonEmpty(paragraphSplitRegex.Split(text, -1))
	if len(paragraphs) <= 1 {
		return chunkBySentence(text, config)
	}

	chunks := accumulate(paragraphs, "\n\n", config)

	// 仍然存在超长块时降级到句子切分
	return splitOversized(chunks, config, chunkBySentence)
}

func chunkBySentence(text string, config ChunkConfig) []string {
	sentences := splitSentences(text)
	if len(sentences) <= 1 {
		return chunkFixed(text, config)
	}

	chunks := accumulate(sentences, "", config)

	return splitOversized(chunks, config, chunkFixed)
}

func chunkFixed(text string, config ChunkConfig) []string {
	runes := []rune(text)
	if len(runes) <= config.MaxSize {
		return []string{text}
	}

	chunks := make([]string, 0)
	start := 0
	for start < len(runes) {
		end := start + config.MaxSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		// 窗口多取一个字符，恰好等于上限的窗口会被原样返回而跳过边界回退
		window := end + 1
		if window > len(runes) {
			window = len(runes)
		}
		// 尽量在句子边界处截断，避免截断词语
		piece := str.TruncateAtSentence(string(runes[start:window]), config.MaxSize)
		chunks = append(chunks, piece)

		next := start + str.RuneLen(piece) - config.Overlap
		if next <= start {
			next = start + str.RuneLen(piece)
		}
		start = next
	}

	return chunks
}

// accumulate 将片段按大小上限累积成块，块间通过上一块尾部实现重叠
func accumulate(parts []string, separator string, config ChunkConfig) []string {
	chunks := make([]string, 0)
	current := strings.Builder{}
	currentLen := 0

	flush := func() {
		if currentLen == 0 {
			return
		}
		chunks = append(chunks, current.String())
		current.Reset()
		currentLen = 0
	}

	for _, part := range parts {
		partLen := str.RuneLen(part)

		if currentLen > 0 && currentLen+partLen+str.RuneLen(separator) > config.MaxSize && currentLen >= config.MinSize {
			prev := current.String()
			flush()

			// 重叠：携带上一块的尾部
			if config.Overlap > 0 {
				overlap := tailRunes(prev, config.Overlap)
				if overlap != "" {
					current.WriteString(overlap)
					currentLen = str.RuneLen(overlap)
				}
			}
		}

		if currentLen > 0 && separator != "" {
			current.WriteString(separator)
			currentLen += str.RuneLen(separator)
		}
		current.WriteString(part)
		currentLen += partLen
	}
	flush()

	return chunks
}

// splitOversized 对仍超过上限的块应用降级切分
func splitOversized(chunks []string, config ChunkConfig, fallback func(string, ChunkConfig) []string) []string {
	result := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if str.RuneLen(chunk) > config.MaxSize {
			result = append(result, fallback(chunk, config)...)
		} else {
			result = append(result, chunk)
		}
	}
	return result
}

// splitSentences 按句子分割文本，兼容中英文结束符
func splitSentences(text string) []string {
	matches := sentenceEndRegex.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return splitNonEmpty([]string{text})
	}

	sentences := make([]string, 0, len(matches)+1)
	start := 0
	for _, match := range matches {
		sent := strings.TrimSpace(text[start:match[1]])
		if sent != "" {
			sentences = append(sentences, sent)
		}
		start = match[1]
	}
	if start < len(text) {
		if remaining := strings.TrimSpace(text[start:]); remaining != "" {
			sentences = append(sentences, remaining)
		}
	}

	return sentences
}

func splitNonEmpty(parts []string) []string {
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func tailRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
