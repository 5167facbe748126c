package retriever

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"github.com/nhgoodboy/customer-service-agent/constant"
	"github.com/nhgoodboy/customer-service-agent/model"
	"github.com/nhgoodboy/customer-service-agent/pkg/str"
)

var rerankNumberRegex = regexp.MustCompile(`\d+`)

// Rerank 通过大模型按相关性重排文档
// 输出保证是输入的一个排列：模型遗漏的编号按原始顺序补在末尾，不丢文档；
// 解析失败或调用出错时保持原始顺序
func (s *Service) Rerank(ctx context.Context, query string, docs []model.Document) []model.Document {
	if len(docs) < 2 {
		return docs
	}

	var listing strings.Builder
	for i, doc := range docs {
		preview := str.TruncateRunes(doc.ContextText(), s.opts.RerankPreviewLen)
		listing.WriteString(fmt.Sprintf("%d. %s\n", i+1, preview))
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: constant.RerankSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(constant.RerankUserPromptTemplate, query, listing.String())},
	}

	answer, err := s.generator.Completion(ctx, messages)
	if err != nil {
		log.Warnf("rerank generator error, keeping original order: %v", err)
		return docs
	}

	order := parseRerankOrder(answer, len(docs))
	if order == nil {
		log.Warnf("rerank answer %q unparseable, keeping original order", answer)
		return docs
	}

	reordered := make([]model.Document, 0, len(docs))
	for _, idx := range order {
		reordered = append(reordered, docs[idx])
	}
	return reordered
}

// parseRerankOrder 解析重排应答为0-based下标序列
// 过滤越界和重复的编号，遗漏的编号按原始顺序补在末尾；一个合法编号都没有时返回 nil
func parseRerankOrder(answer string, n int) []int {
	matches := rerankNumberRegex.FindAllString(answer, -1)

	order := make([]int, 0, n)
	used := make([]bool, n)
	for _, m := range matches {
		num, err := strconv.Atoi(m)
		if err != nil || num < 1 || num > n {
			continue
		}
		idx := num - 1
		if used[idx] {
			continue
		}
		used[idx] = true
		order = append(order, idx)
	}

	if len(order) == 0 {
		return nil
	}

	for i := 0; i < n; i++ {
		if !used[i] {
			order = append(order, i)
		}
	}
	return order
}
