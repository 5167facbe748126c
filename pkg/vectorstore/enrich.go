package vectorstore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nhgoodboy/customer-service-agent/model"
)

// EmbeddingText 返回文档用于向量化的文本
// 结构化记录展开为 key: value 行列表并拼接原始JSON，提升字面召回；FAQ不做展开
func EmbeddingText(doc model.Document) string {
	switch doc.Kind {
	case model.DocumentStructured:
		return enrichRecord(doc)
	case model.DocumentFaq:
		return doc.ContextText()
	default:
		return doc.Content
	}
}

func enrichRecord(doc model.Document) string {
	raw := doc.ContextText()
	if len(doc.Record) == 0 {
		return raw
	}

	keys := make([]string, 0, len(doc.Record))
	for k := range doc.Record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, flattenValue(doc.Record[k])))
	}
	lines = append(lines, raw)

	return strings.Join(lines, "\n")
}

func flattenValue(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case []interface{}:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			parts = append(parts, flattenValue(item))
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", k, flattenValue(value[k])))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
