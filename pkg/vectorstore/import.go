package vectorstore

import (
	"fmt"
	"path/filepath"

	"github.com/nhgoodboy/customer-service-agent/model"
	"github.com/nhgoodboy/customer-service-agent/pkg/file"
)

// ParseKnowledgeFile 解析知识库JSON文件为文档列表
// 支持顶层数组或单个对象；带 question/answer 字段的对象识别为FAQ，
// 带 text/content 字段的对象识别为纯文本，其余对象作为结构化记录
func ParseKnowledgeFile(path string) ([]model.Document, error) {
	var raw interface{}
	if err := file.ReadJSON(path, &raw); err != nil {
		return nil, fmt.Errorf("load knowledge file %s failed: %w", path, err)
	}

	source := filepath.Base(path)

	switch data := raw.(type) {
	case []interface{}:
		docs := make([]model.Document, 0, len(data))
		for _, item := range data {
			docs = append(docs, convertItem(item, source))
		}
		return docs, nil
	case map[string]interface{}:
		return []model.Document{convertItem(data, source)}, nil
	default:
		return []model.Document{model.NewPlainTextDocument(fmt.Sprintf("%v", raw), source)}, nil
	}
}

func convertItem(item interface{}, source string) model.Document {
	record, ok := item.(map[string]interface{})
	if !ok {
		return model.NewPlainTextDocument(fmt.Sprintf("%v", item), source)
	}

	question, hasQuestion := stringField(record, "question")
	answer, hasAnswer := stringField(record, "answer")
	if hasQuestion && hasAnswer {
		category, _ := stringField(record, "category")
		return model.NewFaqDocument(question, answer, category, source)
	}

	if text, ok := stringField(record, "text"); ok {
		return model.NewPlainTextDocument(text, source)
	}
	if content, ok := stringField(record, "content"); ok {
		return model.NewPlainTextDocument(content, source)
	}

	return model.NewStructuredDocument(record, source)
}

func stringField(record map[string]interface{}, key string) (string, bool) {
	v, ok := record[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
