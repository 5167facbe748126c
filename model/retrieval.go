package model

import "encoding/json"

// DocumentKind 检索文档的内容形态
type DocumentKind string

const (
	DocumentPlainText  DocumentKind = "text"
	DocumentStructured DocumentKind = "record"
	DocumentFaq        DocumentKind = "faq"
)

// Document 检索返回的单个文档
// 三种形态互斥：纯文本、结构化记录、FAQ条目，转换统一发生在检索边界
type Document struct {
	Kind     DocumentKind           `json:"kind"`
	Content  string                 `json:"content,omitempty"`
	Record   map[string]interface{} `json:"record,omitempty"`
	Question string                 `json:"question,omitempty"`
	Category string                 `json:"category,omitempty"`
	Source   string                 `json:"source,omitempty"`
}

// NewPlainTextDocument 创建纯文本文档
func NewPlainTextDocument(content, source string) Document {
	return Document{Kind: DocumentPlainText, Content: content, Source: source}
}

// NewStructuredDocument 创建结构化记录文档
func NewStructuredDocument(record map[string]interface{}, source string) Document {
	return Document{Kind: DocumentStructured, Record: record, Source: source}
}

// NewFaqDocument 创建FAQ文档
func NewFaqDocument(question, content, category, source string) Document {
	return Document{
		Kind:     DocumentFaq,
		Question: question,
		Content:  content,
		Category: category,
		Source:   source,
	}
}

// ContextText 返回拼接进提示词的文本表示
func (d Document) ContextText() string {
	switch d.Kind {
	case DocumentStructured:
		data, err := json.Marshal(d.Record)
		if err != nil {
			return ""
		}
		return string(data)
	case DocumentFaq:
		text := "问题: " + d.Question + "\n回答: " + d.Content
		if d.Category != "" {
			text += "\n类别: " + d.Category
		}
		return text
	default:
		return d.Content
	}
}

// RetrievalResult 一次检索的结果
type RetrievalResult struct {
	Documents []Document `json:"documents"`
	Sources   []string   `json:"sources"`
	Query     string     `json:"query"`
}

// DocumentInput 知识库文档输入
type DocumentInput struct {
	Text     string                 `json:"text" binding:"required"`
	Metadata map[string]interface{} `json:"metadata"`
	Intent   IntentType             `json:"intent_type" binding:"required"`
}
