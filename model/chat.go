package model

import "time"

// Message 会话中的一条消息
type Message struct {
	Role      string    `json:"role"` // user 或 assistant
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest 聊天请求
type ChatRequest struct {
	Query        string `json:"query" binding:"required"`
	SessionID    string `json:"session_id"`
	SystemPrompt string `json:"system_prompt"` // 可选，覆盖按意图选择的系统提示词
}

// ChatResponse 聊天响应
type ChatResponse struct {
	Response string     `json:"response"`
	Intent   IntentType `json:"intent"`
	Sources  []string   `json:"sources"`
}

// SessionContext 会话上下文信息（可观测性接口用）
type SessionContext struct {
	Exists       bool      `json:"exists"`
	SessionID    string    `json:"session_id,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	LastActive   time.Time `json:"last_active,omitempty"`
	MessageCount int       `json:"message_count"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}
