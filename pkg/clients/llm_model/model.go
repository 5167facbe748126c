package llm_model

import "time"

// Config 大模型客户端配置
type Config struct {
	BaseURL     string  `json:"base_url"`
	APIKey      string  `json:"api_key"`
	ModelName   string  `json:"model_name"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// ClientParams 客户端必填参数
type ClientParams struct {
	BaseURL   string `json:"base_url"`
	APIKey    string `json:"api_key"`
	ModelName string `json:"model_name"`
}

// Option 配置选项函数类型
type Option func(*Config)

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Temperature: 0.7,
		MaxTokens:   2048,
	}
}

// WithTemperature 设置温度参数
func WithTemperature(temperature float32) Option {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

// WithMaxTokens 设置最大输出token数
func WithMaxTokens(maxTokens int) Option {
	return func(c *Config) {
		c.MaxTokens = maxTokens
	}
}

// RetryPolicy 远程调用重试策略
// Sleep 可注入，测试时替换为不等待的实现
type RetryPolicy struct {
	MaxAttempts int
	BaseBackoff time.Duration
	Retryable   func(error) bool
	Sleep       func(time.Duration)
}

// DefaultRetryPolicy 默认重试策略：3次尝试，1s/2s/4s 指数退避
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 3,
		BaseBackoff: time.Second,
		Retryable:   func(error) bool { return true },
		Sleep:       time.Sleep,
	}
}
