package llm_model

import (
	"context"
	"fmt"
	"sync"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/wuwie1/go-tools/env"

	"github.com/nhgoodboy/customer-service-agent/config"
)

const (
	clientNameChatModel = "chat_model"
)

// Generator 文本生成能力，消息列表进、文本出
// 检索重排、意图分类和回复生成都通过该接口调用大模型，测试时可替换为假实现
type Generator interface {
	Completion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

// Client 大模型客户端，带重试策略
type Client struct {
	config *Config
	client *openai.Client
	retry  *RetryPolicy
}

var (
	instance *Client
	once     sync.Once
)

// GetInstance 按配置文件创建的客户端单例
func GetInstance() *Client {
	once.Do(func() {
		cfg := config.GetInstance()
		params := ClientParams{
			BaseURL:   cfg.GetString(config.ClientChatModelAddr),
			APIKey:    env.GetModelApiKey(),
			ModelName: cfg.GetString(config.ClientChatModelModel),
		}

		retry := DefaultRetryPolicy()
		if n := cfg.GetIntOrDefault(config.ClientChatModelMaxRetries, 0); n > 0 {
			retry.MaxAttempts = n
		}

		instance = NewClientWithParams(params, retry,
			WithTemperature(cast.ToFloat32(cfg.GetFloat64(config.ClientChatModelTemperature))),
			WithMaxTokens(cfg.GetInt(config.ClientChatModelMaxTokens)),
		)
	})
	return instance
}

// NewClientWithParams 创建客户端
// params 包含必填的 BaseURL, APIKey, ModelName；retry 为 nil 时使用默认策略
func NewClientWithParams(params ClientParams, retry *RetryPolicy, opts ...Option) *Client {
	conf := DefaultConfig()
	conf.BaseURL = params.BaseURL
	conf.APIKey = params.APIKey
	conf.ModelName = params.ModelName

	for _, opt := range opts {
		opt(conf)
	}

	clientConfig := openai.DefaultConfig(conf.APIKey)
	if conf.BaseURL != "" {
		clientConfig.BaseURL = conf.BaseURL
	}

	if retry == nil {
		retry = DefaultRetryPolicy()
	}

	return &Client{
		config: conf,
		client: openai.NewClientWithConfig(clientConfig),
		retry:  retry,
	}
}

// GetConfig 获取当前配置
func (c *Client) GetConfig() *Config {
	return c.config
}

// Completion 非流式调用，返回响应内容字符串
func (c *Client) Completion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:       c.config.ModelName,
		Messages:    messages,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
		Stream:      false,
	}

	var response openai.ChatCompletionResponse
	err := c.retry.Do(ctx, clientNameChatModel, func() error {
		var callErr error
		response, callErr = c.client.CreateChatCompletion(ctx, request)
		return callErr
	})
	if err != nil {
		log.Errorf("%s chat completion error: %v", clientNameChatModel, err)
		return "", err
	}

	if len(response.Choices) == 0 {
		log.Errorf("%s chat completion response has no choices", clientNameChatModel)
		return "", fmt.Errorf("chat completion response has no choices")
	}

	content := response.Choices[0].Message.Content
	if content == "" {
		log.Warnf("%s chat completion response content is empty", clientNameChatModel)
	}

	return content, nil
}

// ChatWithSystemPrompt 使用系统提示词进行单轮对话的便捷方法
func (c *Client) ChatWithSystemPrompt(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: userMessage,
		},
	}
	return c.Completion(ctx, messages)
}
